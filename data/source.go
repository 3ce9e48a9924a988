// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package data

import (
	"context"
	"io"
	"net/http"

	"github.com/born-ml/datasets/internal/dataloader"
	"github.com/born-ml/datasets/internal/dataset"
	"github.com/born-ml/datasets/internal/fashion"
	"github.com/born-ml/datasets/internal/parallel"
)

// Classes lists the Fashion-MNIST label names, indexed by label.
var Classes = fashion.Classes

// SourceConfig configures the Fashion-MNIST source.
type SourceConfig struct {
	// Root is the storage root.
	Root string
	// Download fetches missing splits.
	Download bool
	// Transform converts images; ToTensor when nil.
	Transform TransformFunc
	// Mirrors overrides the default download locations.
	Mirrors []string
	// Checksums overrides the published MD5 per archive file name.
	Checksums map[string]string
	// Client performs downloads; http.DefaultClient when nil.
	Client *http.Client
	// Progress receives download progress bars. Nil disables them.
	Progress io.Writer

	// Shuffle draws a new sample order every epoch. Off by default.
	Shuffle bool
	// Seed makes shuffling reproducible.
	Seed uint64
	// DropLast skips the final short batch.
	DropLast bool
	// Workers bounds per-batch sample decoding goroutines.
	// 0 uses one per physical core, 1 decodes on the iterating goroutine.
	Workers int
}

// DefaultSourceConfig returns the configuration used by GetDataLoader.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Root:     DefaultRoot,
		Download: true,
	}
}

// DefaultSource returns NewSource(DefaultSourceConfig()).
func DefaultSource() Source {
	return NewSource(DefaultSourceConfig())
}

// NewSource returns the Fashion-MNIST Source described by cfg.
func NewSource(cfg SourceConfig) Source {
	return &fashionSource{cfg: cfg}
}

type fashionSource struct {
	cfg SourceConfig
}

func (s *fashionSource) Load(train bool) (Dataset, error) {
	ds, err := fashion.New(context.Background(), fashion.Config{
		Root:      s.cfg.Root,
		Split:     dataset.SplitOf(train),
		Download:  s.cfg.Download,
		Transform: s.cfg.Transform,
		Mirrors:   s.cfg.Mirrors,
		Checksums: s.cfg.Checksums,
		Client:    s.cfg.Client,
		Progress:  s.cfg.Progress,
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (s *fashionSource) Batch(ds Dataset, batchSize int) (Loader, error) {
	cfg := dataloader.DefaultConfig()
	cfg.BatchSize = batchSize
	cfg.Shuffle = s.cfg.Shuffle
	cfg.Seed = s.cfg.Seed
	cfg.DropLast = s.cfg.DropLast
	switch {
	case s.cfg.Workers == 1:
		cfg.Parallel = parallel.Sequential()
	case s.cfg.Workers > 1:
		cfg.Parallel.Enabled = true
		cfg.Parallel.NumWorkers = s.cfg.Workers
	}

	l, err := dataloader.New(ds, cfg)
	if err != nil {
		return nil, err
	}
	return l, nil
}
