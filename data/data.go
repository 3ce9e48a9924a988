// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data provides batched iterators over image classification datasets.
//
// # Quick start
//
//	loader, err := data.GetDataLoader(64, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for batch, err := range loader.All() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    images := batch.Images.AsFloat32() // [64, 1, 28, 28], values in [0, 1]
//	    labels := batch.Labels.AsInt64()   // [64], classes 0-9
//	    _, _ = images, labels
//	}
//
// GetDataLoader stores Fashion-MNIST under ./data, downloading the
// requested split on first use. Each range over All is one epoch; the last
// batch is shorter when the split size is not a multiple of the batch size.
//
// # Custom sources
//
// The factory depends only on the Source interface. NewSource configures
// the real Fashion-MNIST source (root, mirrors, transform, shuffling), and
// tests can substitute their own:
//
//	f := data.NewFactory(data.NewSource(data.SourceConfig{
//	    Root:     "/var/cache/datasets",
//	    Download: true,
//	    Shuffle:  true,
//	    Seed:     1,
//	}))
//	loader, err := f.GetDataLoader(128, true)
package data

import (
	"iter"

	"github.com/born-ml/datasets/internal/dataloader"
	"github.com/born-ml/datasets/internal/dataset"
)

// DefaultRoot is the storage root used by GetDataLoader.
const DefaultRoot = "data"

// Batch holds stacked images ([Size, 1, 28, 28], float32) and labels ([Size], int64).
type Batch = dataloader.Batch

// Sample is a single transformed (image, label) pair.
type Sample = dataset.Sample

// Dataset is an ordered, indexable collection of samples.
type Dataset = dataset.Dataset

// Loader is a reusable batch iterable. Every call to All is a new epoch.
type Loader interface {
	// Len returns the number of batches per epoch.
	Len() int
	// All yields the batches of one epoch.
	All() iter.Seq2[*Batch, error]
}

// Source acquires dataset splits and batches them.
type Source interface {
	// Load returns the training split when train is true, else the test split.
	Load(train bool) (Dataset, error)
	// Batch wraps ds in a Loader producing batches of batchSize.
	Batch(ds Dataset, batchSize int) (Loader, error)
}

// Factory builds loaders from a Source.
type Factory struct {
	src Source
}

// NewFactory returns a Factory drawing from src.
func NewFactory(src Source) *Factory {
	return &Factory{src: src}
}

// GetDataLoader loads the requested split and batches it.
// Errors from the source are returned unchanged.
func (f *Factory) GetDataLoader(batchSize int, train bool) (Loader, error) {
	ds, err := f.src.Load(train)
	if err != nil {
		return nil, err
	}
	return f.src.Batch(ds, batchSize)
}

// GetDataLoader returns a loader over the Fashion-MNIST training split
// (train == true) or test split, stored under DefaultRoot and downloaded on
// first use. Images are converted with ToTensor; batches come in index
// order.
func GetDataLoader(batchSize int, train bool) (Loader, error) {
	return NewFactory(DefaultSource()).GetDataLoader(batchSize, train)
}
