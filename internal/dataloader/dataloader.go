// Package dataloader groups the samples of a dataset into batches.
//
// A Loader is a reusable iterable: every call to All starts a new epoch.
// Batches are assembled lazily, one per iteration step, and are not
// retained by the loader.
package dataloader

import (
	"errors"
	"fmt"
	"iter"
	"math/rand/v2"
	"sync/atomic"

	"github.com/born-ml/datasets/internal/dataset"
	"github.com/born-ml/datasets/internal/parallel"
	"github.com/born-ml/datasets/internal/tensor"
)

// ErrInvalidBatchSize is returned by New when BatchSize is not positive.
var ErrInvalidBatchSize = errors.New("dataloader: batch size must be positive")

// Config controls batching.
type Config struct {
	BatchSize int  // Samples per batch.
	Shuffle   bool // Draw a new permutation every epoch.
	Seed      uint64
	DropLast  bool // Skip the final batch when it is short.
	Parallel  parallel.Config
}

// DefaultConfig returns batches of 64 in index order.
func DefaultConfig() Config {
	return Config{
		BatchSize: 64,
		Parallel:  parallel.DefaultConfig(),
	}
}

// Batch holds stacked samples.
type Batch struct {
	Images  *tensor.RawTensor // [Size, sample shape...]
	Labels  *tensor.RawTensor // [Size], int64
	Indices []int             // dataset indices, in batch order
	Size    int
}

// Loader iterates a dataset in batches.
type Loader struct {
	ds     dataset.Dataset
	cfg    Config
	epochs atomic.Uint64
}

// New creates a Loader over ds.
func New(ds dataset.Dataset, cfg Config) (*Loader, error) {
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, cfg.BatchSize)
	}
	return &Loader{ds: ds, cfg: cfg}, nil
}

// Len returns the number of batches in one epoch.
func (l *Loader) Len() int {
	n := l.ds.Len()
	if l.cfg.DropLast {
		return n / l.cfg.BatchSize
	}
	return (n + l.cfg.BatchSize - 1) / l.cfg.BatchSize
}

// All returns an iterator over one epoch of batches. Iteration stops after
// the first error, which is yielded with a nil batch.
func (l *Loader) All() iter.Seq2[*Batch, error] {
	return func(yield func(*Batch, error) bool) {
		order := l.order(l.epochs.Add(1) - 1)

		for b := 0; b < l.Len(); b++ {
			start := b * l.cfg.BatchSize
			end := min(start+l.cfg.BatchSize, len(order))

			batch, err := l.collate(order[start:end])
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(batch, nil) {
				return
			}
		}
	}
}

// Batches drains one epoch into a slice.
func (l *Loader) Batches() ([]*Batch, error) {
	batches := make([]*Batch, 0, l.Len())
	for b, err := range l.All() {
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, nil
}

func (l *Loader) order(epoch uint64) []int {
	n := l.ds.Len()
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if l.cfg.Shuffle {
		rng := rand.New(rand.NewPCG(l.cfg.Seed, epoch))
		rng.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}
	return indices
}

func (l *Loader) collate(indices []int) (*Batch, error) {
	images := make([]*tensor.RawTensor, len(indices))
	labels := make([]int64, len(indices))

	err := parallel.ForErr(len(indices), func(k int) error {
		s, err := l.ds.Get(indices[k])
		if err != nil {
			return fmt.Errorf("failed to load sample %d: %w", indices[k], err)
		}
		images[k] = s.Image
		labels[k] = int64(s.Label)
		return nil
	}, l.cfg.Parallel)
	if err != nil {
		return nil, err
	}

	imagesTensor, err := tensor.Stack(images)
	if err != nil {
		return nil, fmt.Errorf("failed to stack images: %w", err)
	}
	labelsTensor, err := tensor.FromInt64(tensor.Shape{len(labels)}, labels)
	if err != nil {
		return nil, fmt.Errorf("failed to create labels tensor: %w", err)
	}

	return &Batch{
		Images:  imagesTensor,
		Labels:  labelsTensor,
		Indices: append([]int(nil), indices...),
		Size:    len(indices),
	}, nil
}
