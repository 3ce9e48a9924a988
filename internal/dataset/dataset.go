// Package dataset defines the indexable sample collections consumed by the loaders.
package dataset

import (
	"fmt"

	"github.com/born-ml/datasets/internal/tensor"
)

// Sample is a single (image, label) pair.
type Sample struct {
	Image *tensor.RawTensor
	Label int
}

// Dataset is an ordered, indexable collection of samples.
// Implementations must be safe for concurrent Get calls.
type Dataset interface {
	Len() int
	Get(i int) (Sample, error)
}

// Split names a disjoint partition of a dataset.
type Split int

// Supported splits.
const (
	Train Split = iota
	Test
)

// SplitOf maps the conventional train flag onto a Split.
func SplitOf(train bool) Split {
	if train {
		return Train
	}
	return Test
}

// String returns the split name.
func (s Split) String() string {
	switch s {
	case Train:
		return "train"
	case Test:
		return "test"
	default:
		return fmt.Sprintf("Split(%d)", int(s))
	}
}

// CheckIndex returns an error when i is outside [0, n).
func CheckIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("index %d out of range [0, %d)", i, n)
	}
	return nil
}
