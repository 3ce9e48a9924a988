// Package fashion provides the Fashion-MNIST dataset: 70,000 28x28
// grayscale images of garments in 10 classes, split into 60,000 training
// and 10,000 test samples.
//
// Archives are cached under <root>/FashionMNIST/raw and fetched on first
// use when downloading is enabled.
package fashion

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/born-ml/datasets/internal/dataset"
	"github.com/born-ml/datasets/internal/download"
	"github.com/born-ml/datasets/internal/idx"
	"github.com/born-ml/datasets/internal/transform"
)

// ErrNotFound is returned when a split is absent locally and downloading is disabled.
var ErrNotFound = errors.New("fashion: dataset not found")

// Config selects and locates a split.
type Config struct {
	// Root is the storage root; archives live in Root/FashionMNIST/raw.
	Root string
	// Split selects the training or test partition.
	Split dataset.Split
	// Download fetches missing archives when true.
	Download bool
	// Transform converts each image; ToTensor when nil.
	Transform transform.Func
	// Mirrors overrides DefaultMirrors.
	Mirrors []string
	// Checksums overrides the published MD5 per archive file name. An
	// empty value disables verification for that file.
	Checksums map[string]string
	// Client performs downloads; http.DefaultClient when nil.
	Client *http.Client
	// Progress receives download progress bars. Nil disables them.
	Progress io.Writer
}

// Dataset is a decoded Fashion-MNIST split held in memory.
type Dataset struct {
	split     dataset.Split
	images    *idx.Images
	labels    []byte
	transform transform.Func
}

var _ dataset.Dataset = (*Dataset)(nil)

// RawDir returns the directory holding the archives under root.
func RawDir(root string) string {
	return filepath.Join(root, "FashionMNIST", "raw")
}

// New loads the configured split, downloading it first if needed.
func New(ctx context.Context, cfg Config) (*Dataset, error) {
	imgRes, lblRes := Resources(cfg.Split)
	if imgRes.File == "" {
		return nil, fmt.Errorf("unknown split %s", cfg.Split)
	}

	dir := RawDir(cfg.Root)
	imgPath := filepath.Join(dir, imgRes.File)
	lblPath := filepath.Join(dir, lblRes.File)

	if cfg.Download {
		mirrors := cfg.Mirrors
		if len(mirrors) == 0 {
			mirrors = DefaultMirrors
		}
		dl := &download.Downloader{Client: cfg.Client, Progress: cfg.Progress}
		for _, res := range []Resource{imgRes, lblRes} {
			dst := filepath.Join(dir, res.File)
			sum := res.MD5
			if override, ok := cfg.Checksums[res.File]; ok {
				sum = override
			}
			if _, err := dl.IfMissing(ctx, mirrorURLs(mirrors, res.File), dst, sum); err != nil {
				return nil, err
			}
		}
	} else {
		for _, p := range []string{imgPath, lblPath} {
			if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s (enable download to fetch it)", ErrNotFound, p)
			}
		}
	}

	images, err := idx.ReadImagesFile(imgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	labels, err := idx.ReadLabelsFile(lblPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}

	if err := validate(images, labels); err != nil {
		return nil, err
	}

	tf := cfg.Transform
	if tf == nil {
		tf = transform.ToTensor()
	}
	return &Dataset{
		split:     cfg.Split,
		images:    images,
		labels:    labels,
		transform: tf,
	}, nil
}

func validate(images *idx.Images, labels []byte) error {
	if images.Rows != Rows || images.Cols != Cols {
		return fmt.Errorf("unexpected image size %dx%d, want %dx%d", images.Rows, images.Cols, Rows, Cols)
	}
	if images.Count != len(labels) {
		return fmt.Errorf("image count (%d) != label count (%d)", images.Count, len(labels))
	}
	for i, l := range labels {
		if int(l) >= NumClasses {
			return fmt.Errorf("label out of range [0, %d] at index %d: %d", NumClasses-1, i, l)
		}
	}
	return nil
}

// Len returns the number of samples in the split.
func (d *Dataset) Len() int {
	return d.images.Count
}

// Split returns the partition this dataset holds.
func (d *Dataset) Split() dataset.Split {
	return d.split
}

// Classes returns the label names.
func (d *Dataset) Classes() []string {
	return Classes[:]
}

// Image returns sample i as a grayscale image sharing memory with the
// dataset. Callers must not modify it. Panics if i is out of range.
func (d *Dataset) Image(i int) *image.Gray {
	return &image.Gray{
		Pix:    d.images.At(i),
		Stride: d.images.Cols,
		Rect:   image.Rect(0, 0, d.images.Cols, d.images.Rows),
	}
}

// Label returns the class of sample i. Panics if i is out of range.
func (d *Dataset) Label(i int) int {
	return int(d.labels[i])
}

// Pixels returns the raw 8-bit pixels of the whole split.
func (d *Dataset) Pixels() []byte {
	return d.images.Pixels
}

// Get returns sample i with the transform applied.
func (d *Dataset) Get(i int) (dataset.Sample, error) {
	if err := dataset.CheckIndex(i, d.Len()); err != nil {
		return dataset.Sample{}, err
	}
	t, err := d.transform(d.Image(i))
	if err != nil {
		return dataset.Sample{}, fmt.Errorf("failed to transform sample %d: %w", i, err)
	}
	return dataset.Sample{Image: t, Label: d.Label(i)}, nil
}
