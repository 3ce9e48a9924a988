package fashion_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/datasets/internal/dataset"
	"github.com/born-ml/datasets/internal/download"
	"github.com/born-ml/datasets/internal/fashion"
	"github.com/born-ml/datasets/internal/fashion/fashiontest"
	"github.com/born-ml/datasets/internal/idx"
	"github.com/born-ml/datasets/internal/tensor"
)

func TestNew_DownloadsOnFirstUse(t *testing.T) {
	archives := fashiontest.Archives(t, dataset.Train, 25)
	mirror := fashiontest.NewMirror(t, archives)
	root := t.TempDir()

	cfg := fashion.Config{
		Root:      root,
		Split:     dataset.Train,
		Download:  true,
		Mirrors:   []string{mirror.URL + "/fashion/"},
		Checksums: fashiontest.Checksums(archives),
	}

	ds, err := fashion.New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 25, ds.Len())
	assert.Equal(t, dataset.Train, ds.Split())
	assert.Equal(t, 2, mirror.Hits())

	for name := range archives {
		_, err := os.Stat(filepath.Join(fashion.RawDir(root), name))
		assert.NoError(t, err, name)
	}

	// A populated cache is not fetched again.
	_, err = fashion.New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, mirror.Hits())
}

func TestNew_PublishedChecksumRejectsForeignArchive(t *testing.T) {
	archives := fashiontest.Archives(t, dataset.Test, 3)
	mirror := fashiontest.NewMirror(t, archives)

	_, err := fashion.New(context.Background(), fashion.Config{
		Root:     t.TempDir(),
		Split:    dataset.Test,
		Download: true,
		Mirrors:  []string{mirror.URL},
	})
	require.ErrorIs(t, err, download.ErrChecksumMismatch)
}

func TestNew_MissingWithoutDownload(t *testing.T) {
	_, err := fashion.New(context.Background(), fashion.Config{
		Root:  t.TempDir(),
		Split: dataset.Train,
	})
	require.ErrorIs(t, err, fashion.ErrNotFound)
}

func TestNew_LocalArchivesWithoutDownload(t *testing.T) {
	root := t.TempDir()
	fashiontest.WriteRaw(t, root, fashiontest.Archives(t, dataset.Test, 12))

	ds, err := fashion.New(context.Background(), fashion.Config{Root: root, Split: dataset.Test})
	require.NoError(t, err)
	assert.Equal(t, 12, ds.Len())
	assert.Len(t, ds.Classes(), 10)
	assert.Equal(t, "Ankle boot", ds.Classes()[9])
}

func TestNew_UnwritableRoot(t *testing.T) {
	archives := fashiontest.Archives(t, dataset.Train, 2)
	mirror := fashiontest.NewMirror(t, archives)

	// A regular file where a directory is needed cannot be written into.
	root := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(root, nil, 0o600))

	_, err := fashion.New(context.Background(), fashion.Config{
		Root:      root,
		Split:     dataset.Train,
		Download:  true,
		Mirrors:   []string{mirror.URL},
		Checksums: fashiontest.Checksums(archives),
	})
	require.Error(t, err)
	assert.Equal(t, 0, mirror.Hits())
}

func TestGet(t *testing.T) {
	root := t.TempDir()
	fashiontest.WriteRaw(t, root, fashiontest.Archives(t, dataset.Train, 15))

	ds, err := fashion.New(context.Background(), fashion.Config{Root: root, Split: dataset.Train})
	require.NoError(t, err)

	s, err := ds.Get(13)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Label)
	assert.Equal(t, tensor.Shape{1, 28, 28}, s.Image.Shape())
	assert.Equal(t, tensor.Float32, s.Image.DType())

	data := s.Image.AsFloat32()
	assert.InDelta(t, 13.0/255.0, data[2], 1e-6)
	for _, v := range data {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}

	_, err = ds.Get(15)
	assert.Error(t, err)
	_, err = ds.Get(-1)
	assert.Error(t, err)
}

func TestImage(t *testing.T) {
	root := t.TempDir()
	fashiontest.WriteRaw(t, root, fashiontest.Archives(t, dataset.Test, 4))

	ds, err := fashion.New(context.Background(), fashion.Config{Root: root, Split: dataset.Test})
	require.NoError(t, err)

	img := ds.Image(3)
	assert.Equal(t, 28, img.Bounds().Dx())
	assert.Equal(t, 28, img.Bounds().Dy())
	assert.Equal(t, uint8(dataset.Test), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(3), img.GrayAt(2, 0).Y)
	assert.Len(t, ds.Pixels(), 4*28*28)
}

func TestNew_RejectsCorruptLabels(t *testing.T) {
	root := t.TempDir()
	archives := fashiontest.Archives(t, dataset.Train, 3)
	_, lblRes := fashion.Resources(dataset.Train)
	archives[lblRes.File] = fashiontest.Archives(t, dataset.Train, 2)[lblRes.File]
	fashiontest.WriteRaw(t, root, archives)

	_, err := fashion.New(context.Background(), fashion.Config{Root: root, Split: dataset.Train})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label count")
}

func TestSplitsAreDisjoint(t *testing.T) {
	root := t.TempDir()
	fashiontest.WriteRaw(t, root, fashiontest.Archives(t, dataset.Train, 20))
	fashiontest.WriteRaw(t, root, fashiontest.Archives(t, dataset.Test, 20))

	train, err := fashion.New(context.Background(), fashion.Config{Root: root, Split: dataset.Train})
	require.NoError(t, err)
	test, err := fashion.New(context.Background(), fashion.Config{Root: root, Split: dataset.Test})
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < train.Len(); i++ {
		seen[string(train.Image(i).Pix)] = true
	}
	for i := 0; i < test.Len(); i++ {
		assert.False(t, seen[string(test.Image(i).Pix)], "test sample %d also in train", i)
	}
}

func TestNew_CorruptCachedHeaderIsAnError(t *testing.T) {
	root := t.TempDir()
	archives := fashiontest.Archives(t, dataset.Train, 2)
	imgRes, _ := fashion.Resources(dataset.Train)
	// Plain IDX header claiming 0xFFFFFFFF images of 0xFFFFFFFF x 0xFFFFFFFF.
	archives[imgRes.File] = []byte{
		0, 0, 8, 3,
		0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF,
	}
	fashiontest.WriteRaw(t, root, archives)

	_, err := fashion.New(context.Background(), fashion.Config{Root: root, Split: dataset.Train, Download: true})
	require.ErrorIs(t, err, idx.ErrTooLarge)
}
