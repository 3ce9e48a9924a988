package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/datasets/internal/dataset"
	"github.com/born-ml/datasets/internal/fashion/fashiontest"
)

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), version)
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "inspect")
}

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Error(t, run([]string{"train"}, &stdout, &stderr))
}

func TestRun_Inspect(t *testing.T) {
	root := t.TempDir()
	fashiontest.WriteRaw(t, root, fashiontest.Archives(t, dataset.Test, 23))

	var stdout, stderr bytes.Buffer
	err := run([]string{"inspect", "-root", root, "-train=false", "-batch", "10", "-stats"}, &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "split:    test")
	assert.Contains(t, out, "samples:  23 (published 10000)")
	assert.Contains(t, out, "batches:  3 (size 10)")
	assert.Contains(t, out, "Ankle boot")
	assert.Contains(t, out, "mean:")
	assert.Contains(t, out, "std:")
}

func TestRun_InspectCorruptArchiveIsAnError(t *testing.T) {
	root := t.TempDir()
	archives := fashiontest.Archives(t, dataset.Train, 4)
	archives["train-images-idx3-ubyte.gz"] = []byte{0, 0, 8, 3}
	fashiontest.WriteRaw(t, root, archives)

	var stdout, stderr bytes.Buffer
	err := run([]string{"inspect", "-root", root, "-batch", "8"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Empty(t, stdout.String())
}

func TestRun_Export(t *testing.T) {
	root := t.TempDir()
	fashiontest.WriteRaw(t, root, fashiontest.Archives(t, dataset.Train, 5))
	out := filepath.Join(t.TempDir(), "sample.png")

	var stdout, stderr bytes.Buffer
	err := run([]string{"export", "-root", root, "-index", "4", "-scale", "2", "-out", out}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Coat")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 56, img.Bounds().Dx())
	assert.Equal(t, 56, img.Bounds().Dy())
}

func TestRun_ExportIndexOutOfRange(t *testing.T) {
	root := t.TempDir()
	fashiontest.WriteRaw(t, root, fashiontest.Archives(t, dataset.Train, 5))

	var stdout, stderr bytes.Buffer
	err := run([]string{"export", "-root", root, "-index", "5"}, &stdout, &stderr)
	require.Error(t, err)
}
