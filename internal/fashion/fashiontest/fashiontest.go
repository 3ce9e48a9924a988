// Package fashiontest builds small synthetic Fashion-MNIST archives for tests.
//
// Every generated image is unique per (split, index): pixel 0 holds the
// split, pixels 1 and 2 hold the index, the rest is a ramp. Labels cycle
// through 0..9.
package fashiontest

import (
	"bytes"
	"compress/gzip"
	"crypto/md5" //nolint:gosec // mirrors the published checksums
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/born-ml/datasets/internal/dataset"
	"github.com/born-ml/datasets/internal/fashion"
	"github.com/born-ml/datasets/internal/idx"
)

// Archives returns gzipped IDX archives for split with n samples, keyed by
// the file names the real dataset uses.
func Archives(t testing.TB, split dataset.Split, n int) map[string][]byte {
	t.Helper()

	size := fashion.Rows * fashion.Cols
	im := &idx.Images{Count: n, Rows: fashion.Rows, Cols: fashion.Cols, Pixels: make([]byte, n*size)}
	labels := make([]byte, n)
	for i := 0; i < n; i++ {
		px := im.At(i)
		for p := range px {
			px[p] = byte((i + p) % 256)
		}
		px[0] = byte(split)
		px[1] = byte(i >> 8)
		px[2] = byte(i)
		labels[i] = byte(i % fashion.NumClasses)
	}

	var rawImages, rawLabels bytes.Buffer
	if err := idx.WriteImages(&rawImages, im); err != nil {
		t.Fatalf("write images: %v", err)
	}
	if err := idx.WriteLabels(&rawLabels, labels); err != nil {
		t.Fatalf("write labels: %v", err)
	}

	imgRes, lblRes := fashion.Resources(split)
	return map[string][]byte{
		imgRes.File: gzipBytes(t, rawImages.Bytes()),
		lblRes.File: gzipBytes(t, rawLabels.Bytes()),
	}
}

func gzipBytes(t testing.TB, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		t.Fatalf("gzip: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip: %v", err)
	}
	return buf.Bytes()
}

// Checksums returns the MD5 of every archive, keyed by file name.
func Checksums(archives ...map[string][]byte) map[string]string {
	sums := make(map[string]string)
	for _, a := range archives {
		for name, b := range a {
			sum := md5.Sum(b) //nolint:gosec // see import
			sums[name] = hex.EncodeToString(sum[:])
		}
	}
	return sums
}

// WriteRaw stores archives in the raw directory under root.
func WriteRaw(t testing.TB, root string, archives map[string][]byte) {
	t.Helper()
	dir := fashion.RawDir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, b := range archives {
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// Mirror is an HTTP server publishing archives.
type Mirror struct {
	*httptest.Server
	hits atomic.Int32
}

// Hits returns the number of archive requests served.
func (m *Mirror) Hits() int {
	return int(m.hits.Load())
}

// NewMirror serves the given archives by file name. It is closed when the
// test ends.
func NewMirror(t testing.TB, archives ...map[string][]byte) *Mirror {
	t.Helper()
	files := make(map[string][]byte)
	for _, a := range archives {
		for name, b := range a {
			files[name] = b
		}
	}

	m := &Mirror{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, ok := files[path.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		m.hits.Add(1)
		_, _ = w.Write(b)
	}))
	t.Cleanup(m.Close)
	return m
}
