// Package download fetches dataset archives into a local cache directory.
package download

import (
	"context"
	"crypto/md5" //nolint:gosec // dataset publishers ship MD5 checksums
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ErrChecksumMismatch is returned when fetched content does not hash to the expected MD5.
var ErrChecksumMismatch = errors.New("download: checksum mismatch")

// Downloader fetches files over HTTP.
type Downloader struct {
	// Client performs the requests. http.DefaultClient is used when nil.
	Client *http.Client
	// Progress receives a progress bar per transfer. Nil disables it.
	Progress io.Writer
}

// IfMissing makes sure dst exists. When it does not, the file is fetched
// from urls in order until one succeeds. A non-empty checksum is the
// expected hex MD5 of the content.
//
// Content is written to a temporary file next to dst and renamed into
// place, so readers never observe a partial file. If another process
// completes dst first, its copy is kept.
//
// The returned flag reports whether a network fetch happened.
func (d *Downloader) IfMissing(ctx context.Context, urls []string, dst, checksum string) (bool, error) {
	if _, err := os.Stat(dst); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to stat %s: %w", dst, err)
	}
	if len(urls) == 0 {
		return false, fmt.Errorf("no source for %s", filepath.Base(dst))
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}

	var errs []error
	for _, url := range urls {
		err := d.fetch(ctx, url, dst, checksum)
		if err == nil {
			return true, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", url, err))
		if ctx.Err() != nil {
			break
		}
	}
	return false, fmt.Errorf("failed to download %s: %w", filepath.Base(dst), errors.Join(errs...))
}

func (d *Downloader) fetch(ctx context.Context, url, dst, checksum string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return err
	}

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.part")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	hash := md5.New() //nolint:gosec // see import
	w := io.MultiWriter(tmp, hash)
	if d.Progress != nil {
		bar := d.newBar(resp.ContentLength, filepath.Base(dst))
		defer bar.Close()
		w = io.MultiWriter(w, bar)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to read body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}

	if checksum != "" {
		if got := hex.EncodeToString(hash.Sum(nil)); !strings.EqualFold(got, checksum) {
			return fmt.Errorf("%w: got %s, want %s", ErrChecksumMismatch, got, checksum)
		}
	}

	if _, err := os.Stat(dst); err == nil {
		return nil
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to move download into place: %w", err)
	}
	return nil
}

func (d *Downloader) newBar(size int64, name string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(d.Progress),
		progressbar.OptionSetDescription(name),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(d.Progress)
		}),
	)
}

// Verify reports whether the file at path hashes to the hex MD5 checksum.
func Verify(path, checksum string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	hash := md5.New() //nolint:gosec // see import
	if _, err := io.Copy(hash, f); err != nil {
		return false, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return strings.EqualFold(hex.EncodeToString(hash.Sum(nil)), checksum), nil
}
