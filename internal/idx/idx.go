// Package idx reads and writes the IDX binary format used by the MNIST
// family of datasets.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255), row-major
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes
//
// All integers are big-endian. Files may be gzip-compressed; Open detects
// that from the first two bytes.
package idx

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Magic numbers for the two supported IDX payloads.
const (
	ImageMagic = 2051
	LabelMagic = 2049
)

// MaxPayload bounds the payload size a header may declare, in bytes.
const MaxPayload = 1 << 30

// Errors returned for malformed files.
var (
	ErrBadMagic = errors.New("idx: invalid magic number")
	ErrTooLarge = errors.New("idx: declared payload too large")
)

// Images is a decoded IDX image file.
type Images struct {
	Count  int
	Rows   int
	Cols   int
	Pixels []byte // Count*Rows*Cols bytes
}

// At returns the pixels of image i, sharing memory with Pixels.
func (im *Images) At(i int) []byte {
	size := im.Rows * im.Cols
	return im.Pixels[i*size : (i+1)*size]
}

type imageHeader struct {
	Magic uint32
	Count uint32
	Rows  uint32
	Cols  uint32
}

type labelHeader struct {
	Magic uint32
	Count uint32
}

// ReadImages decodes an IDX image file.
func ReadImages(r io.Reader) (*Images, error) {
	var h imageHeader
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if h.Magic != ImageMagic {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadMagic, h.Magic, ImageMagic)
	}

	size, err := payloadSize(uint64(h.Count), uint64(h.Rows), uint64(h.Cols))
	if err != nil {
		return nil, err
	}
	pixels, err := readPayload(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read %d images: %w", h.Count, err)
	}
	return &Images{
		Count:  int(h.Count),
		Rows:   int(h.Rows),
		Cols:   int(h.Cols),
		Pixels: pixels,
	}, nil
}

// ReadLabels decodes an IDX label file.
func ReadLabels(r io.Reader) ([]byte, error) {
	var h labelHeader
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("failed to read label header: %w", err)
	}
	if h.Magic != LabelMagic {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadMagic, h.Magic, LabelMagic)
	}

	size, err := payloadSize(uint64(h.Count))
	if err != nil {
		return nil, err
	}
	labels, err := readPayload(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read %d labels: %w", h.Count, err)
	}
	return labels, nil
}

// payloadSize multiplies the header dimensions, rejecting products above
// MaxPayload. Each dimension fits in 32 bits, so checking after every step
// keeps the running product below 2^62.
func payloadSize(dims ...uint64) (int, error) {
	size := uint64(1)
	for _, d := range dims {
		size *= d
		if size > MaxPayload {
			return 0, fmt.Errorf("%w: %v exceeds %d bytes", ErrTooLarge, dims, MaxPayload)
		}
	}
	return int(size), nil
}

// readPayload reads exactly size bytes. The buffer grows with the data
// actually present, so a header overstating its size fails on EOF without
// allocating the declared amount up front.
func readPayload(r io.Reader, size int) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		return nil, err
	}
	if len(buf) != size {
		return nil, fmt.Errorf("%w: got %d of %d bytes", io.ErrUnexpectedEOF, len(buf), size)
	}
	return buf, nil
}

// WriteImages encodes im in IDX format.
func WriteImages(w io.Writer, im *Images) error {
	if len(im.Pixels) != im.Count*im.Rows*im.Cols {
		return fmt.Errorf("idx: %d pixels do not match %dx%dx%d", len(im.Pixels), im.Count, im.Rows, im.Cols)
	}
	h := imageHeader{
		Magic: ImageMagic,
		Count: uint32(im.Count),
		Rows:  uint32(im.Rows),
		Cols:  uint32(im.Cols),
	}
	if err := binary.Write(w, binary.BigEndian, h); err != nil {
		return fmt.Errorf("failed to write image header: %w", err)
	}
	_, err := w.Write(im.Pixels)
	return err
}

// WriteLabels encodes labels in IDX format.
func WriteLabels(w io.Writer, labels []byte) error {
	h := labelHeader{Magic: LabelMagic, Count: uint32(len(labels))}
	if err := binary.Write(w, binary.BigEndian, h); err != nil {
		return fmt.Errorf("failed to write label header: %w", err)
	}
	_, err := w.Write(labels)
	return err
}

// Open opens path for reading, decompressing it when it is gzip data.
// The caller must close the returned reader.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(f)
	head, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(head) < 2 || head[0] != 0x1f || head[1] != 0x8b {
		return &readCloser{Reader: br, closers: []io.Closer{f}}, nil
	}

	zr, err := gzip.NewReader(br)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
	}
	return &readCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
}

// ReadImagesFile opens and decodes an (optionally gzipped) IDX image file.
func ReadImagesFile(path string) (*Images, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadImages(rc)
}

// ReadLabelsFile opens and decodes an (optionally gzipped) IDX label file.
func ReadLabelsFile(path string) ([]byte, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadLabels(rc)
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var errs []error
	for _, c := range rc.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
