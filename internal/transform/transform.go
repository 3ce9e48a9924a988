// Package transform converts decoded images into tensors.
//
// A Func is the unit the datasets apply per sample. Compose builds one from
// optional image-space operations (run first), the ToTensor conversion, and
// optional tensor-space operations (run last):
//
//	fn := transform.Compose(
//	    []transform.ImageOp{transform.Resize(32, 32)},
//	    []transform.TensorOp{normalize},
//	)
package transform

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/datasets/internal/tensor"
)

// Func converts an image into a tensor.
type Func func(img image.Image) (*tensor.RawTensor, error)

// ImageOp transforms an image before tensor conversion.
type ImageOp func(img image.Image) image.Image

// TensorOp transforms a tensor after conversion. It may modify its input.
type TensorOp func(t *tensor.RawTensor) (*tensor.RawTensor, error)

// ToTensor returns a Func that converts an image to a float32 tensor of
// shape [1, H, W] with values scaled from [0, 255] to [0, 1].
// Color images are reduced to luminance.
func ToTensor() Func {
	return toTensor
}

func toTensor(img image.Image) (*tensor.RawTensor, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out, err := tensor.NewRaw(tensor.Shape{1, h, w}, tensor.Float32)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate image tensor: %w", err)
	}
	data := out.AsFloat32()

	if gray, ok := img.(*image.Gray); ok {
		for y := 0; y < h; y++ {
			off := gray.PixOffset(b.Min.X, b.Min.Y+y)
			row := gray.Pix[off : off+w]
			for x, v := range row {
				data[y*w+x] = float32(v) / 255.0
			}
		}
		return out, nil
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			data[y*w+x] = float32(g.Y) / 255.0
		}
	}
	return out, nil
}

// Resize returns an ImageOp scaling images to width x height with a
// Lanczos filter.
func Resize(width, height int) ImageOp {
	return func(img image.Image) image.Image {
		return imaging.Resize(img, width, height, imaging.Lanczos)
	}
}

// Normalize returns a TensorOp computing (x - mean) / std in place.
// std must be finite and positive.
func Normalize(mean, std float32) (TensorOp, error) {
	if math32.IsNaN(mean) || math32.IsInf(mean, 0) {
		return nil, fmt.Errorf("normalize: invalid mean %v", mean)
	}
	if !(std > 0) || math32.IsInf(std, 0) {
		return nil, fmt.Errorf("normalize: std must be finite and positive, got %v", std)
	}

	inv := 1 / std
	return func(t *tensor.RawTensor) (*tensor.RawTensor, error) {
		if t.DType() != tensor.Float32 {
			return nil, fmt.Errorf("normalize: want float32 tensor, got %s", t.DType())
		}
		data := t.AsFloat32()
		for i, v := range data {
			data[i] = (v - mean) * inv
		}
		return t, nil
	}, nil
}

// Compose chains imageOps, ToTensor and tensorOps into a single Func.
func Compose(imageOps []ImageOp, tensorOps []TensorOp) Func {
	return func(img image.Image) (*tensor.RawTensor, error) {
		for _, op := range imageOps {
			img = op(img)
		}
		t, err := toTensor(img)
		if err != nil {
			return nil, err
		}
		for _, op := range tensorOps {
			if t, err = op(t); err != nil {
				return nil, err
			}
		}
		return t, nil
	}
}

// Stats returns the mean and population standard deviation of 8-bit pixel
// values after scaling to [0, 1], as ToTensor would produce them. The
// result feeds Normalize.
func Stats(pixels []byte) (mean, std float64) {
	if len(pixels) == 0 {
		return 0, 0
	}

	var counts [256]float64
	for _, p := range pixels {
		counts[p]++
	}

	values := make([]float64, 256)
	for v := range values {
		values[v] = float64(v) / 255.0
	}
	return stat.PopMeanStdDev(values, counts[:])
}
