// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package data

import (
	"github.com/born-ml/datasets/internal/transform"
)

// TransformFunc converts a decoded image into a tensor.
type TransformFunc = transform.Func

// ImageOp transforms an image before tensor conversion.
type ImageOp = transform.ImageOp

// TensorOp transforms a tensor after conversion.
type TensorOp = transform.TensorOp

// ToTensor converts images to float32 [1, H, W] tensors with values in [0, 1].
func ToTensor() TransformFunc {
	return transform.ToTensor()
}

// Resize scales images to width x height before conversion.
func Resize(width, height int) ImageOp {
	return transform.Resize(width, height)
}

// Normalize standardizes tensor values as (x - mean) / std.
func Normalize(mean, std float32) (TensorOp, error) {
	return transform.Normalize(mean, std)
}

// Compose chains image ops, ToTensor and tensor ops.
func Compose(imageOps []ImageOp, tensorOps []TensorOp) TransformFunc {
	return transform.Compose(imageOps, tensorOps)
}
