// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/datasets/internal/tensor"
)

// RawTensor is a dense, row-major tensor.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType()
//   - Zero-copy data access via AsFloat32(), AsInt64(), AsUint8()
//   - Deep copies via Clone()
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
//	data := raw.AsFloat32()
//	clone := raw.Clone()
type RawTensor = tensor.RawTensor

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// DataType represents runtime type information for tensors.
type DataType = tensor.DataType

// Supported data types.
const (
	Float32 = tensor.Float32
	Int64   = tensor.Int64
	Uint8   = tensor.Uint8
)

// NewRaw allocates a zero-filled tensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromFloat32 creates a float32 tensor holding a copy of values.
func FromFloat32(shape Shape, values []float32) (*RawTensor, error) {
	return tensor.FromFloat32(shape, values)
}

// Stack joins equally shaped tensors along a new leading dimension.
func Stack(ts []*RawTensor) (*RawTensor, error) {
	return tensor.Stack(ts)
}
