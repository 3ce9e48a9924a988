// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the dense tensors produced by the data loaders.
//
// # Overview
//
// Batches carry two RawTensors: images (float32, [batch, 1, 28, 28]) and
// labels (int64, [batch]). Element access is zero-copy:
//
//	for batch, err := range loader.All() {
//	    if err != nil {
//	        return err
//	    }
//	    pixels := batch.Images.AsFloat32()
//	    labels := batch.Labels.AsInt64()
//	    // batch.Images.Shape() == tensor.Shape{batch.Size, 1, 28, 28}
//	}
//
// # Supported Data Types
//
//   - float32 (images)
//   - int64 (class labels)
//   - uint8 (raw pixels)
package tensor
