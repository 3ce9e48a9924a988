package tensor

import "fmt"

// Stack joins tensors of identical shape and dtype along a new leading
// dimension. Stacking k tensors of shape S yields shape [k, S...].
func Stack(ts []*RawTensor) (*RawTensor, error) {
	if len(ts) == 0 {
		return nil, fmt.Errorf("stack: no tensors")
	}

	first := ts[0]
	for i, t := range ts[1:] {
		if t.dtype != first.dtype {
			return nil, fmt.Errorf("stack: tensor %d has dtype %s, want %s", i+1, t.dtype, first.dtype)
		}
		if !t.shape.Equal(first.shape) {
			return nil, fmt.Errorf("stack: tensor %d has shape %v, want %v", i+1, t.shape, first.shape)
		}
	}

	out, err := NewRaw(first.shape.Prepend(len(ts)), first.dtype)
	if err != nil {
		return nil, err
	}

	chunk := first.ByteSize()
	for i, t := range ts {
		copy(out.data[i*chunk:(i+1)*chunk], t.data)
	}
	return out, nil
}
