package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack(t *testing.T) {
	a, err := FromFloat32(Shape{1, 2, 2}, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	b, err := FromFloat32(Shape{1, 2, 2}, []float32{5, 6, 7, 8})
	require.NoError(t, err)

	out, err := Stack([]*RawTensor{a, b})
	require.NoError(t, err)

	assert.Equal(t, Shape{2, 1, 2, 2}, out.Shape())
	assert.Equal(t, Float32, out.DType())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, out.AsFloat32())
}

func TestStack_Scalars(t *testing.T) {
	ts := make([]*RawTensor, 3)
	for i := range ts {
		raw, err := FromInt64(Shape{}, []int64{int64(i + 7)})
		require.NoError(t, err)
		ts[i] = raw
	}

	out, err := Stack(ts)
	require.NoError(t, err)
	assert.Equal(t, Shape{3}, out.Shape())
	assert.Equal(t, []int64{7, 8, 9}, out.AsInt64())
}

func TestStack_Errors(t *testing.T) {
	_, err := Stack(nil)
	require.Error(t, err)

	a, _ := NewRaw(Shape{2}, Float32)
	b, _ := NewRaw(Shape{3}, Float32)
	_, err = Stack([]*RawTensor{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shape")

	c, _ := NewRaw(Shape{2}, Int64)
	_, err = Stack([]*RawTensor{a, c})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dtype")
}
