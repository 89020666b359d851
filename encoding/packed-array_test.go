package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tj/assert"
)

func TestPackedArray_Booleans(t *testing.T) {
	a := &PackedArray{}
	require.NoError(t, a.Reset(1))

	pattern := []int32{1, 0, 1, 1, 0, 0, 1, 1, 1, 0}
	for _, v := range pattern {
		a.AppendSingle(v)
	}

	a.Flush()

	assert.Equal(t, 10, a.Count())
	// bits LSB first: 11001101, then 01 padded with zeros
	assert.Equal(t, []byte{0xCD, 0x01}, a.Bytes())
}

func TestPackedArray_FlushIsIdempotent(t *testing.T) {
	a := &PackedArray{}
	require.NoError(t, a.Reset(1))

	for i := 0; i < 8; i++ {
		a.AppendSingle(1)
	}

	a.Flush()
	a.Flush()

	assert.Equal(t, []byte{0xFF}, a.Bytes())
}

func TestPackedArray_InvalidBitWidth(t *testing.T) {
	a := &PackedArray{}
	require.Error(t, a.Reset(33))
	require.Error(t, a.Reset(-1))
}
