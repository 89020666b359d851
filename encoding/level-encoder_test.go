package encoding

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tj/assert"

	"github.com/hexbee-net/parquet-chunk/format"
)

func TestLevelEncoder_RLERepeatedRuns(t *testing.T) {
	levels := make([]int16, 0, 200)
	for i := 0; i < 100; i++ {
		levels = append(levels, 4)
	}
	for i := 0; i < 100; i++ {
		levels = append(levels, 5)
	}

	size, err := LevelEncoderMaxBufferSize(format.EncodingRLE, 7, len(levels))
	require.NoError(t, err)

	dst := make([]byte, size)

	var e LevelEncoder
	require.NoError(t, e.Init(format.EncodingRLE, 7, dst))

	n, err := e.Encode(levels)
	require.NoError(t, err)
	require.Equal(t, len(levels), n)

	reader := bytes.NewReader(dst[:e.Len()])

	// header = 100 << 1 = 200
	header, err := binary.ReadUvarint(reader)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), header)

	// payload = 4
	payload, err := reader.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(4), payload)

	// header = 100 << 1 = 200
	header, err = binary.ReadUvarint(reader)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), header)

	// payload = 5
	payload, err = reader.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(5), payload)

	assert.Zero(t, reader.Len())
}

func TestLevelEncoder_RLELiteralRun(t *testing.T) {
	levels := []int16{0, 1, 2, 3, 4, 5, 6, 7}

	size, err := LevelEncoderMaxBufferSize(format.EncodingRLE, 7, len(levels))
	require.NoError(t, err)

	dst := make([]byte, size)

	var e LevelEncoder
	require.NoError(t, e.Init(format.EncodingRLE, 7, dst))

	n, err := e.Encode(levels)
	require.NoError(t, err)
	require.Equal(t, len(levels), n)

	// one literal group: header = (1 << 1) | 1, then 8 values of 3 bits
	expected := []byte{0x03, 0x88, 0xC6, 0xFA}
	assert.Equal(t, expected, dst[:e.Len()])
}

func TestLevelEncoder_RLEZeroBitWidth(t *testing.T) {
	levels := make([]int16, 10)

	size, err := LevelEncoderMaxBufferSize(format.EncodingRLE, 0, len(levels))
	require.NoError(t, err)

	dst := make([]byte, size)

	var e LevelEncoder
	require.NoError(t, e.Init(format.EncodingRLE, 0, dst))

	n, err := e.Encode(levels)
	require.NoError(t, err)
	require.Equal(t, len(levels), n)

	reader := bytes.NewReader(dst[:e.Len()])

	// header = 10 << 1 = 20, no payload bytes for bit width zero
	header, err := binary.ReadUvarint(reader)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), header)
	assert.Zero(t, reader.Len())
}

func TestLevelEncoder_BitPacked(t *testing.T) {
	levels := []int16{0, 1, 2, 3, 4, 5, 6, 7}

	size, err := LevelEncoderMaxBufferSize(format.EncodingBitPacked, 7, len(levels))
	require.NoError(t, err)
	assert.Equal(t, 3, size)

	dst := make([]byte, size)

	var e LevelEncoder
	require.NoError(t, e.Init(format.EncodingBitPacked, 7, dst))

	n, err := e.Encode(levels)
	require.NoError(t, err)
	require.Equal(t, len(levels), n)

	assert.Equal(t, []byte{0x88, 0xC6, 0xFA}, dst[:e.Len()])
}

func TestLevelEncoder_UnknownEncoding(t *testing.T) {
	var e LevelEncoder

	err := e.Init(format.EncodingPlain, 1, make([]byte, 16))
	require.Error(t, err)

	_, err = LevelEncoderMaxBufferSize(format.EncodingPlain, 1, 10)
	require.Error(t, err)
}

func TestLevelEncoder_EncodeBeforeInit(t *testing.T) {
	var e LevelEncoder

	_, err := e.Encode([]int16{1})
	require.Error(t, err)
}

func TestLevelEncoder_DestinationTooSmall(t *testing.T) {
	levels := make([]int16, 1000)
	for i := range levels {
		levels[i] = int16(i % 2)
	}

	// A destination far below MaxBufferSize: the encoder must stop early
	// instead of overflowing.
	dst := make([]byte, 8)

	var e LevelEncoder
	require.NoError(t, e.Init(format.EncodingRLE, 1, dst))

	n, err := e.Encode(levels)
	require.NoError(t, err)
	require.Less(t, n, len(levels))
	require.LessOrEqual(t, e.Len(), len(dst))
}

func TestRleEncoder_MixedRuns(t *testing.T) {
	var levels []int16
	levels = append(levels, 0, 1, 0, 1, 0, 1, 0, 1) // literal group
	for i := 0; i < 64; i++ {                       // repeated run
		levels = append(levels, 1)
	}

	size, err := LevelEncoderMaxBufferSize(format.EncodingRLE, 1, len(levels))
	require.NoError(t, err)

	dst := make([]byte, size)

	var e LevelEncoder
	require.NoError(t, e.Init(format.EncodingRLE, 1, dst))

	n, err := e.Encode(levels)
	require.NoError(t, err)
	require.Equal(t, len(levels), n)

	decoded := decodeRLE(t, dst[:e.Len()], 1, len(levels))
	for i := range levels {
		require.Equal(t, int32(levels[i]), decoded[i], "value %d", i)
	}
}

func TestRleEncoder_FlushPadsLastGroup(t *testing.T) {
	// Five literal values: the flushed group is padded to eight with zeros.
	levels := []int16{3, 1, 2, 1, 3}

	size, err := LevelEncoderMaxBufferSize(format.EncodingRLE, 3, len(levels))
	require.NoError(t, err)

	dst := make([]byte, size)

	var e LevelEncoder
	require.NoError(t, e.Init(format.EncodingRLE, 3, dst))

	n, err := e.Encode(levels)
	require.NoError(t, err)
	require.Equal(t, len(levels), n)

	decoded := decodeRLE(t, dst[:e.Len()], 2, 5)
	assert.Equal(t, []int32{3, 1, 2, 1, 3}, decoded)
}

// decodeRLE reads count values back out of an RLE hybrid payload.
func decodeRLE(t *testing.T, data []byte, bitWidth, count int) []int32 {
	t.Helper()

	reader := bytes.NewReader(data)
	out := make([]int32, 0, count)

	for len(out) < count {
		header, err := binary.ReadUvarint(reader)
		require.NoError(t, err)

		if header&1 == 0 { // repeated run
			runLen := int(header >> 1)

			var value uint32
			for i := 0; i < (bitWidth+7)/8; i++ {
				b, err := reader.ReadByte()
				require.NoError(t, err)
				value |= uint32(b) << uint(8*i)
			}

			for i := 0; i < runLen && len(out) < count; i++ {
				out = append(out, int32(value))
			}
		} else { // bit-packed groups
			numGroups := int(header >> 1)
			packed := make([]byte, numGroups*bitWidth)
			_, err := reader.Read(packed)
			require.NoError(t, err)

			for g := 0; g < numGroups; g++ {
				vals := unpack8(packed[g*bitWidth:(g+1)*bitWidth], bitWidth)
				for _, v := range vals {
					if len(out) < count {
						out = append(out, v)
					}
				}
			}
		}
	}

	return out
}
