package chunk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tj/assert"

	"github.com/hexbee-net/parquet-chunk/format"
	"github.com/hexbee-net/parquet-chunk/schema"
)

func newStatsFor(t *testing.T, typ format.Type) Statistics {
	t.Helper()

	col, err := schema.NewColumn("a", typ, format.FieldRepetitionOptional, 1, 0)
	require.NoError(t, err)

	stats, err := NewStatistics(col)
	require.NoError(t, err)

	return stats
}

func TestStatistics_Int32(t *testing.T) {
	stats := newStatsFor(t, format.TypeInt32)

	require.NoError(t, stats.Update([]interface{}{int32(3), int32(-7), int32(12)}, 2))

	enc := stats.Encode()
	assert.True(t, enc.IsSet())
	assert.True(t, enc.HasMinMax)
	assert.Equal(t, int64(2), enc.NullCount)
	assert.Equal(t, []byte{0xF9, 0xFF, 0xFF, 0xFF}, enc.Min) // -7 little-endian
	assert.Equal(t, []byte{12, 0, 0, 0}, enc.Max)
}

func TestStatistics_Empty(t *testing.T) {
	stats := newStatsFor(t, format.TypeInt32)

	enc := stats.Encode()
	assert.False(t, enc.HasMinMax)
	assert.True(t, enc.HasNullCount)
	assert.Zero(t, enc.NullCount)
}

func TestStatistics_FloatNaNExcluded(t *testing.T) {
	stats := newStatsFor(t, format.TypeFloat)

	require.NoError(t, stats.Update([]interface{}{
		float32(math.NaN()), float32(1.5), float32(-2.5), float32(math.NaN()),
	}, 0))

	enc := stats.Encode()
	require.True(t, enc.HasMinMax)
	assert.Equal(t, math.Float32bits(-2.5), uint32(enc.Min[0])|uint32(enc.Min[1])<<8|uint32(enc.Min[2])<<16|uint32(enc.Min[3])<<24)
	assert.Equal(t, math.Float32bits(1.5), uint32(enc.Max[0])|uint32(enc.Max[1])<<8|uint32(enc.Max[2])<<16|uint32(enc.Max[3])<<24)
}

func TestStatistics_AllNaN(t *testing.T) {
	stats := newStatsFor(t, format.TypeDouble)

	require.NoError(t, stats.Update([]interface{}{math.NaN(), math.NaN()}, 0))

	enc := stats.Encode()
	assert.False(t, enc.HasMinMax)
}

func TestStatistics_ByteArray(t *testing.T) {
	stats := newStatsFor(t, format.TypeByteArray)

	require.NoError(t, stats.Update([]interface{}{
		[]byte("pear"), []byte("apple"), []byte("zucchini"),
	}, 1))

	enc := stats.Encode()
	require.True(t, enc.HasMinMax)
	assert.Equal(t, []byte("apple"), enc.Min)
	assert.Equal(t, []byte("zucchini"), enc.Max)
	assert.Equal(t, int64(1), enc.NullCount)
}

func TestStatistics_Boolean(t *testing.T) {
	stats := newStatsFor(t, format.TypeBoolean)

	require.NoError(t, stats.Update([]interface{}{true, true}, 0))

	enc := stats.Encode()
	assert.Equal(t, []byte{1}, enc.Min)
	assert.Equal(t, []byte{1}, enc.Max)

	require.NoError(t, stats.Update([]interface{}{false}, 0))

	enc = stats.Encode()
	assert.Equal(t, []byte{0}, enc.Min)
	assert.Equal(t, []byte{1}, enc.Max)
}

func TestStatistics_UpdateSpaced(t *testing.T) {
	stats := newStatsFor(t, format.TypeInt64)

	validBits := []byte{0x05} // slots 0 and 2
	values := []interface{}{int64(100), nil, int64(-50)}

	require.NoError(t, stats.UpdateSpaced(values, validBits, 0, 1))

	enc := stats.Encode()
	require.True(t, enc.HasMinMax)
	assert.Equal(t, int64(1), enc.NullCount)
	assert.Equal(t, byte(0xCE), enc.Min[0]) // -50 little-endian low byte
	assert.Equal(t, byte(100), enc.Max[0])
}

func TestStatistics_MergeAndReset(t *testing.T) {
	page := newStatsFor(t, format.TypeInt32)
	chunk := newStatsFor(t, format.TypeInt32)

	require.NoError(t, page.Update([]interface{}{int32(5), int32(9)}, 1))
	require.NoError(t, chunk.Merge(page))
	page.Reset()

	require.NoError(t, page.Update([]interface{}{int32(-3)}, 0))
	require.NoError(t, chunk.Merge(page))

	enc := chunk.Encode()
	assert.Equal(t, int64(1), enc.NullCount)
	assert.Equal(t, []byte{0xFD, 0xFF, 0xFF, 0xFF}, enc.Min) // -3
	assert.Equal(t, []byte{9, 0, 0, 0}, enc.Max)

	// a reset accumulator reports no min/max
	page.Reset()
	assert.False(t, page.Encode().HasMinMax)
	assert.Zero(t, page.NullCount())
}

func TestStatistics_MergeTypeMismatch(t *testing.T) {
	a := newStatsFor(t, format.TypeInt32)
	b := newStatsFor(t, format.TypeInt64)

	require.Error(t, a.Merge(b))
}
