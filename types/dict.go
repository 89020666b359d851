package types

import (
	"io"
	"math/bits"

	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/parquet-chunk/encoding"
	"github.com/hexbee-net/parquet-chunk/format"
	"github.com/hexbee-net/parquet-chunk/schema"
)

const dictBitWidthHeaderSize = 1

// DictEncoder maintains an insertion-ordered dictionary of distinct values
// and buffers the 0-based index of every appended value. The data page
// payload is the index stream as an RLE run list, prefixed with one byte
// giving the index bit width; the dictionary payload itself is the distinct
// values in plain encoding, in first-seen order.
type DictEncoder struct {
	col *schema.Column

	values   []interface{}
	indices  map[interface{}]int32
	buffered []int32

	dictSize int64
}

func NewDictEncoder(col *schema.Column) (*DictEncoder, error) {
	if col.Type() == format.TypeBoolean {
		return nil, errors.WithStack(errNoBooleanDict)
	}

	return &DictEncoder{
		col:     col,
		indices: make(map[interface{}]int32),
	}, nil
}

func (e *DictEncoder) Put(values []interface{}) error {
	for i := range values {
		key, err := e.mapKey(values[i])
		if err != nil {
			return err
		}

		idx, ok := e.indices[key]
		if !ok {
			idx = int32(len(e.values))
			e.indices[key] = idx
			e.values = append(e.values, values[i])
			e.dictSize += e.sizeOf(values[i])
		}

		e.buffered = append(e.buffered, idx)
	}

	return nil
}

func (e *DictEncoder) PutSpaced(values []interface{}, validBits []byte, offset int64) error {
	return e.Put(spacedCompact(values, validBits, offset))
}

func (e *DictEncoder) EstimatedDataEncodedSize() int64 {
	bw := e.bitWidth()

	return dictBitWidthHeaderSize +
		int64(encoding.MaxRleBufferSize(bw, len(e.buffered))) +
		int64(encoding.MinRleBufferSize(bw))
}

func (e *DictEncoder) FlushValues() ([]byte, error) {
	bw := e.bitWidth()

	buf := make([]byte, e.EstimatedDataEncodedSize())
	buf[0] = byte(bw)

	rle := encoding.NewRleEncoder(buf[dictBitWidthHeaderSize:], bw)

	for _, idx := range e.buffered {
		if !rle.Put(int64(idx)) {
			return nil, errors.WithFields(
				errors.New("dictionary index buffer filled up short"),
				errors.Fields{
					"indices":   len(e.buffered),
					"bit-width": bw,
				})
		}
	}

	n := rle.Flush()
	e.buffered = e.buffered[:0]

	return buf[:dictBitWidthHeaderSize+n], nil
}

// DictEncodedSize is the plain-encoded byte size of the dictionary payload,
// the quantity checked against the dictionary page size limit.
func (e *DictEncoder) DictEncodedSize() int64 {
	return e.dictSize
}

func (e *DictEncoder) NumEntries() int {
	return len(e.values)
}

// WriteDict serializes the dictionary payload in plain encoding.
func (e *DictEncoder) WriteDict(w io.Writer) error {
	pe, err := newPlainEncoder(e.col)
	if err != nil {
		return err
	}

	if err := pe.Put(e.values); err != nil {
		return err
	}

	buf, err := pe.FlushValues()
	if err != nil {
		return err
	}

	return writeFull(w, buf)
}

func (e *DictEncoder) bitWidth() int {
	if len(e.values) < 2 {
		return 0
	}

	return bits.Len(uint(len(e.values) - 1))
}

func (e *DictEncoder) mapKey(v interface{}) (interface{}, error) {
	switch typed := v.(type) {
	case []byte:
		return string(typed), nil
	case bool, int32, int64, float32, float64:
		return typed, nil
	default:
		return nil, errors.WithFields(
			errInvalidType,
			errors.Fields{
				"value": v,
			})
	}
}

func (e *DictEncoder) sizeOf(v interface{}) int64 {
	switch e.col.Type() {
	case format.TypeInt32, format.TypeFloat:
		return 4
	case format.TypeInt64, format.TypeDouble:
		return 8
	case format.TypeInt96:
		return sizeInt96
	case format.TypeFixedLenByteArray:
		return int64(e.col.TypeLength())
	default:
		// variable length byte array: 4-byte length prefix plus the data
		return int64(len(v.([]byte)) + 4)
	}
}
