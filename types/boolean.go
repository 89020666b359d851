package types

import (
	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/parquet-chunk/encoding"
)

// BooleanPlainEncoder bit-packs booleans one value per bit, LSB first.
type BooleanPlainEncoder struct {
	data *encoding.PackedArray
}

func NewBooleanPlainEncoder() (*BooleanPlainEncoder, error) {
	data := &encoding.PackedArray{}
	if err := data.Reset(1); err != nil {
		return nil, err
	}

	return &BooleanPlainEncoder{data: data}, nil
}

func (e *BooleanPlainEncoder) Put(values []interface{}) error {
	for i := range values {
		b, ok := values[i].(bool)
		if !ok {
			return errors.WithFields(
				errInvalidType,
				errors.Fields{
					"expected": "bool",
					"value":    values[i],
				})
		}

		var v int32
		if b {
			v = 1
		}

		e.data.AppendSingle(v)
	}

	return nil
}

func (e *BooleanPlainEncoder) PutSpaced(values []interface{}, validBits []byte, offset int64) error {
	return e.Put(spacedCompact(values, validBits, offset))
}

func (e *BooleanPlainEncoder) EstimatedDataEncodedSize() int64 {
	return int64((e.data.Count() + 7) / 8)
}

func (e *BooleanPlainEncoder) FlushValues() ([]byte, error) {
	e.data.Flush()

	out := make([]byte, len(e.data.Bytes()))
	copy(out, e.data.Bytes())

	if err := e.data.Reset(1); err != nil {
		return nil, err
	}

	return out, nil
}
