package types //nolint:dupl // it's cleaner to keep each type separate, even with duplication

import (
	"bytes"
	"encoding/binary"

	"github.com/hexbee-net/errors"
)

type Int32PlainEncoder struct {
	buf bytes.Buffer
}

func (e *Int32PlainEncoder) Put(values []interface{}) error {
	d := make([]int32, len(values))

	for i := range values {
		v, ok := values[i].(int32)
		if !ok {
			return errors.WithFields(
				errInvalidType,
				errors.Fields{
					"expected": "int32",
					"value":    values[i],
				})
		}

		d[i] = v
	}

	return binary.Write(&e.buf, binary.LittleEndian, d)
}

func (e *Int32PlainEncoder) PutSpaced(values []interface{}, validBits []byte, offset int64) error {
	return e.Put(spacedCompact(values, validBits, offset))
}

func (e *Int32PlainEncoder) EstimatedDataEncodedSize() int64 {
	return int64(e.buf.Len())
}

func (e *Int32PlainEncoder) FlushValues() ([]byte, error) {
	out := make([]byte, e.buf.Len())
	copy(out, e.buf.Bytes())
	e.buf.Reset()

	return out, nil
}
