package types //nolint:dupl // it's cleaner to keep each type separate, even with duplication

import (
	"bytes"
	"encoding/binary"

	"github.com/hexbee-net/errors"
)

type Int64PlainEncoder struct {
	buf bytes.Buffer
}

func (e *Int64PlainEncoder) Put(values []interface{}) error {
	d := make([]int64, len(values))

	for i := range values {
		v, ok := values[i].(int64)
		if !ok {
			return errors.WithFields(
				errInvalidType,
				errors.Fields{
					"expected": "int64",
					"value":    values[i],
				})
		}

		d[i] = v
	}

	return binary.Write(&e.buf, binary.LittleEndian, d)
}

func (e *Int64PlainEncoder) PutSpaced(values []interface{}, validBits []byte, offset int64) error {
	return e.Put(spacedCompact(values, validBits, offset))
}

func (e *Int64PlainEncoder) EstimatedDataEncodedSize() int64 {
	return int64(e.buf.Len())
}

func (e *Int64PlainEncoder) FlushValues() ([]byte, error) {
	out := make([]byte, e.buf.Len())
	copy(out, e.buf.Bytes())
	e.buf.Reset()

	return out, nil
}
