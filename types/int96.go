package types

import (
	"bytes"

	"github.com/hexbee-net/errors"
)

const sizeInt96 = 12

// Int96PlainEncoder writes INT96 values as their raw twelve bytes.
type Int96PlainEncoder struct {
	buf bytes.Buffer
}

func (e *Int96PlainEncoder) Put(values []interface{}) error {
	for i := range values {
		v, ok := values[i].([]byte)
		if !ok || len(v) != sizeInt96 {
			return errors.WithFields(
				errInvalidType,
				errors.Fields{
					"expected": "12-byte int96",
					"value":    values[i],
				})
		}

		e.buf.Write(v)
	}

	return nil
}

func (e *Int96PlainEncoder) PutSpaced(values []interface{}, validBits []byte, offset int64) error {
	return e.Put(spacedCompact(values, validBits, offset))
}

func (e *Int96PlainEncoder) EstimatedDataEncodedSize() int64 {
	return int64(e.buf.Len())
}

func (e *Int96PlainEncoder) FlushValues() ([]byte, error) {
	out := make([]byte, e.buf.Len())
	copy(out, e.buf.Bytes())
	e.buf.Reset()

	return out, nil
}
