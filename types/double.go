package types //nolint:dupl // it's cleaner to keep each type separate, even with duplication

import (
	"bytes"
	"encoding/binary"

	"github.com/hexbee-net/errors"
)

type DoublePlainEncoder struct {
	buf bytes.Buffer
}

func (e *DoublePlainEncoder) Put(values []interface{}) error {
	d := make([]float64, len(values))

	for i := range values {
		v, ok := values[i].(float64)
		if !ok {
			return errors.WithFields(
				errInvalidType,
				errors.Fields{
					"expected": "float64",
					"value":    values[i],
				})
		}

		d[i] = v
	}

	return binary.Write(&e.buf, binary.LittleEndian, d)
}

func (e *DoublePlainEncoder) PutSpaced(values []interface{}, validBits []byte, offset int64) error {
	return e.Put(spacedCompact(values, validBits, offset))
}

func (e *DoublePlainEncoder) EstimatedDataEncodedSize() int64 {
	return int64(e.buf.Len())
}

func (e *DoublePlainEncoder) FlushValues() ([]byte, error) {
	out := make([]byte, e.buf.Len())
	copy(out, e.buf.Bytes())
	e.buf.Reset()

	return out, nil
}
