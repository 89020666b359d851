package types

import (
	"bytes"
	"encoding/binary"

	"github.com/hexbee-net/errors"
)

// ByteArrayPlainEncoder writes byte arrays length-prefixed, or raw when
// Length pins the element width (FIXED_LEN_BYTE_ARRAY).
type ByteArrayPlainEncoder struct {
	buf bytes.Buffer

	Length int
}

func (e *ByteArrayPlainEncoder) Put(values []interface{}) error {
	for i := range values {
		v, ok := values[i].([]byte)
		if !ok {
			return errors.WithFields(
				errInvalidType,
				errors.Fields{
					"expected": "[]byte",
					"value":    values[i],
				})
		}

		if err := e.writeBytes(v); err != nil {
			return err
		}
	}

	return nil
}

func (e *ByteArrayPlainEncoder) writeBytes(data []byte) error {
	l := e.Length

	if l == 0 { // variable length
		l = len(data)

		if err := binary.Write(&e.buf, binary.LittleEndian, int32(l)); err != nil {
			return err
		}
	} else if len(data) != l {
		return errors.WithFields(
			errors.New("byte array has invalid length"),
			errors.Fields{
				"expected": l,
				"actual":   len(data),
			})
	}

	e.buf.Write(data)

	return nil
}

func (e *ByteArrayPlainEncoder) PutSpaced(values []interface{}, validBits []byte, offset int64) error {
	return e.Put(spacedCompact(values, validBits, offset))
}

func (e *ByteArrayPlainEncoder) EstimatedDataEncodedSize() int64 {
	return int64(e.buf.Len())
}

func (e *ByteArrayPlainEncoder) FlushValues() ([]byte, error) {
	out := make([]byte, e.buf.Len())
	copy(out, e.buf.Bytes())
	e.buf.Reset()

	return out, nil
}
