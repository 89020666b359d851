package types

import (
	"io"

	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/parquet-chunk/encoding"
)

// spacedCompact filters a spaced batch down to the positions whose validity
// bit is set.
func spacedCompact(values []interface{}, validBits []byte, offset int64) []interface{} {
	out := make([]interface{}, 0, len(values))

	for i := range values {
		if encoding.GetBit(validBits, offset+int64(i)) {
			out = append(out, values[i])
		}
	}

	return out
}

func writeFull(w io.Writer, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}

	cnt, err := w.Write(buf)
	if err != nil {
		return err
	}

	if cnt != len(buf) {
		return errors.WithFields(
			errors.New("invalid number of bytes written"),
			errors.Fields{
				"expected": len(buf),
				"actual":   cnt,
			})
	}

	return nil
}
