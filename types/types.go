// Package types implements the value encoders of the write path. The plain
// encoders buffer the plain little-endian representation of the values they
// are given, the dictionary encoder buffers dictionary indices; every encoder
// hands the encoded page payload over through FlushValues.
package types

import (
	"io"

	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/parquet-chunk/format"
	"github.com/hexbee-net/parquet-chunk/schema"
)

const (
	errInvalidType        = errors.Error("invalid type")
	errUnsupportedType    = errors.Error("unsupported physical type")
	errNoBooleanDict      = errors.Error("dictionary encoding not supported on boolean type")
	errUnsupportedEncoder = errors.Error("no encoder for the requested encoding")
)

// ValuesEncoder accumulates values for the data page being built.
type ValuesEncoder interface {
	Put(values []interface{}) error

	// PutSpaced consumes a spaced batch: one slot per defined-or-null
	// position, with validBits marking which slots carry a value.
	PutSpaced(values []interface{}, validBits []byte, offset int64) error

	// EstimatedDataEncodedSize reports the encoded size of the buffered
	// values, used to decide when to cut a page.
	EstimatedDataEncodedSize() int64

	// FlushValues returns the encoded payload for the buffered values and
	// resets the encoder for the next page.
	FlushValues() ([]byte, error)
}

// DictValuesEncoder is the dictionary variant. The data page payload holds
// indices; the dictionary payload itself is written separately.
type DictValuesEncoder interface {
	ValuesEncoder

	DictEncodedSize() int64
	NumEntries() int
	WriteDict(w io.Writer) error
}

// NewValuesEncoder returns the encoder for the column and requested encoding.
func NewValuesEncoder(col *schema.Column, encoding format.Encoding) (ValuesEncoder, error) {
	switch encoding {
	case format.EncodingPlain:
		return newPlainEncoder(col)

	case format.EncodingPlainDictionary, format.EncodingRLEDictionary:
		return NewDictEncoder(col)

	default:
		return nil, errors.WithFields(
			errUnsupportedEncoder,
			errors.Fields{
				"encoding": encoding.String(),
				"type":     col.Type().String(),
			})
	}
}

func newPlainEncoder(col *schema.Column) (ValuesEncoder, error) {
	switch col.Type() {
	case format.TypeBoolean:
		return NewBooleanPlainEncoder()
	case format.TypeInt32:
		return &Int32PlainEncoder{}, nil
	case format.TypeInt64:
		return &Int64PlainEncoder{}, nil
	case format.TypeInt96:
		return &Int96PlainEncoder{}, nil
	case format.TypeFloat:
		return &FloatPlainEncoder{}, nil
	case format.TypeDouble:
		return &DoublePlainEncoder{}, nil
	case format.TypeByteArray:
		return &ByteArrayPlainEncoder{}, nil
	case format.TypeFixedLenByteArray:
		return &ByteArrayPlainEncoder{Length: int(col.TypeLength())}, nil
	default:
		return nil, errors.WithFields(
			errUnsupportedType,
			errors.Fields{
				"type": col.Type().String(),
			})
	}
}
