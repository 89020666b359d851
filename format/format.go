// Package format holds the subset of the parquet-format model needed on the
// write path: the physical types, encodings and page headers that frame a
// column chunk on disk. Page headers are serialized with the Thrift compact
// protocol, matching the layout expected by independent readers.
package format

import (
	"strconv"
)

// Type is the physical type of the values stored in a column.
type Type int32

const (
	TypeBoolean           Type = 0
	TypeInt32             Type = 1
	TypeInt64             Type = 2
	TypeInt96             Type = 3
	TypeFloat             Type = 4
	TypeDouble            Type = 5
	TypeByteArray         Type = 6
	TypeFixedLenByteArray Type = 7
)

func (t Type) String() string {
	switch t {
	case TypeBoolean:
		return "BOOLEAN"
	case TypeInt32:
		return "INT32"
	case TypeInt64:
		return "INT64"
	case TypeInt96:
		return "INT96"
	case TypeFloat:
		return "FLOAT"
	case TypeDouble:
		return "DOUBLE"
	case TypeByteArray:
		return "BYTE_ARRAY"
	case TypeFixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "<UNSET(" + strconv.Itoa(int(t)) + ")>"
	}
}

// Encoding identifies how a run of values or levels is laid out in a page.
type Encoding int32

const (
	EncodingPlain                Encoding = 0
	EncodingPlainDictionary      Encoding = 2
	EncodingRLE                  Encoding = 3
	EncodingBitPacked            Encoding = 4
	EncodingDeltaBinaryPacked    Encoding = 5
	EncodingDeltaLengthByteArray Encoding = 6
	EncodingDeltaByteArray       Encoding = 7
	EncodingRLEDictionary        Encoding = 8
)

func (e Encoding) String() string {
	switch e {
	case EncodingPlain:
		return "PLAIN"
	case EncodingPlainDictionary:
		return "PLAIN_DICTIONARY"
	case EncodingRLE:
		return "RLE"
	case EncodingBitPacked:
		return "BIT_PACKED"
	case EncodingDeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case EncodingDeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case EncodingDeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case EncodingRLEDictionary:
		return "RLE_DICTIONARY"
	default:
		return "<UNSET(" + strconv.Itoa(int(e)) + ")>"
	}
}

// IsDictionary reports whether the encoding stores dictionary indices.
func (e Encoding) IsDictionary() bool {
	return e == EncodingPlainDictionary || e == EncodingRLEDictionary
}

// CompressionCodec identifies the block compression applied to page bodies.
type CompressionCodec int32

const (
	CompressionUncompressed CompressionCodec = 0
	CompressionSnappy       CompressionCodec = 1
	CompressionGzip         CompressionCodec = 2
	CompressionLzo          CompressionCodec = 3
	CompressionBrotli       CompressionCodec = 4
	CompressionLz4          CompressionCodec = 5
	CompressionZstd         CompressionCodec = 6
)

func (c CompressionCodec) String() string {
	switch c {
	case CompressionUncompressed:
		return "UNCOMPRESSED"
	case CompressionSnappy:
		return "SNAPPY"
	case CompressionGzip:
		return "GZIP"
	case CompressionLzo:
		return "LZO"
	case CompressionBrotli:
		return "BROTLI"
	case CompressionLz4:
		return "LZ4"
	case CompressionZstd:
		return "ZSTD"
	default:
		return "<UNSET(" + strconv.Itoa(int(c)) + ")>"
	}
}

// PageType discriminates the header variant carried by a page.
type PageType int32

const (
	PageTypeData       PageType = 0
	PageTypeIndex      PageType = 1
	PageTypeDictionary PageType = 2
	PageTypeDataV2     PageType = 3
)

func (p PageType) String() string {
	switch p {
	case PageTypeData:
		return "DATA_PAGE"
	case PageTypeIndex:
		return "INDEX_PAGE"
	case PageTypeDictionary:
		return "DICTIONARY_PAGE"
	case PageTypeDataV2:
		return "DATA_PAGE_V2"
	default:
		return "<UNSET(" + strconv.Itoa(int(p)) + ")>"
	}
}

// FieldRepetitionType is the schema-level repetition of a column.
type FieldRepetitionType int32

const (
	FieldRepetitionRequired FieldRepetitionType = 0
	FieldRepetitionOptional FieldRepetitionType = 1
	FieldRepetitionRepeated FieldRepetitionType = 2
)

func (t FieldRepetitionType) String() string {
	switch t {
	case FieldRepetitionRequired:
		return "REQUIRED"
	case FieldRepetitionOptional:
		return "OPTIONAL"
	case FieldRepetitionRepeated:
		return "REPEATED"
	default:
		return "<UNSET(" + strconv.Itoa(int(t)) + ")>"
	}
}
