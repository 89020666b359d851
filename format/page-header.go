package format

import (
	"io"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/hexbee-net/errors"
)

// Statistics is the encoded per-page (or per-chunk) statistics blob carried
// inside page headers and column metadata. Min and Max hold the value in its
// plain encoding, byte arrays without their length prefix; nil means unset.
type Statistics struct {
	Max           []byte
	Min           []byte
	NullCount     *int64
	DistinctCount *int64
}

func (s *Statistics) write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("Statistics"); err != nil {
		return errors.WithStack(err)
	}

	if s.Max != nil {
		if err := writeBinaryField(p, "max", 1, s.Max); err != nil {
			return err
		}
	}

	if s.Min != nil {
		if err := writeBinaryField(p, "min", 2, s.Min); err != nil {
			return err
		}
	}

	if s.NullCount != nil {
		if err := writeI64Field(p, "null_count", 3, *s.NullCount); err != nil {
			return err
		}
	}

	if s.DistinctCount != nil {
		if err := writeI64Field(p, "distinct_count", 4, *s.DistinctCount); err != nil {
			return err
		}
	}

	// The ordered min/max pair is a byte-wise copy of the legacy fields for
	// the types written here.
	if s.Max != nil {
		if err := writeBinaryField(p, "max_value", 5, s.Max); err != nil {
			return err
		}
	}

	if s.Min != nil {
		if err := writeBinaryField(p, "min_value", 6, s.Min); err != nil {
			return err
		}
	}

	return writeStructEnd(p)
}

// DataPageHeader describes a v1 data page: its value count, the value
// encoding and the encodings of the two level streams.
type DataPageHeader struct {
	NumValues               int32
	Encoding                Encoding
	DefinitionLevelEncoding Encoding
	RepetitionLevelEncoding Encoding
	Statistics              *Statistics
}

func (h *DataPageHeader) write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("DataPageHeader"); err != nil {
		return errors.WithStack(err)
	}

	if err := writeI32Field(p, "num_values", 1, h.NumValues); err != nil {
		return err
	}

	if err := writeI32Field(p, "encoding", 2, int32(h.Encoding)); err != nil {
		return err
	}

	if err := writeI32Field(p, "definition_level_encoding", 3, int32(h.DefinitionLevelEncoding)); err != nil {
		return err
	}

	if err := writeI32Field(p, "repetition_level_encoding", 4, int32(h.RepetitionLevelEncoding)); err != nil {
		return err
	}

	if h.Statistics != nil {
		if err := p.WriteFieldBegin("statistics", thrift.STRUCT, 5); err != nil {
			return errors.WithStack(err)
		}

		if err := h.Statistics.write(p); err != nil {
			return err
		}

		if err := p.WriteFieldEnd(); err != nil {
			return errors.WithStack(err)
		}
	}

	return writeStructEnd(p)
}

// DictionaryPageHeader describes the single dictionary page of a chunk.
type DictionaryPageHeader struct {
	NumValues int32
	Encoding  Encoding
	IsSorted  *bool
}

func (h *DictionaryPageHeader) write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("DictionaryPageHeader"); err != nil {
		return errors.WithStack(err)
	}

	if err := writeI32Field(p, "num_values", 1, h.NumValues); err != nil {
		return err
	}

	if err := writeI32Field(p, "encoding", 2, int32(h.Encoding)); err != nil {
		return err
	}

	if h.IsSorted != nil {
		if err := p.WriteFieldBegin("is_sorted", thrift.BOOL, 3); err != nil {
			return errors.WithStack(err)
		}

		if err := p.WriteBool(*h.IsSorted); err != nil {
			return errors.WithStack(err)
		}

		if err := p.WriteFieldEnd(); err != nil {
			return errors.WithStack(err)
		}
	}

	return writeStructEnd(p)
}

// PageHeader frames every page in the chunk. Exactly one of the typed
// sub-headers is set, selected by Type.
type PageHeader struct {
	Type                 PageType
	UncompressedPageSize int32
	CompressedPageSize   int32
	DataPageHeader       *DataPageHeader
	DictionaryPageHeader *DictionaryPageHeader
}

func (h *PageHeader) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("PageHeader"); err != nil {
		return errors.WithStack(err)
	}

	if err := writeI32Field(p, "type", 1, int32(h.Type)); err != nil {
		return err
	}

	if err := writeI32Field(p, "uncompressed_page_size", 2, h.UncompressedPageSize); err != nil {
		return err
	}

	if err := writeI32Field(p, "compressed_page_size", 3, h.CompressedPageSize); err != nil {
		return err
	}

	if h.DataPageHeader != nil {
		if err := p.WriteFieldBegin("data_page_header", thrift.STRUCT, 5); err != nil {
			return errors.WithStack(err)
		}

		if err := h.DataPageHeader.write(p); err != nil {
			return err
		}

		if err := p.WriteFieldEnd(); err != nil {
			return errors.WithStack(err)
		}
	}

	if h.DictionaryPageHeader != nil {
		if err := p.WriteFieldBegin("dictionary_page_header", thrift.STRUCT, 7); err != nil {
			return errors.WithStack(err)
		}

		if err := h.DictionaryPageHeader.write(p); err != nil {
			return err
		}

		if err := p.WriteFieldEnd(); err != nil {
			return errors.WithStack(err)
		}
	}

	return writeStructEnd(p)
}

type thriftWriter interface {
	Write(thrift.TProtocol) error
}

// WriteThrift serializes tr to w with the Thrift compact protocol.
func WriteThrift(tr thriftWriter, w io.Writer) error {
	transport := &thrift.StreamTransport{Writer: w}
	proto := thrift.NewTCompactProtocol(transport)

	return tr.Write(proto)
}

func writeI32Field(p thrift.TProtocol, name string, id int16, v int32) error {
	if err := p.WriteFieldBegin(name, thrift.I32, id); err != nil {
		return errors.WithStack(err)
	}

	if err := p.WriteI32(v); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(p.WriteFieldEnd())
}

func writeI64Field(p thrift.TProtocol, name string, id int16, v int64) error {
	if err := p.WriteFieldBegin(name, thrift.I64, id); err != nil {
		return errors.WithStack(err)
	}

	if err := p.WriteI64(v); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(p.WriteFieldEnd())
}

func writeBinaryField(p thrift.TProtocol, name string, id int16, v []byte) error {
	if err := p.WriteFieldBegin(name, thrift.STRING, id); err != nil {
		return errors.WithStack(err)
	}

	if err := p.WriteBinary(v); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(p.WriteFieldEnd())
}

func writeStructEnd(p thrift.TProtocol) error {
	if err := p.WriteFieldStop(); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(p.WriteStructEnd())
}
