package chunk

import (
	"github.com/hexbee-net/parquet-chunk/format"
)

// CompressedDataPage is a fully assembled v1 data page: the (possibly
// compressed) body, the counts and encodings its header needs, and the
// page statistics captured at the cut. The page owns its buffer.
type CompressedDataPage struct {
	buffer           []byte
	numValues        int32
	encoding         format.Encoding
	defLevelEncoding format.Encoding
	repLevelEncoding format.Encoding
	uncompressedSize int64
	statistics       EncodedStatistics
}

func NewCompressedDataPage(buffer []byte, numValues int32, encoding format.Encoding, uncompressedSize int64, statistics EncodedStatistics) *CompressedDataPage {
	return &CompressedDataPage{
		buffer:           buffer,
		numValues:        numValues,
		encoding:         encoding,
		defLevelEncoding: format.EncodingRLE,
		repLevelEncoding: format.EncodingRLE,
		uncompressedSize: uncompressedSize,
		statistics:       statistics,
	}
}

func (p *CompressedDataPage) Buffer() []byte {
	return p.buffer
}

func (p *CompressedDataPage) NumValues() int32 {
	return p.numValues
}

func (p *CompressedDataPage) Encoding() format.Encoding {
	return p.encoding
}

func (p *CompressedDataPage) DefinitionLevelEncoding() format.Encoding {
	return p.defLevelEncoding
}

func (p *CompressedDataPage) RepetitionLevelEncoding() format.Encoding {
	return p.repLevelEncoding
}

func (p *CompressedDataPage) UncompressedSize() int64 {
	return p.uncompressedSize
}

func (p *CompressedDataPage) Statistics() EncodedStatistics {
	return p.statistics
}

// DictionaryPage carries the plain-encoded dictionary payload and the number
// of distinct entries it lists.
type DictionaryPage struct {
	buffer    []byte
	numValues int32
	encoding  format.Encoding
}

func NewDictionaryPage(buffer []byte, numValues int32, encoding format.Encoding) *DictionaryPage {
	return &DictionaryPage{
		buffer:    buffer,
		numValues: numValues,
		encoding:  encoding,
	}
}

func (p *DictionaryPage) Buffer() []byte {
	return p.buffer
}

func (p *DictionaryPage) NumValues() int32 {
	return p.numValues
}

func (p *DictionaryPage) Encoding() format.Encoding {
	return p.encoding
}
