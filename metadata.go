package chunk

import (
	"github.com/hexbee-net/parquet-chunk/format"
	"github.com/hexbee-net/parquet-chunk/schema"
)

// ColumnChunkMetaDataBuilder collects what the enclosing row group records
// about one finished chunk: encoded statistics, value counts, page offsets,
// sizes and the set of encodings used.
type ColumnChunkMetaDataBuilder struct {
	column *schema.Column

	statistics    EncodedStatistics
	hasStatistics bool

	numValues             int64
	dictionaryPageOffset  *int64
	dataPageOffset        int64
	totalUncompressedSize int64
	totalCompressedSize   int64
	encodings             []format.Encoding
	finished              bool
}

func NewColumnChunkMetaDataBuilder(column *schema.Column) *ColumnChunkMetaDataBuilder {
	return &ColumnChunkMetaDataBuilder{column: column}
}

func (b *ColumnChunkMetaDataBuilder) Column() *schema.Column {
	return b.column
}

// SetStatistics records the chunk statistics. Called at most once, at Close.
func (b *ColumnChunkMetaDataBuilder) SetStatistics(s EncodedStatistics) {
	b.statistics = s
	b.hasStatistics = true
}

// Finish seals the chunk totals reported by the page writer.
func (b *ColumnChunkMetaDataBuilder) Finish(numValues int64, dictionaryPageOffset *int64, dataPageOffset, totalCompressedSize, totalUncompressedSize int64, hasDictionary, fallback bool) {
	b.numValues = numValues
	b.dictionaryPageOffset = dictionaryPageOffset
	b.dataPageOffset = dataPageOffset
	b.totalCompressedSize = totalCompressedSize
	b.totalUncompressedSize = totalUncompressedSize

	b.encodings = []format.Encoding{format.EncodingRLE}
	if hasDictionary {
		b.encodings = append(b.encodings, format.EncodingPlainDictionary)
	}

	if !hasDictionary || fallback {
		b.encodings = append(b.encodings, format.EncodingPlain)
	}

	b.finished = true
}

func (b *ColumnChunkMetaDataBuilder) Statistics() (EncodedStatistics, bool) {
	return b.statistics, b.hasStatistics
}

func (b *ColumnChunkMetaDataBuilder) NumValues() int64 {
	return b.numValues
}

// DictionaryPageOffset returns the dictionary page position, or nil when the
// chunk has none.
func (b *ColumnChunkMetaDataBuilder) DictionaryPageOffset() *int64 {
	return b.dictionaryPageOffset
}

func (b *ColumnChunkMetaDataBuilder) DataPageOffset() int64 {
	return b.dataPageOffset
}

func (b *ColumnChunkMetaDataBuilder) TotalCompressedSize() int64 {
	return b.totalCompressedSize
}

func (b *ColumnChunkMetaDataBuilder) TotalUncompressedSize() int64 {
	return b.totalUncompressedSize
}

func (b *ColumnChunkMetaDataBuilder) Encodings() []format.Encoding {
	return b.encodings
}

func (b *ColumnChunkMetaDataBuilder) Finished() bool {
	return b.finished
}
