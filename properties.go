package chunk

import (
	"github.com/hexbee-net/parquet-chunk/format"
)

// Default property values used when an option is not set explicitly.
const (
	// DefaultDataPageSize is the soft upper bound on the encoded value size
	// of a page before it is cut.
	DefaultDataPageSize int64 = 1024 * 1024

	// DefaultDictionaryPageSizeLimit bounds the plain-encoded size of the
	// dictionary before the writer falls back to plain encoding.
	DefaultDictionaryPageSizeLimit = DefaultDataPageSize

	// DefaultWriteBatchSize is the mini-batch granularity of WriteBatch. It
	// bounds how far a page can overshoot the page size limit; it does not
	// affect the output.
	DefaultWriteBatchSize int64 = 1024

	DefaultDictionaryEnabled = true
	DefaultStatisticsEnabled = true
)

// ColumnProperties is the per-column slice of the writer configuration.
type ColumnProperties struct {
	Encoding          format.Encoding
	Codec             format.CompressionCodec
	DictionaryEnabled bool
	StatisticsEnabled bool
}

func defaultColumnProperties() ColumnProperties {
	return ColumnProperties{
		Encoding:          format.EncodingPlain,
		Codec:             format.CompressionUncompressed,
		DictionaryEnabled: DefaultDictionaryEnabled,
		StatisticsEnabled: DefaultStatisticsEnabled,
	}
}

// WriterProperties is the immutable configuration of a chunk writer. Build
// one with NewWriterProperties; per-column settings override the defaults by
// dotted column path.
type WriterProperties struct {
	dataPageSize      int64
	dictPageSizeLimit int64
	writeBatchSize    int64

	defColumnProps ColumnProperties
	columnProps    map[string]ColumnProperties
}

// WriterProperty is a single option applied while building WriterProperties.
type WriterProperty func(*WriterProperties)

// NewWriterProperties builds an immutable property set from the defaults and
// the given options.
func NewWriterProperties(opts ...WriterProperty) *WriterProperties {
	props := &WriterProperties{
		dataPageSize:      DefaultDataPageSize,
		dictPageSizeLimit: DefaultDictionaryPageSizeLimit,
		writeBatchSize:    DefaultWriteBatchSize,
		defColumnProps:    defaultColumnProperties(),
		columnProps:       make(map[string]ColumnProperties),
	}

	for _, opt := range opts {
		opt(props)
	}

	return props
}

// DefaultWriterProperties returns a fresh default property set.
func DefaultWriterProperties() *WriterProperties {
	return NewWriterProperties()
}

// WithDataPageSize sets the soft page size limit in bytes.
func WithDataPageSize(size int64) WriterProperty {
	return func(p *WriterProperties) {
		p.dataPageSize = size
	}
}

// WithDictionaryPageSizeLimit sets the dictionary size at which the writer
// falls back to plain encoding.
func WithDictionaryPageSizeLimit(limit int64) WriterProperty {
	return func(p *WriterProperties) {
		p.dictPageSizeLimit = limit
	}
}

// WithWriteBatchSize sets the internal mini-batch size of WriteBatch.
func WithWriteBatchSize(size int64) WriterProperty {
	return func(p *WriterProperties) {
		p.writeBatchSize = size
	}
}

// WithEncoding sets the default requested value encoding.
func WithEncoding(enc format.Encoding) WriterProperty {
	return func(p *WriterProperties) {
		p.defColumnProps.Encoding = enc
	}
}

// WithEncodingFor sets the requested value encoding for one column path.
func WithEncodingFor(path string, enc format.Encoding) WriterProperty {
	return func(p *WriterProperties) {
		c := p.column(path)
		c.Encoding = enc
		p.columnProps[path] = c
	}
}

// WithCompression sets the default page compression codec.
func WithCompression(codec format.CompressionCodec) WriterProperty {
	return func(p *WriterProperties) {
		p.defColumnProps.Codec = codec
	}
}

// WithCompressionFor sets the page compression codec for one column path.
func WithCompressionFor(path string, codec format.CompressionCodec) WriterProperty {
	return func(p *WriterProperties) {
		c := p.column(path)
		c.Codec = codec
		p.columnProps[path] = c
	}
}

// WithDictionaryDefault enables or disables dictionary encoding by default.
func WithDictionaryDefault(enabled bool) WriterProperty {
	return func(p *WriterProperties) {
		p.defColumnProps.DictionaryEnabled = enabled
	}
}

// WithDictionaryFor enables or disables dictionary encoding for one column.
func WithDictionaryFor(path string, enabled bool) WriterProperty {
	return func(p *WriterProperties) {
		c := p.column(path)
		c.DictionaryEnabled = enabled
		p.columnProps[path] = c
	}
}

// WithStatisticsDefault enables or disables statistics by default.
func WithStatisticsDefault(enabled bool) WriterProperty {
	return func(p *WriterProperties) {
		p.defColumnProps.StatisticsEnabled = enabled
	}
}

// WithStatisticsFor enables or disables statistics for one column.
func WithStatisticsFor(path string, enabled bool) WriterProperty {
	return func(p *WriterProperties) {
		c := p.column(path)
		c.StatisticsEnabled = enabled
		p.columnProps[path] = c
	}
}

func (p *WriterProperties) column(path string) ColumnProperties {
	if c, ok := p.columnProps[path]; ok {
		return c
	}

	return p.defColumnProps
}

func (p *WriterProperties) DataPageSize() int64 {
	return p.dataPageSize
}

func (p *WriterProperties) DictionaryPageSizeLimit() int64 {
	return p.dictPageSizeLimit
}

func (p *WriterProperties) WriteBatchSize() int64 {
	return p.writeBatchSize
}

func (p *WriterProperties) Encoding(path string) format.Encoding {
	return p.column(path).Encoding
}

func (p *WriterProperties) Compression(path string) format.CompressionCodec {
	return p.column(path).Codec
}

func (p *WriterProperties) DictionaryEnabled(path string) bool {
	return p.column(path).DictionaryEnabled
}

func (p *WriterProperties) StatisticsEnabled(path string) bool {
	return p.column(path).StatisticsEnabled
}

// DictionaryIndexEncoding is the encoding recorded for dictionary-encoded
// data pages.
func (p *WriterProperties) DictionaryIndexEncoding() format.Encoding {
	return format.EncodingPlainDictionary
}

// DictionaryPageEncoding is the encoding recorded for the dictionary page
// itself.
func (p *WriterProperties) DictionaryPageEncoding() format.Encoding {
	return format.EncodingPlain
}
