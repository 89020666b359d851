package chunk

import (
	"bytes"

	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/parquet-chunk/compression"
	"github.com/hexbee-net/parquet-chunk/format"
	"github.com/hexbee-net/parquet-chunk/source"
)

// PageWriter frames pages with their Thrift headers and writes them to the
// chunk's byte sink. Compression of page bodies is delegated here so the
// column writer never touches a codec directly.
type PageWriter interface {
	HasCompressor() bool
	Compress(src []byte) ([]byte, error)

	WriteDataPage(page *CompressedDataPage) (int64, error)
	WriteDictionaryPage(page *DictionaryPage) (int64, error)

	// Close seals the chunk totals into the metadata builder. The sink is
	// left open, it belongs to the caller.
	Close(hasDictionary, fallback bool) error
}

type serializedPageWriter struct {
	sink       source.Writer
	compressor compression.BlockCompressor
	metadata   *ColumnChunkMetaDataBuilder

	numValues             int64
	dictionaryPageOffset  *int64
	dataPageOffset        *int64
	totalUncompressedSize int64
	totalCompressedSize   int64
	offset                int64
}

// NewPageWriter returns a page writer emitting into sink with the given
// codec. Offsets recorded in the metadata are relative to the first byte
// this writer emits.
func NewPageWriter(sink source.Writer, codec format.CompressionCodec, metadata *ColumnChunkMetaDataBuilder) (PageWriter, error) {
	compressor, err := compression.NewBlockCompressor(codec)
	if err != nil {
		return nil, err
	}

	return &serializedPageWriter{
		sink:       sink,
		compressor: compressor,
		metadata:   metadata,
	}, nil
}

func (w *serializedPageWriter) HasCompressor() bool {
	return w.compressor != nil
}

func (w *serializedPageWriter) Compress(src []byte) ([]byte, error) {
	return w.compressor.CompressBlock(src)
}

func (w *serializedPageWriter) WriteDataPage(page *CompressedDataPage) (int64, error) {
	stats := page.Statistics()

	header := &format.PageHeader{
		Type:                 format.PageTypeData,
		UncompressedPageSize: int32(page.UncompressedSize()),
		CompressedPageSize:   int32(len(page.Buffer())),
		DataPageHeader: &format.DataPageHeader{
			NumValues:               page.NumValues(),
			Encoding:                page.Encoding(),
			DefinitionLevelEncoding: page.DefinitionLevelEncoding(),
			RepetitionLevelEncoding: page.RepetitionLevelEncoding(),
			Statistics:              stats.toThrift(),
		},
	}

	if w.dataPageOffset == nil {
		offset := w.offset
		w.dataPageOffset = &offset
	}

	written, err := w.writePage(header, page.Buffer())
	if err != nil {
		return 0, err
	}

	headerSize := written - int64(len(page.Buffer()))
	w.totalUncompressedSize += headerSize + page.UncompressedSize()
	w.totalCompressedSize += written
	w.numValues += int64(page.NumValues())

	return written, nil
}

func (w *serializedPageWriter) WriteDictionaryPage(page *DictionaryPage) (int64, error) {
	body := page.Buffer()
	uncompressedSize := int64(len(body))

	if w.HasCompressor() {
		compressed, err := w.Compress(body)
		if err != nil {
			return 0, err
		}

		body = compressed
	}

	header := &format.PageHeader{
		Type:                 format.PageTypeDictionary,
		UncompressedPageSize: int32(uncompressedSize),
		CompressedPageSize:   int32(len(body)),
		DictionaryPageHeader: &format.DictionaryPageHeader{
			NumValues: page.NumValues(),
			Encoding:  page.Encoding(),
		},
	}

	offset := w.offset
	w.dictionaryPageOffset = &offset

	written, err := w.writePage(header, body)
	if err != nil {
		return 0, err
	}

	headerSize := written - int64(len(body))
	w.totalUncompressedSize += headerSize + uncompressedSize
	w.totalCompressedSize += written

	return written, nil
}

func (w *serializedPageWriter) writePage(header *format.PageHeader, body []byte) (int64, error) {
	headerBuf := &bytes.Buffer{}
	if err := format.WriteThrift(header, headerBuf); err != nil {
		return 0, errors.Wrap(err, "failed to serialize page header")
	}

	if err := writeFull(w.sink, headerBuf.Bytes()); err != nil {
		return 0, err
	}

	if err := writeFull(w.sink, body); err != nil {
		return 0, err
	}

	written := int64(headerBuf.Len() + len(body))
	w.offset += written

	return written, nil
}

func (w *serializedPageWriter) Close(hasDictionary, fallback bool) error {
	var dataPageOffset int64
	if w.dataPageOffset != nil {
		dataPageOffset = *w.dataPageOffset
	}

	w.metadata.Finish(
		w.numValues,
		w.dictionaryPageOffset,
		dataPageOffset,
		w.totalCompressedSize,
		w.totalUncompressedSize,
		hasDictionary,
		fallback,
	)

	return nil
}

func writeFull(w source.Writer, buf []byte) error {
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
