package chunk

import (
	"bytes"
	"encoding/binary"

	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/parquet-chunk/encoding"
	"github.com/hexbee-net/parquet-chunk/format"
	"github.com/hexbee-net/parquet-chunk/schema"
	"github.com/hexbee-net/parquet-chunk/types"
)

const levelLengthPrefixSize = 4

const (
	errWriterClosed     = errors.Error("cannot write to a closed column writer")
	errTooManyRows      = errors.Error("more rows were written in the column chunk than expected")
	errRowCountMismatch = errors.Error("written rows differ from the expected rows in the column chunk")
	errMissingLevels    = errors.Error("level slice does not cover the batch")
	errMissingValues    = errors.Error("value slice does not cover the present values")
)

// ColumnWriter drives the value encoder, the level encoders and the
// statistics accumulators of one column chunk. Batches enter through
// WriteBatch or WriteBatchSpaced; pages leave through the page writer when
// the encoded value size crosses the page size limit, and the chunk is
// sealed by Close.
//
// Under dictionary encoding, data pages are buffered until the dictionary
// page is written so the dictionary always precedes them in the byte stream.
// When the dictionary outgrows its size limit the writer falls back to plain
// encoding: the dictionary page and all buffered pages are flushed and every
// later page is written eagerly.
//
// A ColumnWriter is not safe for concurrent use.
type ColumnWriter struct {
	column   *schema.Column
	metadata *ColumnChunkMetaDataBuilder
	pager    PageWriter
	props    *WriterProperties

	expectedRows int64
	numRows      int64

	hasDictionary bool
	encoding      format.Encoding
	fallback      bool
	closed        bool

	numBufferedValues        int64
	numBufferedEncodedValues int64
	totalBytesWritten        int64

	defLevelsSink []int16
	repLevelsSink []int16

	currentEncoder  types.ValuesEncoder
	pageStatistics  Statistics
	chunkStatistics Statistics

	dataPages []*CompressedDataPage

	levelEncoder encoding.LevelEncoder
}

// NewColumnWriter builds a writer for one chunk of col. expectedRows is the
// row count the enclosing row group promises for this chunk; Close fails if
// the rows written differ.
func NewColumnWriter(col *schema.Column, metadata *ColumnChunkMetaDataBuilder, pager PageWriter, expectedRows int64, props *WriterProperties) (*ColumnWriter, error) {
	if props == nil {
		props = DefaultWriterProperties()
	}

	enc := props.Encoding(col.Path())

	// Dictionary encoding is never attempted for booleans, one bit per
	// value cannot be beaten by indices.
	if props.DictionaryEnabled(col.Path()) && col.Type() != format.TypeBoolean {
		enc = props.DictionaryIndexEncoding()
	}

	currentEncoder, err := types.NewValuesEncoder(col, enc)
	if err != nil {
		return nil, err
	}

	w := &ColumnWriter{
		column:         col,
		metadata:       metadata,
		pager:          pager,
		props:          props,
		expectedRows:   expectedRows,
		hasDictionary:  enc.IsDictionary(),
		encoding:       enc,
		currentEncoder: currentEncoder,
	}

	if props.StatisticsEnabled(col.Path()) {
		if w.pageStatistics, err = NewStatistics(col); err != nil {
			return nil, err
		}

		if w.chunkStatistics, err = NewStatistics(col); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// WriteBatch writes a Dremel-shredded batch. defLevels and repLevels may be
// empty iff the column has no definition or repetition levels respectively;
// values holds only the present values, those whose definition level equals
// the column's maximum.
func (w *ColumnWriter) WriteBatch(values []interface{}, defLevels, repLevels []int16) error {
	if w.closed {
		return errors.WithStack(errWriterClosed)
	}

	numValues := int64(len(values))
	if w.column.MaxDefinitionLevel() > 0 {
		numValues = int64(len(defLevels))
	}

	if err := w.checkLevels(numValues, defLevels, repLevels); err != nil {
		return err
	}

	// Chunk the batch so the page size check runs at a bounded granularity;
	// a page can overshoot the limit by at most one mini-batch.
	batchSize := w.props.WriteBatchSize()
	valueOffset := int64(0)

	for offset := int64(0); offset < numValues; offset += batchSize {
		n := batchSize
		if offset+n > numValues {
			n = numValues - offset
		}

		var defs, reps []int16
		if w.column.MaxDefinitionLevel() > 0 {
			defs = defLevels[offset : offset+n]
		}

		if w.column.MaxRepetitionLevel() > 0 {
			reps = repLevels[offset : offset+n]
		}

		written, err := w.writeMiniBatch(n, defs, reps, values[valueOffset:])
		if err != nil {
			return err
		}

		valueOffset += written
	}

	return nil
}

// WriteBatchSpaced writes a batch whose values slice is spaced: one slot per
// position with a definition level of at least maxDef-1 when the leaf is
// optional (exactly maxDef otherwise), with validBits marking which slots
// carry a value.
func (w *ColumnWriter) WriteBatchSpaced(values []interface{}, defLevels, repLevels []int16, validBits []byte, validBitsOffset int64) error {
	if w.closed {
		return errors.WithStack(errWriterClosed)
	}

	if validBits == nil {
		return errors.New("spaced batch requires a validity bitmap")
	}

	numValues := int64(len(values))
	if w.column.MaxDefinitionLevel() > 0 {
		numValues = int64(len(defLevels))
	}

	if err := w.checkLevels(numValues, defLevels, repLevels); err != nil {
		return err
	}

	batchSize := w.props.WriteBatchSize()
	valueOffset := int64(0)

	for offset := int64(0); offset < numValues; offset += batchSize {
		n := batchSize
		if offset+n > numValues {
			n = numValues - offset
		}

		var defs, reps []int16
		if w.column.MaxDefinitionLevel() > 0 {
			defs = defLevels[offset : offset+n]
		}

		if w.column.MaxRepetitionLevel() > 0 {
			reps = repLevels[offset : offset+n]
		}

		spacedWritten, err := w.writeMiniBatchSpaced(n, defs, reps, validBits, validBitsOffset+valueOffset, values[valueOffset:])
		if err != nil {
			return err
		}

		valueOffset += spacedWritten
	}

	return nil
}

// Close finalizes the chunk: the dictionary page (if still pending), any
// outstanding page and all buffered pages are written, the chunk statistics
// are published to the metadata builder and the page writer is sealed.
//
// The row-count check runs after the sink is finalized, so an invalid chunk
// is still fully flushed when Close reports a mismatch. Close is idempotent;
// repeated calls return the cached byte count.
func (w *ColumnWriter) Close() (int64, error) {
	if !w.closed {
		w.closed = true

		if w.hasDictionary && !w.fallback {
			if err := w.writeDictionaryPage(); err != nil {
				return w.totalBytesWritten, err
			}
		}

		if err := w.flushBufferedDataPages(); err != nil {
			return w.totalBytesWritten, err
		}

		if w.chunkStatistics != nil {
			if cs := w.chunkStatistics.Encode(); cs.IsSet() {
				w.metadata.SetStatistics(cs)
			}
		}

		if err := w.pager.Close(w.hasDictionary, w.fallback); err != nil {
			return w.totalBytesWritten, err
		}
	}

	if w.numRows != w.expectedRows {
		return w.totalBytesWritten, errors.WithFields(
			errRowCountMismatch,
			errors.Fields{
				"written":  w.numRows,
				"expected": w.expectedRows,
			})
	}

	return w.totalBytesWritten, nil
}

// TotalBytesWritten reports the bytes handed to the page sink so far.
func (w *ColumnWriter) TotalBytesWritten() int64 {
	return w.totalBytesWritten
}

// RowsWritten reports the rows observed so far.
func (w *ColumnWriter) RowsWritten() int64 {
	return w.numRows
}

func (w *ColumnWriter) checkLevels(numValues int64, defLevels, repLevels []int16) error {
	if w.column.MaxDefinitionLevel() > 0 && int64(len(defLevels)) != numValues {
		return errors.WithFields(
			errMissingLevels,
			errors.Fields{
				"kind":       "definition",
				"levels":     len(defLevels),
				"num-values": numValues,
			})
	}

	if w.column.MaxRepetitionLevel() > 0 && int64(len(repLevels)) != numValues {
		return errors.WithFields(
			errMissingLevels,
			errors.Fields{
				"kind":       "repetition",
				"levels":     len(repLevels),
				"num-values": numValues,
			})
	}

	return nil
}

// writeMiniBatch consumes one mini-batch and returns how many values it took
// from the values slice.
func (w *ColumnWriter) writeMiniBatch(numValues int64, defLevels, repLevels []int16, values []interface{}) (int64, error) {
	var valuesToWrite int64

	maxDef := w.column.MaxDefinitionLevel()
	if maxDef > 0 {
		for _, d := range defLevels {
			if d == maxDef {
				valuesToWrite++
			}
		}

		w.defLevelsSink = append(w.defLevelsSink, defLevels...)
	} else {
		// Required field, every slot holds a value.
		valuesToWrite = numValues
	}

	if err := w.countRows(numValues, repLevels); err != nil {
		return 0, err
	}

	if int64(len(values)) < valuesToWrite {
		return 0, errors.WithFields(
			errMissingValues,
			errors.Fields{
				"values":  len(values),
				"present": valuesToWrite,
			})
	}

	if err := w.currentEncoder.Put(values[:valuesToWrite]); err != nil {
		return 0, err
	}

	if w.pageStatistics != nil {
		if err := w.pageStatistics.Update(values[:valuesToWrite], numValues-valuesToWrite); err != nil {
			return 0, err
		}
	}

	w.numBufferedValues += numValues
	w.numBufferedEncodedValues += valuesToWrite

	if err := w.checkPageLimits(); err != nil {
		return 0, err
	}

	return valuesToWrite, nil
}

// writeMiniBatchSpaced is the spaced sibling of writeMiniBatch. It returns
// how many spaced slots it consumed.
func (w *ColumnWriter) writeMiniBatchSpaced(numValues int64, defLevels, repLevels []int16, validBits []byte, validBitsOffset int64, values []interface{}) (int64, error) {
	var valuesToWrite, spacedValuesToWrite int64

	maxDef := w.column.MaxDefinitionLevel()
	if maxDef > 0 {
		// A spaced slot exists for present leaves and for nulls at the leaf
		// itself, one definition level below the maximum.
		minSpacedDefLevel := maxDef
		if w.column.Optional() {
			minSpacedDefLevel--
		}

		for _, d := range defLevels {
			if d == maxDef {
				valuesToWrite++
			}

			if d >= minSpacedDefLevel {
				spacedValuesToWrite++
			}
		}

		w.defLevelsSink = append(w.defLevelsSink, defLevels...)
	} else {
		valuesToWrite = numValues
		spacedValuesToWrite = numValues
	}

	if err := w.countRows(numValues, repLevels); err != nil {
		return 0, err
	}

	if int64(len(values)) < spacedValuesToWrite {
		return 0, errors.WithFields(
			errMissingValues,
			errors.Fields{
				"values": len(values),
				"spaced": spacedValuesToWrite,
			})
	}

	if w.column.Optional() {
		if err := w.currentEncoder.PutSpaced(values[:spacedValuesToWrite], validBits, validBitsOffset); err != nil {
			return 0, err
		}
	} else {
		if err := w.currentEncoder.Put(values[:valuesToWrite]); err != nil {
			return 0, err
		}
	}

	if w.pageStatistics != nil {
		if err := w.pageStatistics.UpdateSpaced(values[:spacedValuesToWrite], validBits, validBitsOffset, numValues-valuesToWrite); err != nil {
			return 0, err
		}
	}

	w.numBufferedValues += numValues
	w.numBufferedEncodedValues += valuesToWrite

	if err := w.checkPageLimits(); err != nil {
		return 0, err
	}

	return spacedValuesToWrite, nil
}

func (w *ColumnWriter) countRows(numValues int64, repLevels []int16) error {
	if w.column.MaxRepetitionLevel() > 0 {
		// A row can span several value slots; level zero starts a new row.
		for _, r := range repLevels {
			if r == 0 {
				w.numRows++
			}
		}

		w.repLevelsSink = append(w.repLevelsSink, repLevels...)
	} else {
		// Each value is exactly one row.
		w.numRows += numValues
	}

	if w.numRows > w.expectedRows {
		return errors.WithFields(
			errTooManyRows,
			errors.Fields{
				"written":  w.numRows,
				"expected": w.expectedRows,
			})
	}

	return nil
}

func (w *ColumnWriter) checkPageLimits() error {
	if w.currentEncoder.EstimatedDataEncodedSize() >= w.props.DataPageSize() {
		if err := w.addDataPage(); err != nil {
			return err
		}
	}

	if w.hasDictionary && !w.fallback {
		return w.checkDictionarySizeLimit()
	}

	return nil
}

// addDataPage cuts the current page: both level streams are RLE encoded with
// their 4-byte length prefixes, concatenated with the flushed value payload,
// compressed when the sink has a codec, and either written out or buffered
// behind the pending dictionary page.
func (w *ColumnWriter) addDataPage() error {
	values, err := w.currentEncoder.FlushValues()
	if err != nil {
		return err
	}

	var defLevelsRLE, repLevelsRLE []byte

	if w.column.MaxDefinitionLevel() > 0 {
		if defLevelsRLE, err = w.rleEncodeLevels(w.defLevelsSink, w.column.MaxDefinitionLevel()); err != nil {
			return err
		}
	}

	if w.column.MaxRepetitionLevel() > 0 {
		if repLevelsRLE, err = w.rleEncodeLevels(w.repLevelsSink, w.column.MaxRepetitionLevel()); err != nil {
			return err
		}
	}

	uncompressedSize := int64(len(defLevelsRLE) + len(repLevelsRLE) + len(values))

	body := make([]byte, 0, uncompressedSize)
	body = append(body, repLevelsRLE...)
	body = append(body, defLevelsRLE...)
	body = append(body, values...)

	var pageStats EncodedStatistics
	if w.pageStatistics != nil {
		pageStats = w.pageStatistics.Encode()

		if err := w.resetPageStatistics(); err != nil {
			return err
		}
	}

	if w.pager.HasCompressor() {
		if body, err = w.pager.Compress(body); err != nil {
			return err
		}
	}

	page := NewCompressedDataPage(body, int32(w.numBufferedValues), w.encoding, uncompressedSize, pageStats)

	// Pages cut while the dictionary is still open wait until it is
	// emitted, everything else goes straight to the sink. Page bodies are
	// owned, buffering needs no copy.
	if w.hasDictionary && !w.fallback {
		w.dataPages = append(w.dataPages, page)
	} else {
		if err := w.writeDataPage(page); err != nil {
			return err
		}
	}

	w.defLevelsSink = w.defLevelsSink[:0]
	w.repLevelsSink = w.repLevelsSink[:0]
	w.numBufferedValues = 0
	w.numBufferedEncodedValues = 0

	return nil
}

// rleEncodeLevels encodes one level stream and prefixes it with the 4-byte
// little-endian length of the RLE payload.
func (w *ColumnWriter) rleEncodeLevels(levels []int16, maxLevel int16) ([]byte, error) {
	rleSize, err := encoding.LevelEncoderMaxBufferSize(format.EncodingRLE, maxLevel, len(levels))
	if err != nil {
		return nil, err
	}

	buf := make([]byte, levelLengthPrefixSize+rleSize)

	if err := w.levelEncoder.Init(format.EncodingRLE, maxLevel, buf[levelLengthPrefixSize:]); err != nil {
		return nil, err
	}

	encoded, err := w.levelEncoder.Encode(levels)
	if err != nil {
		return nil, err
	}

	if encoded != len(levels) {
		return nil, errors.WithFields(
			errors.New("level encoder stopped short"),
			errors.Fields{
				"encoded": encoded,
				"levels":  len(levels),
			})
	}

	binary.LittleEndian.PutUint32(buf[:levelLengthPrefixSize], uint32(w.levelEncoder.Len()))

	return buf[:levelLengthPrefixSize+w.levelEncoder.Len()], nil
}

// checkDictionarySizeLimit falls back to plain encoding once the dictionary
// payload reaches its size limit: the dictionary page is written so the buffered
// pages are decodable, the buffered pages are flushed in cut order, and the
// value encoder is swapped for a plain one.
func (w *ColumnWriter) checkDictionarySizeLimit() error {
	dictEncoder, ok := w.currentEncoder.(types.DictValuesEncoder)
	if !ok {
		return nil
	}

	if dictEncoder.DictEncodedSize() < w.props.DictionaryPageSizeLimit() {
		return nil
	}

	if err := w.writeDictionaryPage(); err != nil {
		return err
	}

	if err := w.flushBufferedDataPages(); err != nil {
		return err
	}

	w.fallback = true

	// Only plain encoding is supported as the fallback target.
	plainEncoder, err := types.NewValuesEncoder(w.column, format.EncodingPlain)
	if err != nil {
		return err
	}

	w.currentEncoder = plainEncoder
	w.encoding = format.EncodingPlain

	return nil
}

func (w *ColumnWriter) writeDictionaryPage() error {
	dictEncoder, ok := w.currentEncoder.(types.DictValuesEncoder)
	if !ok {
		return errors.New("dictionary page requested without a dictionary encoder")
	}

	buf := &bytes.Buffer{}
	if err := dictEncoder.WriteDict(buf); err != nil {
		return err
	}

	page := NewDictionaryPage(buf.Bytes(), int32(dictEncoder.NumEntries()), w.props.DictionaryPageEncoding())

	written, err := w.pager.WriteDictionaryPage(page)
	if err != nil {
		return err
	}

	w.totalBytesWritten += written

	return nil
}

func (w *ColumnWriter) flushBufferedDataPages() error {
	// Anything still buffered goes into a final page first.
	if w.numBufferedValues > 0 {
		if err := w.addDataPage(); err != nil {
			return err
		}
	}

	for _, page := range w.dataPages {
		if err := w.writeDataPage(page); err != nil {
			return err
		}
	}

	w.dataPages = w.dataPages[:0]

	return nil
}

func (w *ColumnWriter) writeDataPage(page *CompressedDataPage) error {
	written, err := w.pager.WriteDataPage(page)
	if err != nil {
		return err
	}

	w.totalBytesWritten += written

	return nil
}

func (w *ColumnWriter) resetPageStatistics() error {
	if w.chunkStatistics == nil {
		return nil
	}

	if err := w.chunkStatistics.Merge(w.pageStatistics); err != nil {
		return err
	}

	w.pageStatistics.Reset()

	return nil
}
