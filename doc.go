// Package chunk writes single Parquet column chunks: it turns batches of
// typed values with their Dremel definition and repetition levels into a
// stream of compressed, self-describing pages.
//
// The entry point is ColumnWriter, configured through WriterProperties and
// fed through WriteBatch or WriteBatchSpaced. Pages are framed and emitted
// by a PageWriter; chunk totals and statistics land in a
// ColumnChunkMetaDataBuilder for the enclosing row group to record.
package chunk
