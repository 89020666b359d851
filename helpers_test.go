package chunk

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/stretchr/testify/require"

	"github.com/hexbee-net/parquet-chunk/format"
)

// testPage is one page read back from an emitted chunk.
type testPage struct {
	header format.PageHeader
	stats  testStatistics
	body   []byte
}

type testStatistics struct {
	min       []byte
	max       []byte
	nullCount *int64
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)

	return n, err
}

// readChunk parses every page of an emitted chunk byte stream.
func readChunk(t *testing.T, data []byte) []testPage {
	t.Helper()

	var pages []testPage

	cr := &countingReader{r: bytes.NewReader(data)}

	for cr.n < int64(len(data)) {
		page := readPage(t, cr)
		pages = append(pages, page)
	}

	return pages
}

func readPage(t *testing.T, cr *countingReader) testPage {
	t.Helper()

	proto := thrift.NewTCompactProtocol(&thrift.StreamTransport{Reader: cr})

	var page testPage

	_, err := proto.ReadStructBegin()
	require.NoError(t, err)

	for {
		_, typeID, id, err := proto.ReadFieldBegin()
		require.NoError(t, err)

		if typeID == thrift.STOP {
			break
		}

		switch id {
		case 1:
			v, err := proto.ReadI32()
			require.NoError(t, err)
			page.header.Type = format.PageType(v)
		case 2:
			v, err := proto.ReadI32()
			require.NoError(t, err)
			page.header.UncompressedPageSize = v
		case 3:
			v, err := proto.ReadI32()
			require.NoError(t, err)
			page.header.CompressedPageSize = v
		case 5:
			page.header.DataPageHeader = readDataPageHeader(t, proto, &page.stats)
		case 7:
			page.header.DictionaryPageHeader = readDictionaryPageHeader(t, proto)
		default:
			require.NoError(t, proto.Skip(typeID))
		}

		require.NoError(t, proto.ReadFieldEnd())
	}

	require.NoError(t, proto.ReadStructEnd())

	page.body = make([]byte, page.header.CompressedPageSize)
	_, err = io.ReadFull(cr, page.body)
	require.NoError(t, err)

	return page
}

func readDataPageHeader(t *testing.T, proto *thrift.TCompactProtocol, stats *testStatistics) *format.DataPageHeader {
	t.Helper()

	h := &format.DataPageHeader{}

	_, err := proto.ReadStructBegin()
	require.NoError(t, err)

	for {
		_, typeID, id, err := proto.ReadFieldBegin()
		require.NoError(t, err)

		if typeID == thrift.STOP {
			break
		}

		switch id {
		case 1:
			v, err := proto.ReadI32()
			require.NoError(t, err)
			h.NumValues = v
		case 2:
			v, err := proto.ReadI32()
			require.NoError(t, err)
			h.Encoding = format.Encoding(v)
		case 3:
			v, err := proto.ReadI32()
			require.NoError(t, err)
			h.DefinitionLevelEncoding = format.Encoding(v)
		case 4:
			v, err := proto.ReadI32()
			require.NoError(t, err)
			h.RepetitionLevelEncoding = format.Encoding(v)
		case 5:
			readStatistics(t, proto, stats)
		default:
			require.NoError(t, proto.Skip(typeID))
		}

		require.NoError(t, proto.ReadFieldEnd())
	}

	require.NoError(t, proto.ReadStructEnd())

	return h
}

func readDictionaryPageHeader(t *testing.T, proto *thrift.TCompactProtocol) *format.DictionaryPageHeader {
	t.Helper()

	h := &format.DictionaryPageHeader{}

	_, err := proto.ReadStructBegin()
	require.NoError(t, err)

	for {
		_, typeID, id, err := proto.ReadFieldBegin()
		require.NoError(t, err)

		if typeID == thrift.STOP {
			break
		}

		switch id {
		case 1:
			v, err := proto.ReadI32()
			require.NoError(t, err)
			h.NumValues = v
		case 2:
			v, err := proto.ReadI32()
			require.NoError(t, err)
			h.Encoding = format.Encoding(v)
		default:
			require.NoError(t, proto.Skip(typeID))
		}

		require.NoError(t, proto.ReadFieldEnd())
	}

	require.NoError(t, proto.ReadStructEnd())

	return h
}

func readStatistics(t *testing.T, proto *thrift.TCompactProtocol, stats *testStatistics) {
	t.Helper()

	_, err := proto.ReadStructBegin()
	require.NoError(t, err)

	for {
		_, typeID, id, err := proto.ReadFieldBegin()
		require.NoError(t, err)

		if typeID == thrift.STOP {
			break
		}

		switch id {
		case 1:
			v, err := proto.ReadBinary()
			require.NoError(t, err)
			stats.max = v
		case 2:
			v, err := proto.ReadBinary()
			require.NoError(t, err)
			stats.min = v
		case 3:
			v, err := proto.ReadI64()
			require.NoError(t, err)
			stats.nullCount = &v
		default:
			require.NoError(t, proto.Skip(typeID))
		}

		require.NoError(t, proto.ReadFieldEnd())
	}

	require.NoError(t, proto.ReadStructEnd())
}

// decodeLevelSection reads one length-prefixed RLE level section from body
// and returns the decoded levels plus the remaining bytes.
func decodeLevelSection(t *testing.T, body []byte, bitWidth, count int) ([]int32, []byte) {
	t.Helper()

	require.GreaterOrEqual(t, len(body), 4)

	rleLen := binary.LittleEndian.Uint32(body[:4])
	require.GreaterOrEqual(t, len(body), int(4+rleLen))

	levels := decodeRLE(t, body[4:4+rleLen], bitWidth, count)

	return levels, body[4+rleLen:]
}

// decodeRLE reads count values back out of an RLE hybrid payload.
func decodeRLE(t *testing.T, data []byte, bitWidth, count int) []int32 {
	t.Helper()

	reader := bytes.NewReader(data)
	out := make([]int32, 0, count)

	for len(out) < count {
		header, err := binary.ReadUvarint(reader)
		require.NoError(t, err)

		if header&1 == 0 { // repeated run
			runLen := int(header >> 1)

			var value uint32
			for i := 0; i < (bitWidth+7)/8; i++ {
				b, err := reader.ReadByte()
				require.NoError(t, err)
				value |= uint32(b) << uint(8*i)
			}

			for i := 0; i < runLen && len(out) < count; i++ {
				out = append(out, int32(value))
			}
		} else { // bit-packed groups
			numGroups := int(header >> 1)
			packed := make([]byte, numGroups*bitWidth)
			_, err := io.ReadFull(reader, packed)
			require.NoError(t, err)

			for g := 0; g < numGroups; g++ {
				for i := 0; i < 8; i++ {
					var v uint32

					for b := 0; b < bitWidth; b++ {
						pos := i*bitWidth + b
						if packed[g*bitWidth+pos/8]&(1<<uint(pos%8)) != 0 {
							v |= 1 << uint(b)
						}
					}

					if len(out) < count {
						out = append(out, int32(v))
					}
				}
			}
		}
	}

	return out
}

func decodeInt32Values(t *testing.T, data []byte) []int32 {
	t.Helper()

	require.Zero(t, len(data)%4)

	out := make([]int32, len(data)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(data[i*4 : i*4+4]))
	}

	return out
}
