package format

import (
	"bytes"
	"testing"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/stretchr/testify/require"
	"github.com/tj/assert"
)

func TestPageHeader_WriteThrift(t *testing.T) {
	nullCount := int64(3)

	header := &PageHeader{
		Type:                 PageTypeData,
		UncompressedPageSize: 128,
		CompressedPageSize:   64,
		DataPageHeader: &DataPageHeader{
			NumValues:               10,
			Encoding:                EncodingPlain,
			DefinitionLevelEncoding: EncodingRLE,
			RepetitionLevelEncoding: EncodingRLE,
			Statistics: &Statistics{
				Min:       []byte{1, 0, 0, 0},
				Max:       []byte{9, 0, 0, 0},
				NullCount: &nullCount,
			},
		},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteThrift(header, buf))
	require.NotZero(t, buf.Len())

	fields := readStructFields(t, buf)
	assert.Equal(t, int32(PageTypeData), fields[1])
	assert.Equal(t, int32(128), fields[2])
	assert.Equal(t, int32(64), fields[3])

	dataHeader, ok := fields[5].(map[int16]interface{})
	require.True(t, ok)
	assert.Equal(t, int32(10), dataHeader[1])
	assert.Equal(t, int32(EncodingPlain), dataHeader[2])
	assert.Equal(t, int32(EncodingRLE), dataHeader[3])
	assert.Equal(t, int32(EncodingRLE), dataHeader[4])

	stats, ok := dataHeader[5].(map[int16]interface{})
	require.True(t, ok)
	assert.Equal(t, []byte{9, 0, 0, 0}, stats[1])
	assert.Equal(t, []byte{1, 0, 0, 0}, stats[2])
	assert.Equal(t, int64(3), stats[3])
	// ordered min/max copies
	assert.Equal(t, []byte{9, 0, 0, 0}, stats[5])
	assert.Equal(t, []byte{1, 0, 0, 0}, stats[6])
}

func TestPageHeader_DictionaryHeader(t *testing.T) {
	header := &PageHeader{
		Type:                 PageTypeDictionary,
		UncompressedPageSize: 32,
		CompressedPageSize:   32,
		DictionaryPageHeader: &DictionaryPageHeader{
			NumValues: 4,
			Encoding:  EncodingPlain,
		},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteThrift(header, buf))

	fields := readStructFields(t, buf)
	assert.Equal(t, int32(PageTypeDictionary), fields[1])

	dictHeader, ok := fields[7].(map[int16]interface{})
	require.True(t, ok)
	assert.Equal(t, int32(4), dictHeader[1])
	assert.Equal(t, int32(EncodingPlain), dictHeader[2])
}

// readStructFields parses one compact-protocol struct into a field-id map,
// recursing into nested structs.
func readStructFields(t *testing.T, r *bytes.Buffer) map[int16]interface{} {
	t.Helper()

	proto := thrift.NewTCompactProtocol(&thrift.StreamTransport{Reader: r})

	return readStruct(t, proto)
}

func readStruct(t *testing.T, proto *thrift.TCompactProtocol) map[int16]interface{} {
	t.Helper()

	fields := make(map[int16]interface{})

	_, err := proto.ReadStructBegin()
	require.NoError(t, err)

	for {
		_, typeID, id, err := proto.ReadFieldBegin()
		require.NoError(t, err)

		if typeID == thrift.STOP {
			break
		}

		switch typeID {
		case thrift.I32:
			v, err := proto.ReadI32()
			require.NoError(t, err)
			fields[id] = v
		case thrift.I64:
			v, err := proto.ReadI64()
			require.NoError(t, err)
			fields[id] = v
		case thrift.STRING:
			v, err := proto.ReadBinary()
			require.NoError(t, err)
			fields[id] = v
		case thrift.BOOL:
			v, err := proto.ReadBool()
			require.NoError(t, err)
			fields[id] = v
		case thrift.STRUCT:
			fields[id] = readStruct(t, proto)
		default:
			require.NoError(t, proto.Skip(typeID))
		}

		require.NoError(t, proto.ReadFieldEnd())
	}

	require.NoError(t, proto.ReadStructEnd())

	return fields
}
