// Package compression wraps the block codecs a page writer may apply to page
// bodies before they are framed.
package compression

import (
	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/parquet-chunk/format"
)

type BlockCompressor interface {
	CompressBlock(block []byte) ([]byte, error)
	DecompressBlock(block []byte) ([]byte, error)
}

// NewBlockCompressor returns the compressor for codec, or nil for
// UNCOMPRESSED.
func NewBlockCompressor(codec format.CompressionCodec) (BlockCompressor, error) {
	switch codec {
	case format.CompressionUncompressed:
		return nil, nil
	case format.CompressionSnappy:
		return Snappy{}, nil
	case format.CompressionGzip:
		return GZip{}, nil
	case format.CompressionBrotli:
		return Brotli{}, nil
	case format.CompressionLz4:
		return LZ4{}, nil
	case format.CompressionZstd:
		return ZStd{}, nil
	default:
		return nil, errors.WithFields(
			errors.New("unsupported compression codec"),
			errors.Fields{
				"codec": codec.String(),
			})
	}
}
