package encoding

import (
	"math/bits"

	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/parquet-chunk/format"
)

// LevelEncoder encodes one page's worth of definition or repetition levels
// into a caller supplied buffer, either as the RLE hybrid or as plain
// bit-packed output.
type LevelEncoder struct {
	bitWidth  int
	encoding  format.Encoding
	rle       *RleEncoder
	bitPacked *bitWriter
	rleLength int
}

// LevelEncoderMaxBufferSize returns an upper bound on the encoded size of
// numBufferedValues levels in [0, maxLevel]. The RLE bound includes
// MinRleBufferSize of headroom for the encoder's conservative fullness check.
func LevelEncoderMaxBufferSize(encoding format.Encoding, maxLevel int16, numBufferedValues int) (int, error) {
	bitWidth := bits.Len16(uint16(maxLevel))

	switch encoding {
	case format.EncodingRLE:
		return MaxRleBufferSize(bitWidth, numBufferedValues) + MinRleBufferSize(bitWidth), nil
	case format.EncodingBitPacked:
		return ceilDiv(numBufferedValues*bitWidth, 8), nil
	default:
		return 0, errors.WithFields(
			errUnknownLevelEncoding,
			errors.Fields{
				"encoding": encoding.String(),
			})
	}
}

// Init binds the encoder to dst. The bit width is derived from maxLevel.
func (e *LevelEncoder) Init(encoding format.Encoding, maxLevel int16, dst []byte) error {
	e.bitWidth = bits.Len16(uint16(maxLevel))
	e.encoding = encoding
	e.rle = nil
	e.bitPacked = nil
	e.rleLength = 0

	switch encoding {
	case format.EncodingRLE:
		e.rle = NewRleEncoder(dst, e.bitWidth)
	case format.EncodingBitPacked:
		e.bitPacked = newBitWriter(dst)
	default:
		return errors.WithFields(
			errUnknownLevelEncoding,
			errors.Fields{
				"encoding": encoding.String(),
			})
	}

	return nil
}

// Encode appends levels and returns how many were consumed. It stops early
// when the destination fills, and flushes the underlying bit stream before
// returning so Len reports the final size.
func (e *LevelEncoder) Encode(levels []int16) (int, error) {
	if e.rle == nil && e.bitPacked == nil {
		return 0, errNotInitialized
	}

	numEncoded := 0

	if e.encoding == format.EncodingRLE {
		for _, l := range levels {
			if !e.rle.Put(int64(l)) {
				break
			}

			numEncoded++
		}

		e.rleLength = e.rle.Flush()

		return numEncoded, nil
	}

	for _, l := range levels {
		if !e.bitPacked.putValue(uint64(l), e.bitWidth) {
			break
		}

		numEncoded++
	}

	e.bitPacked.flushBits()

	return numEncoded, nil
}

// Len returns the number of bytes written. Valid after Encode.
func (e *LevelEncoder) Len() int {
	if e.encoding == format.EncodingRLE {
		return e.rleLength
	}

	return e.bitPacked.bytesWritten()
}
