package encoding

// maxValuesPerLiteralRun bounds a literal run to what a one-byte indicator
// can describe: 2^6 groups of eight values.
const maxValuesPerLiteralRun = (1 << 6) * 8

// RleEncoder produces the Parquet run-length/bit-packed hybrid: alternating
// repeated runs (varint header with a clear low bit, then the value in
// ceil(bitWidth/8) bytes) and bit-packed literal groups (one-byte header with
// the low bit set, then groups of eight packed values).
//
// The encoder writes into a fixed destination buffer and stops accepting
// values once the space left cannot hold a worst-case run. The fullness check
// is conservative; size the destination with MaxRleBufferSize plus
// MinRleBufferSize of headroom to guarantee a batch fits.
type RleEncoder struct {
	bw       *bitWriter
	bitWidth int

	curValue     int64
	repeatCount  int
	literalCount int

	buffered    [8]int64
	numBuffered int

	literalIndicatorOffset int
	full                   bool
}

func NewRleEncoder(buf []byte, bitWidth int) *RleEncoder {
	return &RleEncoder{
		bw:                     newBitWriter(buf),
		bitWidth:               bitWidth,
		literalIndicatorOffset: -1,
	}
}

// MinRleBufferSize returns the smallest destination size that can always
// absorb one more run: the larger of a full literal group and a maximal
// varint repeated-run header.
func MinRleBufferSize(bitWidth int) int {
	maxLiteralRunSize := 1 + ceilDiv(8*bitWidth, 8)
	maxRepeatedRunSize := maxVlqByteLength + ceilDiv(bitWidth, 8)

	if maxLiteralRunSize > maxRepeatedRunSize {
		return maxLiteralRunSize
	}

	return maxRepeatedRunSize
}

// MaxRleBufferSize returns an upper bound on the encoded size of numValues
// values, whichever of all-literal or all-repeated layouts is larger.
func MaxRleBufferSize(bitWidth, numValues int) int {
	numRuns := ceilDiv(numValues, 8)
	literalMaxSize := numRuns + numRuns*bitWidth

	minRepeatedRunSize := 1 + ceilDiv(bitWidth, 8)
	repeatedMaxSize := numRuns * minRepeatedRunSize

	if literalMaxSize > repeatedMaxSize {
		return literalMaxSize
	}

	return repeatedMaxSize
}

// Put buffers one value. It returns false once the destination cannot be
// guaranteed to hold the value, in which case the value was not consumed.
func (e *RleEncoder) Put(value int64) bool {
	if e.full {
		return false
	}

	if e.curValue == value && e.repeatCount <= maxValuesPerLiteralRun {
		e.repeatCount++

		if e.repeatCount > 8 {
			// Continuation of the current repeated run, nothing to buffer.
			return true
		}
	} else {
		if e.repeatCount >= 8 {
			e.flushRepeatedRun()
		}

		e.repeatCount = 1
		e.curValue = value
	}

	e.buffered[e.numBuffered] = value
	e.numBuffered++

	if e.numBuffered == 8 {
		e.flushBufferedValues(false)
	}

	return true
}

// Flush terminates all pending runs and byte-aligns the output. It returns
// the total number of bytes written.
func (e *RleEncoder) Flush() int {
	if e.literalCount > 0 || e.repeatCount > 0 || e.numBuffered > 0 {
		allRepeat := e.literalCount == 0 &&
			(e.repeatCount == e.numBuffered || e.numBuffered == 0)

		if e.repeatCount > 0 && allRepeat {
			e.flushRepeatedRun()
		} else {
			// Pad the last literal group to eight values with zeros.
			for ; e.numBuffered != 0 && e.numBuffered < 8; e.numBuffered++ {
				e.buffered[e.numBuffered] = 0
			}

			e.literalCount += e.numBuffered
			e.flushLiteralRun(true)
			e.repeatCount = 0
		}
	}

	e.bw.flushBits()

	return e.bw.bytesWritten()
}

// Len returns the number of bytes written so far.
func (e *RleEncoder) Len() int {
	return e.bw.bytesWritten()
}

func (e *RleEncoder) flushBufferedValues(done bool) {
	if e.repeatCount >= 8 {
		// The buffered values are the head of a repeated run. Close the open
		// literal indicator first; its values are already written out.
		e.numBuffered = 0

		if e.literalCount != 0 {
			e.flushLiteralRun(true)
		}

		return
	}

	e.literalCount += e.numBuffered

	if numGroups := e.literalCount / 8; numGroups+1 >= 1<<6 {
		// The reserved indicator byte cannot describe more groups.
		e.flushLiteralRun(true)
	} else {
		e.flushLiteralRun(done)
	}

	e.repeatCount = 0
}

func (e *RleEncoder) flushLiteralRun(updateIndicator bool) {
	if e.literalIndicatorOffset < 0 {
		e.literalIndicatorOffset = e.bw.reserveByte()
		if e.literalIndicatorOffset < 0 {
			e.full = true
			return
		}
	}

	for i := 0; i < e.numBuffered; i++ {
		if !e.bw.putValue(uint64(e.buffered[i]), e.bitWidth) {
			e.full = true
			return
		}
	}

	e.numBuffered = 0

	if updateIndicator {
		numGroups := e.literalCount / 8
		e.bw.buf[e.literalIndicatorOffset] = byte(numGroups<<1 | 1)
		e.literalIndicatorOffset = -1
		e.literalCount = 0
	}

	e.checkFull()
}

func (e *RleEncoder) flushRepeatedRun() {
	ok := e.bw.putVlqInt(uint64(e.repeatCount) << 1)
	ok = ok && e.bw.putAligned(uint64(e.curValue), ceilDiv(e.bitWidth, 8))

	if !ok {
		e.full = true
	}

	e.numBuffered = 0
	e.repeatCount = 0
	e.checkFull()
}

func (e *RleEncoder) checkFull() {
	if e.bw.bytesWritten()+MinRleBufferSize(e.bitWidth) > len(e.bw.buf) {
		e.full = true
	}
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
