package chunk

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/parquet-chunk/encoding"
	"github.com/hexbee-net/parquet-chunk/format"
	"github.com/hexbee-net/parquet-chunk/schema"
)

const (
	errStatsTypeMismatch = errors.Error("cannot merge statistics of a different type")
)

// EncodedStatistics is the opaque byte form of an accumulator, ready to be
// embedded in a page header or the chunk metadata.
type EncodedStatistics struct {
	Max []byte
	Min []byte

	NullCount    int64
	HasMinMax    bool
	HasNullCount bool
}

func (s EncodedStatistics) IsSet() bool {
	return s.HasMinMax || s.HasNullCount
}

func (s EncodedStatistics) toThrift() *format.Statistics {
	if !s.IsSet() {
		return nil
	}

	out := &format.Statistics{}

	if s.HasMinMax {
		out.Min = s.Min
		out.Max = s.Max
	}

	if s.HasNullCount {
		n := s.NullCount
		out.NullCount = &n
	}

	return out
}

// Statistics accumulates min, max and the null count of the values fed to a
// column writer. Min and max use the physical type's canonical comparison:
// signed for integers, IEEE-754 with NaN excluded for floats, unsigned
// byte-wise for byte arrays.
type Statistics interface {
	// Update folds a batch of present values plus numNulls observed nulls.
	Update(values []interface{}, numNulls int64) error

	// UpdateSpaced folds a spaced batch whose validity bitmap marks the
	// present slots.
	UpdateSpaced(values []interface{}, validBits []byte, offset, numNulls int64) error

	Merge(other Statistics) error
	Encode() EncodedStatistics
	Reset()
	NullCount() int64
}

// NewStatistics returns the accumulator for the column's physical type.
func NewStatistics(col *schema.Column) (Statistics, error) {
	switch col.Type() {
	case format.TypeBoolean:
		return &booleanStatistics{}, nil
	case format.TypeInt32:
		return &int32Statistics{}, nil
	case format.TypeInt64:
		return &int64Statistics{}, nil
	case format.TypeFloat:
		return &floatStatistics{}, nil
	case format.TypeDouble:
		return &doubleStatistics{}, nil
	case format.TypeInt96, format.TypeByteArray, format.TypeFixedLenByteArray:
		return &byteArrayStatistics{}, nil
	default:
		return nil, errors.WithFields(
			errors.New("unsupported physical type for statistics"),
			errors.Fields{
				"type": col.Type().String(),
			})
	}
}

type statisticsBase struct {
	nullCount int64
	hasMinMax bool
}

func (s *statisticsBase) NullCount() int64 {
	return s.nullCount
}

func (s *statisticsBase) resetBase() {
	s.nullCount = 0
	s.hasMinMax = false
}

// fold walks a batch, calling update for every present value.
func fold(values []interface{}, validBits []byte, offset int64, update func(interface{}) error) error {
	if validBits == nil {
		for i := range values {
			if err := update(values[i]); err != nil {
				return err
			}
		}

		return nil
	}

	for i := range values {
		if encoding.GetBit(validBits, offset+int64(i)) {
			if err := update(values[i]); err != nil {
				return err
			}
		}
	}

	return nil
}

// int32 //////////////////////////////////////////////////////////////////////

type int32Statistics struct {
	statisticsBase
	min int32
	max int32
}

func (s *int32Statistics) update(v interface{}) error {
	n, ok := v.(int32)
	if !ok {
		return errors.WithFields(errors.New("invalid type"), errors.Fields{"value": v})
	}

	if !s.hasMinMax {
		s.min, s.max = n, n
		s.hasMinMax = true

		return nil
	}

	if n < s.min {
		s.min = n
	}

	if n > s.max {
		s.max = n
	}

	return nil
}

func (s *int32Statistics) Update(values []interface{}, numNulls int64) error {
	s.nullCount += numNulls
	return fold(values, nil, 0, s.update)
}

func (s *int32Statistics) UpdateSpaced(values []interface{}, validBits []byte, offset, numNulls int64) error {
	s.nullCount += numNulls
	return fold(values, validBits, offset, s.update)
}

func (s *int32Statistics) Merge(other Statistics) error {
	o, ok := other.(*int32Statistics)
	if !ok {
		return errors.WithStack(errStatsTypeMismatch)
	}

	s.nullCount += o.nullCount

	if o.hasMinMax {
		if !s.hasMinMax {
			s.min, s.max = o.min, o.max
			s.hasMinMax = true
		} else {
			if o.min < s.min {
				s.min = o.min
			}
			if o.max > s.max {
				s.max = o.max
			}
		}
	}

	return nil
}

func (s *int32Statistics) Encode() EncodedStatistics {
	enc := EncodedStatistics{NullCount: s.nullCount, HasNullCount: true}

	if s.hasMinMax {
		enc.HasMinMax = true
		enc.Min = make([]byte, 4)
		enc.Max = make([]byte, 4)
		binary.LittleEndian.PutUint32(enc.Min, uint32(s.min))
		binary.LittleEndian.PutUint32(enc.Max, uint32(s.max))
	}

	return enc
}

func (s *int32Statistics) Reset() {
	s.resetBase()
}

// int64 //////////////////////////////////////////////////////////////////////

type int64Statistics struct {
	statisticsBase
	min int64
	max int64
}

func (s *int64Statistics) update(v interface{}) error {
	n, ok := v.(int64)
	if !ok {
		return errors.WithFields(errors.New("invalid type"), errors.Fields{"value": v})
	}

	if !s.hasMinMax {
		s.min, s.max = n, n
		s.hasMinMax = true

		return nil
	}

	if n < s.min {
		s.min = n
	}

	if n > s.max {
		s.max = n
	}

	return nil
}

func (s *int64Statistics) Update(values []interface{}, numNulls int64) error {
	s.nullCount += numNulls
	return fold(values, nil, 0, s.update)
}

func (s *int64Statistics) UpdateSpaced(values []interface{}, validBits []byte, offset, numNulls int64) error {
	s.nullCount += numNulls
	return fold(values, validBits, offset, s.update)
}

func (s *int64Statistics) Merge(other Statistics) error {
	o, ok := other.(*int64Statistics)
	if !ok {
		return errors.WithStack(errStatsTypeMismatch)
	}

	s.nullCount += o.nullCount

	if o.hasMinMax {
		if !s.hasMinMax {
			s.min, s.max = o.min, o.max
			s.hasMinMax = true
		} else {
			if o.min < s.min {
				s.min = o.min
			}
			if o.max > s.max {
				s.max = o.max
			}
		}
	}

	return nil
}

func (s *int64Statistics) Encode() EncodedStatistics {
	enc := EncodedStatistics{NullCount: s.nullCount, HasNullCount: true}

	if s.hasMinMax {
		enc.HasMinMax = true
		enc.Min = make([]byte, 8)
		enc.Max = make([]byte, 8)
		binary.LittleEndian.PutUint64(enc.Min, uint64(s.min))
		binary.LittleEndian.PutUint64(enc.Max, uint64(s.max))
	}

	return enc
}

func (s *int64Statistics) Reset() {
	s.resetBase()
}

// float //////////////////////////////////////////////////////////////////////

type floatStatistics struct {
	statisticsBase
	min float32
	max float32
}

func (s *floatStatistics) update(v interface{}) error {
	n, ok := v.(float32)
	if !ok {
		return errors.WithFields(errors.New("invalid type"), errors.Fields{"value": v})
	}

	// NaN poisons any comparison, keep it out of min/max.
	if math.IsNaN(float64(n)) {
		return nil
	}

	if !s.hasMinMax {
		s.min, s.max = n, n
		s.hasMinMax = true

		return nil
	}

	if n < s.min {
		s.min = n
	}

	if n > s.max {
		s.max = n
	}

	return nil
}

func (s *floatStatistics) Update(values []interface{}, numNulls int64) error {
	s.nullCount += numNulls
	return fold(values, nil, 0, s.update)
}

func (s *floatStatistics) UpdateSpaced(values []interface{}, validBits []byte, offset, numNulls int64) error {
	s.nullCount += numNulls
	return fold(values, validBits, offset, s.update)
}

func (s *floatStatistics) Merge(other Statistics) error {
	o, ok := other.(*floatStatistics)
	if !ok {
		return errors.WithStack(errStatsTypeMismatch)
	}

	s.nullCount += o.nullCount

	if o.hasMinMax {
		if !s.hasMinMax {
			s.min, s.max = o.min, o.max
			s.hasMinMax = true
		} else {
			if o.min < s.min {
				s.min = o.min
			}
			if o.max > s.max {
				s.max = o.max
			}
		}
	}

	return nil
}

func (s *floatStatistics) Encode() EncodedStatistics {
	enc := EncodedStatistics{NullCount: s.nullCount, HasNullCount: true}

	if s.hasMinMax {
		enc.HasMinMax = true
		enc.Min = make([]byte, 4)
		enc.Max = make([]byte, 4)
		binary.LittleEndian.PutUint32(enc.Min, math.Float32bits(s.min))
		binary.LittleEndian.PutUint32(enc.Max, math.Float32bits(s.max))
	}

	return enc
}

func (s *floatStatistics) Reset() {
	s.resetBase()
}

// double /////////////////////////////////////////////////////////////////////

type doubleStatistics struct {
	statisticsBase
	min float64
	max float64
}

func (s *doubleStatistics) update(v interface{}) error {
	n, ok := v.(float64)
	if !ok {
		return errors.WithFields(errors.New("invalid type"), errors.Fields{"value": v})
	}

	if math.IsNaN(n) {
		return nil
	}

	if !s.hasMinMax {
		s.min, s.max = n, n
		s.hasMinMax = true

		return nil
	}

	if n < s.min {
		s.min = n
	}

	if n > s.max {
		s.max = n
	}

	return nil
}

func (s *doubleStatistics) Update(values []interface{}, numNulls int64) error {
	s.nullCount += numNulls
	return fold(values, nil, 0, s.update)
}

func (s *doubleStatistics) UpdateSpaced(values []interface{}, validBits []byte, offset, numNulls int64) error {
	s.nullCount += numNulls
	return fold(values, validBits, offset, s.update)
}

func (s *doubleStatistics) Merge(other Statistics) error {
	o, ok := other.(*doubleStatistics)
	if !ok {
		return errors.WithStack(errStatsTypeMismatch)
	}

	s.nullCount += o.nullCount

	if o.hasMinMax {
		if !s.hasMinMax {
			s.min, s.max = o.min, o.max
			s.hasMinMax = true
		} else {
			if o.min < s.min {
				s.min = o.min
			}
			if o.max > s.max {
				s.max = o.max
			}
		}
	}

	return nil
}

func (s *doubleStatistics) Encode() EncodedStatistics {
	enc := EncodedStatistics{NullCount: s.nullCount, HasNullCount: true}

	if s.hasMinMax {
		enc.HasMinMax = true
		enc.Min = make([]byte, 8)
		enc.Max = make([]byte, 8)
		binary.LittleEndian.PutUint64(enc.Min, math.Float64bits(s.min))
		binary.LittleEndian.PutUint64(enc.Max, math.Float64bits(s.max))
	}

	return enc
}

func (s *doubleStatistics) Reset() {
	s.resetBase()
}

// boolean ////////////////////////////////////////////////////////////////////

type booleanStatistics struct {
	statisticsBase
	min bool
	max bool
}

func (s *booleanStatistics) update(v interface{}) error {
	b, ok := v.(bool)
	if !ok {
		return errors.WithFields(errors.New("invalid type"), errors.Fields{"value": v})
	}

	if !s.hasMinMax {
		s.min, s.max = b, b
		s.hasMinMax = true

		return nil
	}

	if !b {
		s.min = false
	} else {
		s.max = true
	}

	return nil
}

func (s *booleanStatistics) Update(values []interface{}, numNulls int64) error {
	s.nullCount += numNulls
	return fold(values, nil, 0, s.update)
}

func (s *booleanStatistics) UpdateSpaced(values []interface{}, validBits []byte, offset, numNulls int64) error {
	s.nullCount += numNulls
	return fold(values, validBits, offset, s.update)
}

func (s *booleanStatistics) Merge(other Statistics) error {
	o, ok := other.(*booleanStatistics)
	if !ok {
		return errors.WithStack(errStatsTypeMismatch)
	}

	s.nullCount += o.nullCount

	if o.hasMinMax {
		if !s.hasMinMax {
			s.min, s.max = o.min, o.max
			s.hasMinMax = true
		} else {
			if !o.min {
				s.min = false
			}
			if o.max {
				s.max = true
			}
		}
	}

	return nil
}

func (s *booleanStatistics) Encode() EncodedStatistics {
	enc := EncodedStatistics{NullCount: s.nullCount, HasNullCount: true}

	if s.hasMinMax {
		enc.HasMinMax = true
		enc.Min = encodeBool(s.min)
		enc.Max = encodeBool(s.max)
	}

	return enc
}

func (s *booleanStatistics) Reset() {
	s.resetBase()
}

func encodeBool(b bool) []byte {
	if b {
		return []byte{1}
	}

	return []byte{0}
}

// byte array /////////////////////////////////////////////////////////////////

type byteArrayStatistics struct {
	statisticsBase
	min []byte
	max []byte
}

func (s *byteArrayStatistics) update(v interface{}) error {
	b, ok := v.([]byte)
	if !ok {
		return errors.WithFields(errors.New("invalid type"), errors.Fields{"value": v})
	}

	if !s.hasMinMax {
		s.min = append([]byte(nil), b...)
		s.max = append([]byte(nil), b...)
		s.hasMinMax = true

		return nil
	}

	if bytes.Compare(b, s.min) < 0 {
		s.min = append(s.min[:0], b...)
	}

	if bytes.Compare(b, s.max) > 0 {
		s.max = append(s.max[:0], b...)
	}

	return nil
}

func (s *byteArrayStatistics) Update(values []interface{}, numNulls int64) error {
	s.nullCount += numNulls
	return fold(values, nil, 0, s.update)
}

func (s *byteArrayStatistics) UpdateSpaced(values []interface{}, validBits []byte, offset, numNulls int64) error {
	s.nullCount += numNulls
	return fold(values, validBits, offset, s.update)
}

func (s *byteArrayStatistics) Merge(other Statistics) error {
	o, ok := other.(*byteArrayStatistics)
	if !ok {
		return errors.WithStack(errStatsTypeMismatch)
	}

	s.nullCount += o.nullCount

	if o.hasMinMax {
		if !s.hasMinMax {
			s.min = append([]byte(nil), o.min...)
			s.max = append([]byte(nil), o.max...)
			s.hasMinMax = true
		} else {
			if bytes.Compare(o.min, s.min) < 0 {
				s.min = append(s.min[:0], o.min...)
			}
			if bytes.Compare(o.max, s.max) > 0 {
				s.max = append(s.max[:0], o.max...)
			}
		}
	}

	return nil
}

func (s *byteArrayStatistics) Encode() EncodedStatistics {
	enc := EncodedStatistics{NullCount: s.nullCount, HasNullCount: true}

	if s.hasMinMax {
		enc.HasMinMax = true
		enc.Min = append([]byte(nil), s.min...)
		enc.Max = append([]byte(nil), s.max...)
	}

	return enc
}

func (s *byteArrayStatistics) Reset() {
	s.resetBase()
	s.min = nil
	s.max = nil
}
