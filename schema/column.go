// Package schema describes the leaf columns a chunk writer operates on.
package schema

import (
	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/parquet-chunk/format"
)

const (
	errInvalidLevel      = errors.Error("level out of range")
	errInvalidTypeLength = errors.Error("invalid type length")
)

// Column is the immutable descriptor of a single leaf column: its physical
// type, its position in the Dremel shredding (max definition and repetition
// levels) and its dotted path used for per-column policy lookup.
type Column struct {
	path       string
	typ        format.Type
	repTyp     format.FieldRepetitionType
	typeLength int32
	maxD       int16
	maxR       int16
}

// NewColumn builds a column descriptor. maxD and maxR are the maximum
// definition and repetition levels of the leaf, both in [0, 32767].
func NewColumn(path string, typ format.Type, repTyp format.FieldRepetitionType, maxD, maxR int16) (*Column, error) {
	if maxD < 0 || maxR < 0 {
		return nil, errors.WithFields(
			errInvalidLevel,
			errors.Fields{
				"max-definition-level": maxD,
				"max-repetition-level": maxR,
			})
	}

	if typ == format.TypeFixedLenByteArray {
		return nil, errors.New("fixed-len byte-array requires a type length, use NewFixedLenColumn")
	}

	return &Column{
		path:   path,
		typ:    typ,
		repTyp: repTyp,
		maxD:   maxD,
		maxR:   maxR,
	}, nil
}

// NewFixedLenColumn builds a FIXED_LEN_BYTE_ARRAY column descriptor with the
// given element width in bytes.
func NewFixedLenColumn(path string, typeLength int32, repTyp format.FieldRepetitionType, maxD, maxR int16) (*Column, error) {
	if typeLength <= 0 {
		return nil, errors.WithFields(
			errInvalidTypeLength,
			errors.Fields{
				"type-length": typeLength,
			})
	}

	col, err := NewColumn(path, format.TypeByteArray, repTyp, maxD, maxR)
	if err != nil {
		return nil, err
	}

	col.typ = format.TypeFixedLenByteArray
	col.typeLength = typeLength

	return col, nil
}

// Path returns the dotted path of the column inside the schema.
func (c *Column) Path() string {
	return c.path
}

// Type returns the physical type of the column.
func (c *Column) Type() format.Type {
	return c.typ
}

// RepetitionType returns the schema repetition of the leaf itself.
func (c *Column) RepetitionType() format.FieldRepetitionType {
	return c.repTyp
}

// TypeLength returns the element width for FIXED_LEN_BYTE_ARRAY columns and
// zero otherwise.
func (c *Column) TypeLength() int32 {
	return c.typeLength
}

// MaxDefinitionLevel returns the maximum definition level for this column.
func (c *Column) MaxDefinitionLevel() int16 {
	return c.maxD
}

// MaxRepetitionLevel returns the maximum repetition level for this column.
func (c *Column) MaxRepetitionLevel() int16 {
	return c.maxR
}

// Optional reports whether the leaf itself is optional, which decides if
// spaced writes may skip null slots at the encoder.
func (c *Column) Optional() bool {
	return c.repTyp == format.FieldRepetitionOptional
}
