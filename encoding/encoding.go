// Package encoding implements the level and index encodings of the Parquet
// write path: the run-length/bit-packed hybrid, plain bit-packing, and the
// packed array used to hold small integers compactly.
package encoding

import (
	"github.com/hexbee-net/errors"
)

const (
	errUnknownLevelEncoding = errors.Error("unknown encoding type for levels")
	errNotInitialized       = errors.Error("level encoder is not initialized")
	errInvalidBitWidth      = errors.Error("invalid bit-width")
)
