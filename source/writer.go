// Package source abstracts the byte sinks a chunk is emitted into.
package source

import "io"

// Writer is the destination of a serialized column chunk.
type Writer interface {
	io.Writer
	io.Closer
}
