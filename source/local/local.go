// Package local writes chunks to files on the local filesystem.
package local

import (
	"os"

	"github.com/hexbee-net/errors"
)

type File struct {
	FilePath string
	file     *os.File
}

// NewWriter creates a local file Writer.
func NewWriter(path string) (w *File, err error) {
	w = &File{
		FilePath: path,
	}

	if w.file, err = os.Create(path); err != nil {
		return nil, errors.Wrap(err, "failed to create target file")
	}

	return w, nil
}

func (f *File) Write(p []byte) (n int, err error) {
	return f.file.Write(p)
}

func (f *File) Close() error {
	return f.file.Close()
}
