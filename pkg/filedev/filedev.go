package filedev

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

var _ io.ReadSeeker = &FileDev{}

// FileDev uses a file handle as a read-only device.
type FileDev struct {
	file *os.File
	size int64
}

// New returns new filedev.
func New(file *os.File) *FileDev {
	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		panic(errors.WithStack(err))
	}
	return &FileDev{
		file: file,
		size: size,
	}
}

// Seek seeks the position.
func (fd *FileDev) Seek(offset int64, whence int) (int64, error) {
	n, err := fd.file.Seek(offset, whence)
	if err != nil {
		return n, errors.WithStack(err)
	}
	return n, nil
}

// Read reads data from the file. io.EOF is passed through unwrapped so that
// end-of-device detection works the same as on other devices.
func (fd *FileDev) Read(p []byte) (int, error) {
	n, err := fd.file.Read(p)
	if err != nil && err != io.EOF {
		return n, errors.WithStack(err)
	}
	return n, err
}

// Size returns the byte size of the file.
func (fd *FileDev) Size() int64 {
	return fd.size
}
