package memdev

import (
	"io"

	"github.com/pkg/errors"
)

var (
	_ io.Seeker = &MemDev{}
	_ io.Reader = &MemDev{}
	_ io.Writer = &MemDev{}
)

// MemDev simulates device io operations in memory.
//
// Like a file, it allows seeking beyond the end and reports io.EOF once the
// cursor passes the last byte, so code detecting the end of the device
// behaves the same on memdev and on a real file.
type MemDev struct {
	size   int64
	offset int64
	data   []byte
}

// New returns new zero-filled memdev.
func New(size int64) *MemDev {
	return &MemDev{
		size: size,
		data: make([]byte, size),
	}
}

// NewFromBytes returns memdev containing exactly the provided bytes.
func NewFromBytes(data []byte) *MemDev {
	return &MemDev{
		size: int64(len(data)),
		data: data,
	}
}

// Seek seeks the position.
func (md *MemDev) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset = md.offset + offset
	case io.SeekEnd:
		offset = md.size + offset
	}

	if offset < 0 {
		return 0, errors.Errorf("invalid offset: %d", offset)
	}

	md.offset = offset
	return offset, nil
}

// Read reads data from the memdev.
func (md *MemDev) Read(p []byte) (int, error) {
	if md.offset >= md.size {
		return 0, io.EOF
	}
	if p == nil {
		return 0, nil
	}
	n := copy(p, md.data[md.offset:])
	md.offset += int64(n)
	return n, nil
}

// Write writes data to the memdev.
func (md *MemDev) Write(p []byte) (int, error) {
	if p == nil {
		return 0, nil
	}
	if md.offset >= md.size {
		return 0, errors.Errorf("write beyond the end of the device at offset %d", md.offset)
	}
	n := copy(md.data[md.offset:], p)
	md.offset += int64(n)
	return n, nil
}

// Size returns the byte size of the memdev.
func (md *MemDev) Size() int64 {
	return md.size
}
