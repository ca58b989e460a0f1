package header

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	headerV1 "github.com/outofforest/blockfile/header/v1"
)

// Size is the byte size of the header at the beginning of the file.
const Size = headerV1.Size

// Errors returned while reading the header.
var (
	ErrTruncated          = errors.New("file is too short to contain a valid header")
	ErrUnsupportedVersion = errors.New("unsupported header version")
)

// Read reads the header from the beginning of the device and decodes it using
// the codec matching the version field. Only version 1 is defined so far.
func Read(dev io.ReadSeeker) (headerV1.Header, error) {
	if _, err := dev.Seek(0, io.SeekStart); err != nil {
		return headerV1.Header{}, errors.WithStack(err)
	}

	var raw [Size]byte
	if _, err := io.ReadFull(dev, raw[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return headerV1.Header{}, errors.WithStack(ErrTruncated)
		}
		return headerV1.Header{}, errors.WithStack(err)
	}

	version := int32(binary.BigEndian.Uint32(raw[16:20]))
	switch version {
	case headerV1.SchemaVersion:
		return headerV1.Decode(raw)
	default:
		return headerV1.Header{}, errors.Wrapf(ErrUnsupportedVersion, "version: %d", version)
	}
}
