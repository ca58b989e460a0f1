package v1

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// SchemaVersion is the header format version decoded by this package.
const SchemaVersion int32 = 1

// Size is the byte size of the header.
const Size = 32

// Header contains the file metadata stored in the header block.
//
// In version 1 the first data block immediately follows the header block, so
// block index 0 corresponds to byte offset BlockSize.
type Header struct {
	MagicNumber    int64
	FileID         int64
	Version        int32
	BlockSize      int32
	FirstFreeBlock int32
	ParamCount     int32
}

// Decode decodes the version-1 header layout: two 8-byte signed integers
// followed by four 4-byte signed integers, all big-endian.
func Decode(raw [Size]byte) (Header, error) {
	h := Header{
		MagicNumber:    int64(binary.BigEndian.Uint64(raw[0:8])),
		FileID:         int64(binary.BigEndian.Uint64(raw[8:16])),
		Version:        int32(binary.BigEndian.Uint32(raw[16:20])),
		BlockSize:      int32(binary.BigEndian.Uint32(raw[20:24])),
		FirstFreeBlock: int32(binary.BigEndian.Uint32(raw[24:28])),
		ParamCount:     int32(binary.BigEndian.Uint32(raw[28:32])),
	}
	if h.Version != SchemaVersion {
		return Header{}, errors.Errorf("unexpected header version: %d", h.Version)
	}
	return h, nil
}

// Encode encodes the header back into its on-disk form. Decode followed by
// Encode reproduces the original bytes exactly.
func (h Header) Encode() [Size]byte {
	var raw [Size]byte
	binary.BigEndian.PutUint64(raw[0:8], uint64(h.MagicNumber))
	binary.BigEndian.PutUint64(raw[8:16], uint64(h.FileID))
	binary.BigEndian.PutUint32(raw[16:20], uint32(h.Version))
	binary.BigEndian.PutUint32(raw[20:24], uint32(h.BlockSize))
	binary.BigEndian.PutUint32(raw[24:28], uint32(h.FirstFreeBlock))
	binary.BigEndian.PutUint32(raw[28:32], uint32(h.ParamCount))
	return raw
}
