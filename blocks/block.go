package blocks

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ErrOutOfRange is returned when a block exists only partially on the device:
// its prefix or payload ends before the block boundary. A block starting at or
// beyond the end of the device is not an error, see Read.
var ErrOutOfRange = errors.New("block out of range")

// Offset returns the byte offset of the block at the given index. Block 0
// starts right after the header block occupying the beginning of the file.
func Offset(blockSize, index int32) int64 {
	return (int64(index) + 1) * int64(blockSize)
}

// Read decodes the block at the given index.
//
// The second return value reports whether the block exists: false with a nil
// error means the device ends at or before the block boundary, which is the
// normal termination condition of sequential enumeration. ErrOutOfRange is
// returned when the block starts before the end of the device but is cut
// short, so a truncated trailing block is distinguishable from a clean end.
func Read(dev io.ReadSeeker, blockSize, index int32) (Block, bool, error) {
	if index < 0 {
		return Block{}, false, errors.Errorf("negative block index: %d", index)
	}
	if blockSize <= PrefixSize {
		return Block{}, false, errors.Errorf("block size %d cannot hold payload, minimum is %d", blockSize, PrefixSize+1)
	}

	if _, err := dev.Seek(Offset(blockSize, index), io.SeekStart); err != nil {
		return Block{}, false, errors.WithStack(err)
	}

	buf := make([]byte, blockSize)
	if _, err := io.ReadFull(dev, buf[:1]); err != nil {
		if errors.Is(err, io.EOF) {
			return Block{}, false, nil
		}
		return Block{}, false, errors.WithStack(err)
	}
	if _, err := io.ReadFull(dev, buf[1:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Block{}, false, errors.Wrapf(ErrOutOfRange, "block %d is truncated", index)
		}
		return Block{}, false, errors.WithStack(err)
	}

	return Block{
		Flags:   Flags(buf[0]),
		ID:      int32(binary.BigEndian.Uint32(buf[1:PrefixSize])),
		Payload: buf[PrefixSize:],
	}, true, nil
}
