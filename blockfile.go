package blockfile

import (
	"io"

	"github.com/pkg/errors"

	"github.com/outofforest/blockfile/blocks"
	"github.com/outofforest/blockfile/header"
	headerV1 "github.com/outofforest/blockfile/header/v1"
	"github.com/outofforest/blockfile/params"
)

// Dev is the interface required from the device storing the block file.
// The device is only ever read; every operation seeks explicitly, so no state
// is shared between calls and independent readers may use separate devices
// over the same file safely.
type Dev interface {
	io.ReadSeeker
	Size() int64
}

// File is a decode session over one block file. The header and the parameter
// table are decoded once at open time; blocks are decoded on demand.
type File struct {
	dev    Dev
	header headerV1.Header
	params params.Params
}

// Open decodes the header and the parameter table of the block file stored on
// the device. Any failure aborts the whole open, there is no partially decoded
// state.
func Open(dev Dev) (*File, error) {
	h, err := header.Read(dev)
	if err != nil {
		return nil, err
	}

	p, err := params.Read(dev, h.ParamCount)
	if err != nil {
		return nil, err
	}

	return &File{
		dev:    dev,
		header: h,
		params: p,
	}, nil
}

// Header returns the decoded file header.
func (f *File) Header() headerV1.Header {
	return f.header
}

// Params returns the decoded user-defined parameter table.
func (f *File) Params() params.Params {
	return f.params
}

// Block decodes the block at the given index. It returns false with a nil
// error when the device ends at or before the block boundary, and
// blocks.ErrOutOfRange when the block is cut short by the end of the device.
func (f *File) Block(index int32) (blocks.Block, bool, error) {
	return blocks.Read(f.dev, f.header.BlockSize, index)
}

// CountBlocks enumerates blocks sequentially from index 0 and returns the
// number of complete blocks stored in the file. A truncated trailing block
// terminates the count the same way a clean end of the device does.
func (f *File) CountBlocks() (int32, error) {
	var count int32
	for {
		_, exists, err := f.Block(count)
		switch {
		case err != nil:
			if errors.Is(err, blocks.ErrOutOfRange) {
				return count, nil
			}
			return 0, err
		case !exists:
			return count, nil
		}
		count++
	}
}

// FreeChain walks the free-block chain starting at the header's first free
// block index and returns the visited indices in chain order. Chains leaving
// the file, passing through a non-empty block or forming a cycle mean the
// file is corrupted.
func (f *File) FreeChain() ([]int32, error) {
	chain := []int32{}
	visited := map[int32]struct{}{}
	for index := f.header.FirstFreeBlock; index != blocks.ChainEnd; {
		if _, exists := visited[index]; exists {
			return nil, errors.Errorf("free-block chain forms a cycle at block %d", index)
		}
		visited[index] = struct{}{}

		// The chain must stay within complete blocks of the file.
		if blocks.Offset(f.header.BlockSize, index)+int64(f.header.BlockSize) > f.dev.Size() {
			return nil, errors.Errorf("free-block chain points to block %d beyond the end of the file", index)
		}

		block, _, err := f.Block(index)
		if err != nil {
			return nil, err
		}
		if !block.Flags.Empty() {
			return nil, errors.Errorf("free-block chain points to non-empty block %d", index)
		}

		chain = append(chain, index)
		index = block.ID
	}
	return chain, nil
}
