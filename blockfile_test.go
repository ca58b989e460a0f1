package blockfile_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/blockfile"
	"github.com/outofforest/blockfile/blocks"
	"github.com/outofforest/blockfile/header"
	headerV1 "github.com/outofforest/blockfile/header/v1"
	"github.com/outofforest/blockfile/params"
	"github.com/outofforest/blockfile/pkg/memdev"
)

func TestOpen(t *testing.T) {
	requireT := require.New(t)

	h := headerV1.Header{
		MagicNumber:    0x1122334455667788,
		FileID:         99,
		Version:        headerV1.SchemaVersion,
		BlockSize:      64,
		FirstFreeBlock: -1,
		ParamCount:     1,
	}
	data := newFile(h, appendParam(nil, "x", 7), appendBlock(nil, h.BlockSize, 0x00, 5, nil))

	f, err := blockfile.Open(memdev.NewFromBytes(data))
	requireT.NoError(err)

	requireT.Equal(h, f.Header())
	requireT.EqualValues(64, f.Header().BlockSize)
	requireT.EqualValues(1, f.Header().ParamCount)

	p := f.Params()
	requireT.EqualValues(1, p.Len())
	requireT.Equal([]string{"x"}, p.Names())
	v, exists := p.Value("x")
	requireT.True(exists)
	requireT.EqualValues(7, v)

	block, exists, err := f.Block(0)
	requireT.NoError(err)
	requireT.True(exists)
	requireT.False(block.Flags.Empty())
	requireT.EqualValues(5, block.ID)
	requireT.Len(block.Payload, 59)
	for _, b := range block.Payload {
		requireT.EqualValues(0, b)
	}

	_, exists, err = f.Block(1)
	requireT.NoError(err)
	requireT.False(exists)

	count, err := f.CountBlocks()
	requireT.NoError(err)
	requireT.EqualValues(1, count)
}

func TestOpenTruncatedHeader(t *testing.T) {
	requireT := require.New(t)

	_, err := blockfile.Open(memdev.New(header.Size - 1))
	requireT.ErrorIs(err, header.ErrTruncated)
}

func TestOpenUnsupportedVersion(t *testing.T) {
	requireT := require.New(t)

	raw := headerV1.Header{Version: 3, BlockSize: 64}.Encode()
	_, err := blockfile.Open(memdev.NewFromBytes(raw[:]))
	requireT.ErrorIs(err, header.ErrUnsupportedVersion)
}

func TestOpenTruncatedParams(t *testing.T) {
	requireT := require.New(t)

	// The file ends right after the first of two declared parameters, with no
	// padding which could be mistaken for the second one.
	h := headerV1.Header{Version: headerV1.SchemaVersion, BlockSize: 64, FirstFreeBlock: -1, ParamCount: 2}
	raw := h.Encode()
	data := append([]byte{}, raw[:]...)
	data = appendParam(data, "x", 7)

	_, err := blockfile.Open(memdev.NewFromBytes(data))
	requireT.ErrorIs(err, params.ErrTruncated)
}

func TestCountBlocksAccounting(t *testing.T) {
	requireT := require.New(t)

	const blockSize = 32
	h := headerV1.Header{Version: headerV1.SchemaVersion, BlockSize: blockSize, FirstFreeBlock: -1}

	// Three full blocks are counted as three.
	var table []byte
	blocksData := appendBlock(nil, blockSize, 0x00, 1, nil)
	blocksData = appendBlock(blocksData, blockSize, 0x00, 2, nil)
	blocksData = appendBlock(blocksData, blockSize, 0x00, 3, nil)

	f, err := blockfile.Open(memdev.NewFromBytes(newFile(h, table, blocksData)))
	requireT.NoError(err)
	count, err := f.CountBlocks()
	requireT.NoError(err)
	requireT.EqualValues(3, count)

	// A truncated trailing block terminates the count without an error.
	truncated := append(newFile(h, table, blocksData), 0x00, 0x00, 0x00)
	f, err = blockfile.Open(memdev.NewFromBytes(truncated))
	requireT.NoError(err)
	count, err = f.CountBlocks()
	requireT.NoError(err)
	requireT.EqualValues(3, count)
}

func TestCountBlocksNone(t *testing.T) {
	requireT := require.New(t)

	h := headerV1.Header{Version: headerV1.SchemaVersion, BlockSize: 64, FirstFreeBlock: -1}
	f, err := blockfile.Open(memdev.NewFromBytes(newFile(h, nil)))
	requireT.NoError(err)

	count, err := f.CountBlocks()
	requireT.NoError(err)
	requireT.EqualValues(0, count)
}

func TestFreeChain(t *testing.T) {
	requireT := require.New(t)

	const blockSize = 32
	h := headerV1.Header{Version: headerV1.SchemaVersion, BlockSize: blockSize, FirstFreeBlock: 2}

	// Chain: 2 -> 0 -> end. Block 1 is in use.
	blocksData := appendBlock(nil, blockSize, 0x01, blocks.ChainEnd, nil)
	blocksData = appendBlock(blocksData, blockSize, 0x00, 42, nil)
	blocksData = appendBlock(blocksData, blockSize, 0x01, 0, nil)

	f, err := blockfile.Open(memdev.NewFromBytes(newFile(h, nil, blocksData)))
	requireT.NoError(err)

	chain, err := f.FreeChain()
	requireT.NoError(err)
	requireT.Equal([]int32{2, 0}, chain)
}

func TestFreeChainEmpty(t *testing.T) {
	requireT := require.New(t)

	h := headerV1.Header{Version: headerV1.SchemaVersion, BlockSize: 64, FirstFreeBlock: -1}
	f, err := blockfile.Open(memdev.NewFromBytes(newFile(h, nil)))
	requireT.NoError(err)

	chain, err := f.FreeChain()
	requireT.NoError(err)
	requireT.Empty(chain)
}

func TestFreeChainCycle(t *testing.T) {
	requireT := require.New(t)

	const blockSize = 32
	h := headerV1.Header{Version: headerV1.SchemaVersion, BlockSize: blockSize, FirstFreeBlock: 0}

	// Chain: 0 -> 1 -> 0.
	blocksData := appendBlock(nil, blockSize, 0x01, 1, nil)
	blocksData = appendBlock(blocksData, blockSize, 0x01, 0, nil)

	f, err := blockfile.Open(memdev.NewFromBytes(newFile(h, nil, blocksData)))
	requireT.NoError(err)

	_, err = f.FreeChain()
	requireT.Error(err)
}

func TestFreeChainNonEmptyBlock(t *testing.T) {
	requireT := require.New(t)

	const blockSize = 32
	h := headerV1.Header{Version: headerV1.SchemaVersion, BlockSize: blockSize, FirstFreeBlock: 0}

	blocksData := appendBlock(nil, blockSize, 0x00, 42, nil)

	f, err := blockfile.Open(memdev.NewFromBytes(newFile(h, nil, blocksData)))
	requireT.NoError(err)

	_, err = f.FreeChain()
	requireT.Error(err)
}

func TestFreeChainBeyondEnd(t *testing.T) {
	requireT := require.New(t)

	const blockSize = 32
	h := headerV1.Header{Version: headerV1.SchemaVersion, BlockSize: blockSize, FirstFreeBlock: 5}

	blocksData := appendBlock(nil, blockSize, 0x01, blocks.ChainEnd, nil)

	f, err := blockfile.Open(memdev.NewFromBytes(newFile(h, nil, blocksData)))
	requireT.NoError(err)

	_, err = f.FreeChain()
	requireT.Error(err)
}

// newFile assembles a block file image: header block padded to the block
// size, with the parameter table right after the 32 header bytes, followed by
// the encoded data blocks.
func newFile(h headerV1.Header, table []byte, dataBlocks ...[]byte) []byte {
	raw := h.Encode()
	data := append([]byte{}, raw[:]...)
	data = append(data, table...)
	if pad := int(h.BlockSize) - len(data); pad > 0 {
		data = append(data, make([]byte, pad)...)
	}
	for _, b := range dataBlocks {
		data = append(data, b...)
	}
	return data
}

func appendParam(table []byte, name string, value int32) []byte {
	table = binary.BigEndian.AppendUint32(table, uint32(len(name)))
	table = append(table, name...)
	return binary.BigEndian.AppendUint32(table, uint32(value))
}

func appendBlock(data []byte, blockSize int32, flags blocks.Flags, id int32, payload []byte) []byte {
	data = append(data, byte(flags))
	data = binary.BigEndian.AppendUint32(data, uint32(id))
	data = append(data, payload...)
	return append(data, make([]byte, int(blockSize)-blocks.PrefixSize-len(payload))...)
}
