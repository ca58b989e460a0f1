package blocks

// PrefixSize is the number of bytes occupied by the block prefix:
// 1 flag byte followed by a 4-byte big-endian block ID.
const PrefixSize = 5

// ChainEnd terminates the free-block chain.
const ChainEnd int32 = -1

// Flags is the flag byte stored at the beginning of each block.
type Flags byte

// Flag bits.
const (
	// FlagEmpty marks the block as a member of the free-block chain.
	FlagEmpty Flags = 1 << 0
)

// Empty returns true if the block belongs to the free-block chain.
func (f Flags) Empty() bool {
	return f&FlagEmpty != 0
}

// Block is a read-only view of one data block.
//
// ID is a caller-defined identifier when the block is not empty. When the
// block is empty it holds the index of the next block in the free-block
// chain, or ChainEnd for the last one.
type Block struct {
	Flags   Flags
	ID      int32
	Payload []byte
}
