package params

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/outofforest/blockfile/header"
)

// ErrTruncated is returned when the file ends in the middle of a parameter
// entry. No partial table is ever produced.
var ErrTruncated = errors.New("file is too short to contain the parameter table")

// Params is the decoded user-defined parameter table. It preserves the order
// in which names appear in the file while allowing lookup by name.
//
// If a name repeats, the later value overwrites the earlier one and the name
// keeps its original position. Whether duplicates are legal in the format is
// undetermined, so they are preserved rather than rejected.
type Params struct {
	names  []string
	values map[string]int32
}

// Len returns the number of distinct parameter names.
func (p Params) Len() int {
	return len(p.names)
}

// Names returns parameter names in file order.
func (p Params) Names() []string {
	names := make([]string, len(p.names))
	copy(names, p.names)
	return names
}

// Value returns the value stored under the name.
func (p Params) Value(name string) (int32, bool) {
	v, exists := p.values[name]
	return v, exists
}

// Read decodes count parameter entries stored right after the header. Each
// entry is a 4-byte big-endian name length, the UTF-8 name bytes and a 4-byte
// big-endian value.
func Read(dev io.ReadSeeker, count int32) (Params, error) {
	if _, err := dev.Seek(header.Size, io.SeekStart); err != nil {
		return Params{}, errors.WithStack(err)
	}

	// A negative count decodes to an empty table, same as a zero one.
	if count < 0 {
		count = 0
	}

	p := Params{
		names:  make([]string, 0, count),
		values: make(map[string]int32, count),
	}
	for i := int32(0); i < count; i++ {
		var field [4]byte
		if _, err := io.ReadFull(dev, field[:]); err != nil {
			return Params{}, errors.Wrapf(ErrTruncated, "name length of parameter %d", i)
		}
		nameLength := int32(binary.BigEndian.Uint32(field[:]))
		if nameLength < 0 {
			// A negative length can never be satisfied by the remaining bytes.
			return Params{}, errors.Wrapf(ErrTruncated, "name length of parameter %d is negative: %d", i, nameLength)
		}

		name := make([]byte, nameLength)
		if _, err := io.ReadFull(dev, name); err != nil {
			return Params{}, errors.Wrapf(ErrTruncated, "name of parameter %d", i)
		}

		if _, err := io.ReadFull(dev, field[:]); err != nil {
			return Params{}, errors.Wrapf(ErrTruncated, "value of parameter %d", i)
		}

		key := string(name)
		if _, exists := p.values[key]; !exists {
			p.names = append(p.names, key)
		}
		p.values[key] = int32(binary.BigEndian.Uint32(field[:]))
	}

	return p, nil
}
