package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Field is one element of an ABI tuple: either a static 32-byte word or a
// dynamic byte string placed in the tail.
type Field struct {
	name    string
	word    []byte
	data    []byte
	dynamic bool
}

// AddressField is a static address slot.
func AddressField(name string, addr common.Address) Field {
	return Field{name: name, word: EncodeAddress(addr)}
}

// UintField is a static uint256 slot. Range errors surface from EncodeTuple.
func UintField(name string, v *big.Int) Field {
	f := Field{name: name}
	if word, err := EncodeUint256(v); err == nil {
		f.word = word
	}
	return f
}

// BytesField is a dynamic bytes slot.
func BytesField(name string, data []byte) Field {
	return Field{name: name, data: data, dynamic: true}
}

// IsDynamic reports whether the field lives in the tail.
func (f Field) IsDynamic() bool { return f.dynamic }

func (f Field) tailSize() int {
	return WordSize + PaddedLen(len(f.data))
}

// EncodeTuple lays fields out as ABI head/tail: one head slot per field, then
// a tail entry (length word, padded content) per dynamic field in order.
// Offsets are relative to the start of the head region. An empty field list
// encodes to an empty slice.
func EncodeTuple(fields []Field) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	headSize := len(fields) * WordSize
	tailSize := 0
	for _, f := range fields {
		if f.dynamic {
			tailSize += f.tailSize()
		}
	}

	head := make([]byte, 0, headSize)
	tail := make([]byte, 0, tailSize)
	offset := headSize
	for _, f := range fields {
		if !f.dynamic {
			if len(f.word) != WordSize {
				return nil, &EncodingError{Field: f.name, Err: ErrOutOfRange}
			}
			head = append(head, f.word...)
			continue
		}
		head = append(head, EncodeUint64(uint64(offset))...)
		tail = append(tail, EncodeUint64(uint64(len(f.data)))...)
		tail = append(tail, RightZeroPad(common.CopyBytes(f.data), WordSize)...)
		offset += f.tailSize()
	}

	return append(head, tail...), nil
}
