package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// WordSize is the width of every ABI head slot.
const WordSize = 32

// EncodeAddress left pads a 20-byte address into a 32-byte word.
func EncodeAddress(addr common.Address) []byte {
	return common.LeftPadBytes(addr.Bytes(), WordSize)
}

// EncodeUint256 encodes v as a 32-byte big-endian word.
// Negative values and values above 2^256-1 are rejected with ErrOutOfRange.
func EncodeUint256(v *big.Int) ([]byte, error) {
	if v == nil || v.Sign() < 0 {
		return nil, &EncodingError{Err: ErrOutOfRange}
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, &EncodingError{Err: ErrOutOfRange}
	}
	word := u.Bytes32()
	return word[:], nil
}

// EncodeUint64 encodes a length or offset as a 32-byte word.
func EncodeUint64(v uint64) []byte {
	word := uint256.NewInt(v).Bytes32()
	return word[:]
}

// DecodeUint256 reads a 32-byte big-endian word.
func DecodeUint256(word []byte) (*big.Int, error) {
	if len(word) != WordSize {
		return nil, &EncodingError{Err: ErrOutOfRange}
	}
	return new(big.Int).SetBytes(word), nil
}

// RightZeroPad appends zero bytes until len(b) is a multiple of blockSize.
// Existing content is never truncated.
func RightZeroPad(b []byte, blockSize int) []byte {
	if blockSize <= 0 {
		return b
	}
	rem := len(b) % blockSize
	if rem == 0 {
		return b
	}
	return common.RightPadBytes(b, len(b)+blockSize-rem)
}

// PaddedLen rounds n up to a multiple of WordSize.
func PaddedLen(n int) int {
	return (n + WordSize - 1) / WordSize * WordSize
}

// Concat joins byte slices into a freshly allocated slice.
func Concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// HexEncode returns the 0x-prefixed lowercase hex form of b.
func HexEncode(b []byte) string {
	return hexutil.Encode(b)
}

// HexDecode accepts hex with or without a 0x prefix, in any case.
func HexDecode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if has0xPrefix(s) {
		s = s[2:]
	}
	b, err := hexutil.Decode("0x" + s)
	if err != nil {
		return nil, &EncodingError{Field: "hex", Err: ErrInvalidHex}
	}
	return b, nil
}

// ParseAddress validates a hex address string. Unlike common.HexToAddress it
// refuses input that is not exactly 20 bytes.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(strings.TrimSpace(s)) {
		return common.Address{}, &EncodingError{Field: "address", Err: ErrInvalidAddress}
	}
	return common.HexToAddress(strings.TrimSpace(s)), nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
