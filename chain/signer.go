package chain

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// SignatureTypeWallet is the trailing signature type byte expected by the exchange.
	SignatureTypeWallet byte = 0x03

	recoveryIDOffset = 27

	// SignaturePayloadLength is v || r || s || type before padding.
	SignaturePayloadLength = 1 + 32 + 32 + 1
)

// OrderSignHash returns keccak256("\x19Ethereum Signed Message:\n32" || orderHash).
func OrderSignHash(orderHash common.Hash) common.Hash {
	return common.BytesToHash(accounts.TextHash(orderHash.Bytes()))
}

// SignOrderHash signs an order hash with the maker's key
func SignOrderHash(key *ecdsa.PrivateKey, orderHash common.Hash) (*Signature, error) {
	if key == nil {
		return nil, &SignatureError{Message: "nil private key"}
	}
	if orderHash == (common.Hash{}) {
		return nil, &SignatureError{Message: "zero order hash"}
	}

	// crypto.Sign returns fixed width [R || S || V] with V in {0, 1}.
	raw, err := crypto.Sign(OrderSignHash(orderHash).Bytes(), key)
	if err != nil {
		return nil, &SignatureError{Message: "failed to sign order hash", Err: err}
	}

	sig := &Signature{
		V:    raw[crypto.RecoveryIDOffset] + recoveryIDOffset,
		Type: SignatureTypeWallet,
	}
	copy(sig.R[:], raw[:32])
	copy(sig.S[:], raw[32:64])
	return sig, nil
}

// Bytes returns v || r || s || type, right padded to a word boundary.
func (s *Signature) Bytes() []byte {
	return RightZeroPad(Concat([]byte{s.V}, s.R[:], s.S[:], []byte{s.Type}), WordSize)
}

// Payload returns v || r || s || type without padding.
func (s *Signature) Payload() []byte {
	return Concat([]byte{s.V}, s.R[:], s.S[:], []byte{s.Type})
}

// ParseSignature reads a signature produced by Signature.Bytes.
func ParseSignature(b []byte) (*Signature, error) {
	if len(b) < SignaturePayloadLength {
		return nil, &SignatureError{Message: "signature too short"}
	}
	for _, pad := range b[SignaturePayloadLength:] {
		if pad != 0 {
			return nil, &SignatureError{Message: "non-zero signature padding"}
		}
	}
	sig := &Signature{V: b[0], Type: b[65]}
	if sig.V != recoveryIDOffset && sig.V != recoveryIDOffset+1 {
		return nil, &SignatureError{Message: "invalid recovery byte"}
	}
	if sig.Type != SignatureTypeWallet {
		return nil, &SignatureError{Message: "unsupported signature type"}
	}
	copy(sig.R[:], b[1:33])
	copy(sig.S[:], b[33:65])
	return sig, nil
}

// RecoverSigner returns the address that produced sig over orderHash.
func RecoverSigner(orderHash common.Hash, sig *Signature) (common.Address, error) {
	raw := make([]byte, crypto.SignatureLength)
	copy(raw[:32], sig.R[:])
	copy(raw[32:64], sig.S[:])
	raw[crypto.RecoveryIDOffset] = sig.V - recoveryIDOffset

	pub, err := crypto.Ecrecover(OrderSignHash(orderHash).Bytes(), raw)
	if err != nil {
		return common.Address{}, &SignatureError{Message: "failed to recover signer", Err: err}
	}
	pubKey, err := crypto.UnmarshalPubkey(pub)
	if err != nil {
		return common.Address{}, &SignatureError{Message: "invalid recovered key", Err: err}
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

// ParsePrivateKey parses a hex private key with or without 0x
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	raw, err := HexDecode(hexKey)
	if err != nil {
		return nil, &SignatureError{Message: "invalid private key hex", Err: err}
	}
	key, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, &SignatureError{Message: "invalid private key", Err: err}
	}
	return key, nil
}
