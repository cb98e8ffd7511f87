package zrxswap

import (
	"encoding/json"
	"fmt"

	"github.com/kaifufi/zrx-swap-go/chain"
)

// TransactionResult represents the result of a blockchain transaction
type TransactionResult struct {
	TxHash string
}

// SignedOrder is what the maker hands to the taker out of band
type SignedOrder struct {
	Order     []byte
	Signature []byte
}

type signedOrderJSON struct {
	Order     string `json:"order"`
	Signature string `json:"signature"`
}

// OrderHex returns the 0x-prefixed order encoding
func (s *SignedOrder) OrderHex() string { return chain.HexEncode(s.Order) }

// SignatureHex returns the 0x-prefixed signature encoding
func (s *SignedOrder) SignatureHex() string { return chain.HexEncode(s.Signature) }

// MarshalJSON encodes both fields as 0x-prefixed hex
func (s SignedOrder) MarshalJSON() ([]byte, error) {
	return json.Marshal(signedOrderJSON{
		Order:     chain.HexEncode(s.Order),
		Signature: chain.HexEncode(s.Signature),
	})
}

// UnmarshalJSON accepts hex with or without a 0x prefix
func (s *SignedOrder) UnmarshalJSON(data []byte) error {
	var raw signedOrderJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	order, err := chain.HexDecode(raw.Order)
	if err != nil {
		return fmt.Errorf("order: %w", err)
	}
	signature, err := chain.HexDecode(raw.Signature)
	if err != nil {
		return fmt.Errorf("signature: %w", err)
	}
	s.Order = order
	s.Signature = signature
	return nil
}
