package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Caller performs read-only contract calls.
type Caller interface {
	CallContract(ctx context.Context, contract common.Address, callData []byte) ([]byte, error)
}

// Sender signs and broadcasts state-changing transactions.
type Sender interface {
	SendSignedTransaction(ctx context.Context, senderKey *ecdsa.PrivateKey, contract common.Address, value *big.Int, callData []byte) (common.Hash, error)
}

// Transport is everything the exchange flow needs from a node.
type Transport interface {
	Caller
	Sender
}
