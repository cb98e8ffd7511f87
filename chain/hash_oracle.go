package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// orderHashWord is the index of orderHash in the OrderInfo tuple
// (orderStatus, orderHash, orderTakerAssetFilledAmount).
const orderHashWord = 1

// GetOrderInfoSelector is the selector of getOrderInfo(Order).
var GetOrderInfoSelector = GetExchangeABI().Methods["getOrderInfo"].ID

// HashOracle reads the protocol order hash from the exchange contract.
type HashOracle struct {
	caller   Caller
	exchange common.Address
}

// NewHashOracle creates a HashOracle for the given exchange
func NewHashOracle(caller Caller, exchange common.Address) *HashOracle {
	return &HashOracle{caller: caller, exchange: exchange}
}

// GetOrderInfoCallData encodes getOrderInfo for canonical order bytes: the
// selector, one offset word pointing past itself, then the order tuple.
func GetOrderInfoCallData(orderBytes []byte) ([]byte, error) {
	if len(orderBytes) == 0 || len(orderBytes)%WordSize != 0 {
		return nil, fmt.Errorf("%w: length %d", ErrMalformedOrder, len(orderBytes))
	}
	return Concat(GetOrderInfoSelector, EncodeUint64(WordSize), orderBytes), nil
}

// GetOrderHash returns the order hash computed by the exchange contract
func (h *HashOracle) GetOrderHash(ctx context.Context, orderBytes []byte) (common.Hash, error) {
	callData, err := GetOrderInfoCallData(orderBytes)
	if err != nil {
		return common.Hash{}, &HashOracleError{Exchange: h.exchange.Hex(), Err: err}
	}

	result, err := h.caller.CallContract(ctx, h.exchange, callData)
	if err != nil {
		return common.Hash{}, &HashOracleError{Exchange: h.exchange.Hex(), Err: &TransportError{Op: "eth_call getOrderInfo", Err: err}}
	}

	hash, err := orderHashFromResult(result)
	if err != nil {
		return common.Hash{}, &HashOracleError{Exchange: h.exchange.Hex(), Err: err}
	}
	return hash, nil
}

func orderHashFromResult(result []byte) (common.Hash, error) {
	end := (orderHashWord + 1) * WordSize
	if len(result) < end {
		return common.Hash{}, fmt.Errorf("%w: %d bytes", ErrMalformedResult, len(result))
	}
	hash := common.BytesToHash(result[orderHashWord*WordSize : end])
	if hash == (common.Hash{}) {
		return common.Hash{}, ErrZeroOrderHash
	}
	return hash, nil
}
