package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Order is the exchange's order struct. Field order is fixed by the protocol
// and matches the exchange ABI component order below.
type Order struct {
	MakerAddress          common.Address
	TakerAddress          common.Address
	FeeRecipientAddress   common.Address
	SenderAddress         common.Address
	MakerAssetAmount      *big.Int
	TakerAssetAmount      *big.Int
	MakerFee              *big.Int
	TakerFee              *big.Int
	ExpirationTimeSeconds *big.Int
	Salt                  *big.Int
	MakerAssetData        []byte
	TakerAssetData        []byte
}

// Signature is an ECDSA signature in the exchange's layout.
type Signature struct {
	V    byte // 27 + recovery id
	R    [32]byte
	S    [32]byte
	Type byte
}

const orderComponentsJSON = `[
	{"name": "makerAddress", "type": "address"},
	{"name": "takerAddress", "type": "address"},
	{"name": "feeRecipientAddress", "type": "address"},
	{"name": "senderAddress", "type": "address"},
	{"name": "makerAssetAmount", "type": "uint256"},
	{"name": "takerAssetAmount", "type": "uint256"},
	{"name": "makerFee", "type": "uint256"},
	{"name": "takerFee", "type": "uint256"},
	{"name": "expirationTimeSeconds", "type": "uint256"},
	{"name": "salt", "type": "uint256"},
	{"name": "makerAssetData", "type": "bytes"},
	{"name": "takerAssetData", "type": "bytes"}
]`

// Exchange ABI JSON for getOrderInfo and fillOrder
const exchangeABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"name": "order", "type": "tuple", "components": ` + orderComponentsJSON + `}
		],
		"name": "getOrderInfo",
		"outputs": [
			{"name": "orderInfo", "type": "tuple", "components": [
				{"name": "orderStatus", "type": "uint8"},
				{"name": "orderHash", "type": "bytes32"},
				{"name": "orderTakerAssetFilledAmount", "type": "uint256"}
			]}
		],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "order", "type": "tuple", "components": ` + orderComponentsJSON + `},
			{"name": "takerAssetFillAmount", "type": "uint256"},
			{"name": "signature", "type": "bytes"}
		],
		"name": "fillOrder",
		"outputs": [],
		"type": "function"
	}
]`

// Token ABI JSON for approve. ERC20 and ERC721 share the same selector.
const tokenABIJSON = `[
	{
		"constant": false,
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "value", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [],
		"type": "function"
	}
]`

// GetExchangeABI returns the parsed exchange ABI
func GetExchangeABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(exchangeABIJSON))
	if err != nil {
		panic("failed to parse exchange ABI: " + err.Error())
	}
	return parsed
}

// GetTokenABI returns the parsed token ABI
func GetTokenABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(tokenABIJSON))
	if err != nil {
		panic("failed to parse token ABI: " + err.Error())
	}
	return parsed
}
