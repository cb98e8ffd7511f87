package chain

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// OrderBuilder builds orders between a fixed maker and taker
type OrderBuilder struct {
	maker common.Address
	taker common.Address
}

// NewOrderBuilder creates a new OrderBuilder
func NewOrderBuilder(maker, taker string) (*OrderBuilder, error) {
	makerAddr, err := ParseAddress(maker)
	if err != nil {
		return nil, &OrderBuildError{Err: fmt.Errorf("maker: %w", err)}
	}
	takerAddr, err := ParseAddress(taker)
	if err != nil {
		return nil, &OrderBuildError{Err: fmt.Errorf("taker: %w", err)}
	}
	return &OrderBuilder{maker: makerAddr, taker: takerAddr}, nil
}

// Maker returns the maker address
func (ob *OrderBuilder) Maker() common.Address { return ob.maker }

// Taker returns the taker address
func (ob *OrderBuilder) Taker() common.Address { return ob.taker }

// BuildOrder assembles an order. Fees are zero and the fee recipient and
// sender are the zero address.
func (ob *OrderBuilder) BuildOrder(makerAsset, takerAsset Asset, expirationTimeSeconds, salt *big.Int) (*Order, error) {
	if makerAsset == nil || takerAsset == nil {
		return nil, &OrderBuildError{Err: &EncodingError{Field: "assetData", Err: ErrUnknownAsset}}
	}
	if salt == nil {
		return nil, &OrderBuildError{Err: &EncodingError{Field: "salt", Err: ErrOutOfRange}}
	}
	if expirationTimeSeconds == nil {
		return nil, &OrderBuildError{Err: &EncodingError{Field: "expirationTimeSeconds", Err: ErrOutOfRange}}
	}

	makerAssetData, err := makerAsset.AssetData()
	if err != nil {
		return nil, &OrderBuildError{Err: err}
	}
	takerAssetData, err := takerAsset.AssetData()
	if err != nil {
		return nil, &OrderBuildError{Err: err}
	}

	order := &Order{
		MakerAddress:          ob.maker,
		TakerAddress:          ob.taker,
		FeeRecipientAddress:   common.Address{},
		SenderAddress:         common.Address{},
		MakerAssetAmount:      makerAsset.TransferAmount(),
		TakerAssetAmount:      takerAsset.TransferAmount(),
		MakerFee:              new(big.Int),
		TakerFee:              new(big.Int),
		ExpirationTimeSeconds: new(big.Int).Set(expirationTimeSeconds),
		Salt:                  new(big.Int).Set(salt),
		MakerAssetData:        makerAssetData,
		TakerAssetData:        takerAssetData,
	}

	// Surface range errors now rather than at hashing time.
	if _, err := order.Encode(); err != nil {
		return nil, err
	}
	return order, nil
}

// BuildOrderBytes builds an order and returns its canonical encoding
func (ob *OrderBuilder) BuildOrderBytes(makerAsset, takerAsset Asset, expirationTimeSeconds, salt *big.Int) ([]byte, error) {
	order, err := ob.BuildOrder(makerAsset, takerAsset, expirationTimeSeconds, salt)
	if err != nil {
		return nil, err
	}
	return order.Encode()
}

// Fields returns the order as tuple fields in protocol order.
func (o *Order) Fields() []Field {
	return []Field{
		AddressField("makerAddress", o.MakerAddress),
		AddressField("takerAddress", o.TakerAddress),
		AddressField("feeRecipientAddress", o.FeeRecipientAddress),
		AddressField("senderAddress", o.SenderAddress),
		UintField("makerAssetAmount", o.MakerAssetAmount),
		UintField("takerAssetAmount", o.TakerAssetAmount),
		UintField("makerFee", o.MakerFee),
		UintField("takerFee", o.TakerFee),
		UintField("expirationTimeSeconds", o.ExpirationTimeSeconds),
		UintField("salt", o.Salt),
		BytesField("makerAssetData", o.MakerAssetData),
		BytesField("takerAssetData", o.TakerAssetData),
	}
}

// Encode returns the canonical tuple encoding of the order
func (o *Order) Encode() ([]byte, error) {
	encoded, err := EncodeTuple(o.Fields())
	if err != nil {
		return nil, &OrderBuildError{Err: err}
	}
	return encoded, nil
}

// MakerAsset decodes the maker asset data
func (o *Order) MakerAsset() (Asset, error) {
	return DecodeAssetData(o.MakerAssetData, o.MakerAssetAmount)
}

// TakerAsset decodes the taker asset data
func (o *Order) TakerAsset() (Asset, error) {
	return DecodeAssetData(o.TakerAssetData, o.TakerAssetAmount)
}

// Expired reports whether the order has expired at now
func (o *Order) Expired(now time.Time) bool {
	return o.ExpirationTimeSeconds.Cmp(big.NewInt(now.Unix())) <= 0
}

// DecodeOrder parses canonical order bytes. Input that would not re-encode to
// the same bytes is rejected.
func DecodeOrder(encoded []byte) (*Order, error) {
	method := GetExchangeABI().Methods["getOrderInfo"]

	// The order is a dynamic tuple, so as the sole argument it sits behind
	// a single offset word.
	values, err := method.Inputs.Unpack(Concat(EncodeUint64(WordSize), encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOrder, err)
	}
	if len(values) != 1 {
		return nil, ErrMalformedOrder
	}
	order := abi.ConvertType(values[0], new(Order)).(*Order)

	reencoded, err := order.Encode()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOrder, err)
	}
	if !bytes.Equal(reencoded, encoded) {
		return nil, fmt.Errorf("%w: non-canonical encoding", ErrMalformedOrder)
	}
	return order, nil
}

// NewSalt returns a uniformly random 256-bit salt
func NewSalt() (*big.Int, error) {
	salt, err := rand.Int(rand.Reader, new(big.Int).Add(math.MaxBig256, common.Big1))
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}
