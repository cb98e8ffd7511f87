package chain

import (
	"bytes"
	"fmt"
	"math/big"
)

// FillOrderSelector is the selector of fillOrder(Order,uint256,bytes).
var FillOrderSelector = GetExchangeABI().Methods["fillOrder"].ID

// AssetCombination classifies the asset classes referenced by an order.
type AssetCombination int

const (
	// AssetsOther covers fungible-only orders and unknown asset data.
	AssetsOther AssetCombination = iota
	// AssetsNonFungibleOnly is an order where every side is non-fungible.
	AssetsNonFungibleOnly
	// AssetsMixed has a non-fungible and a fungible side.
	AssetsMixed
)

func (c AssetCombination) String() string {
	switch c {
	case AssetsMixed:
		return "nft+ft"
	case AssetsNonFungibleOnly:
		return "nft"
	default:
		return "other"
	}
}

// nibble is the exchange's per-combination hint carried in the third head
// word of fillOrder call data.
func (c AssetCombination) nibble() uint64 {
	switch c {
	case AssetsMixed:
		return 0xc
	case AssetsNonFungibleOnly:
		return 0xe
	default:
		return 0xa
	}
}

// SelectAssetCombination inspects the proxy ids of both asset data fields.
func SelectAssetCombination(makerAssetData, takerAssetData []byte) AssetCombination {
	hasNFT := bytes.HasPrefix(makerAssetData, ERC721ProxyID) || bytes.HasPrefix(takerAssetData, ERC721ProxyID)
	hasFT := bytes.HasPrefix(makerAssetData, ERC20ProxyID) || bytes.HasPrefix(takerAssetData, ERC20ProxyID)
	switch {
	case hasNFT && hasFT:
		return AssetsMixed
	case hasNFT:
		return AssetsNonFungibleOnly
	default:
		return AssetsOther
	}
}

// signatureOffsetWord is 0x2?0 with the combination's nibble in place of ?.
func signatureOffsetWord(c AssetCombination) uint64 {
	return 0x200 | c.nibble()<<4
}

// BuildFillCallData builds fillOrder call data with a taker fill amount of one.
func BuildFillCallData(orderBytes, signatureBytes []byte) ([]byte, error) {
	return BuildFillCallDataAmount(orderBytes, signatureBytes, big.NewInt(1))
}

// BuildFillCallDataAmount builds fillOrder call data: selector, order offset,
// takerAssetFillAmount, signature offset, order tuple, signature length and
// padded signature. The signature offset word comes from the asset
// combination and must agree with the real layout.
func BuildFillCallDataAmount(orderBytes, signatureBytes []byte, takerAssetFillAmount *big.Int) ([]byte, error) {
	order, err := DecodeOrder(orderBytes)
	if err != nil {
		return nil, &FillError{Message: err.Error()}
	}
	sig, err := ParseSignature(signatureBytes)
	if err != nil {
		return nil, &FillError{Message: err.Error()}
	}
	fillAmount, err := EncodeUint256(takerAssetFillAmount)
	if err != nil {
		return nil, &FillError{Message: fmt.Sprintf("takerAssetFillAmount: %v", err)}
	}

	combination := SelectAssetCombination(order.MakerAssetData, order.TakerAssetData)
	sigOffset := signatureOffsetWord(combination)

	headSize := uint64(3 * WordSize)
	if want := headSize + uint64(len(orderBytes)); sigOffset != want {
		return nil, &FillError{Message: fmt.Sprintf("%s order has signature offset %#x, layout needs %#x", combination, sigOffset, want)}
	}

	return Concat(
		FillOrderSelector,
		EncodeUint64(headSize),
		fillAmount,
		EncodeUint64(sigOffset),
		orderBytes,
		EncodeUint64(SignaturePayloadLength),
		sig.Bytes(),
	), nil
}
