package chain

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Asset proxy ids: the selectors of the proxy-id pseudo functions.
var (
	ERC721ProxyID = Selector("ERC721Token(address,uint256)")
	ERC20ProxyID  = Selector("ERC20Token(address)")
)

// Mainnet asset proxy contracts.
var (
	DefaultERC721Proxy = common.HexToAddress("0x208e41fb445f1bb1b6780d58356e81405f3e6127")
	DefaultERC20Proxy  = common.HexToAddress("0x2240Dab907db71e64d3E0dbA4800c83B5C502d4E")
)

// Selector returns the first 4 bytes of keccak256(signature).
func Selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

// Asset is a closed sum of NonFungible and Fungible. The unexported method
// keeps other packages from adding variants.
type Asset interface {
	// Contract is the token contract the asset lives in.
	Contract() common.Address
	// Proxy is the exchange asset proxy that moves this asset class.
	Proxy() common.Address
	// TransferAmount is the amount placed in the order.
	TransferAmount() *big.Int
	// ApprovalValue is the second argument of the token's approve call.
	ApprovalValue() *big.Int
	// AssetData is the padded proxy-id encoding embedded in the order.
	AssetData() ([]byte, error)

	isAsset()
}

// NonFungible is an ERC721 token.
type NonFungible struct {
	ContractAddress common.Address
	TokenID         *big.Int
}

// Fungible is an ERC20 amount.
type Fungible struct {
	ContractAddress common.Address
	Amount          *big.Int
}

// NewNonFungible parses a contract address and validates tokenID.
func NewNonFungible(contract string, tokenID *big.Int) (NonFungible, error) {
	addr, err := ParseAddress(contract)
	if err != nil {
		return NonFungible{}, err
	}
	if _, err := EncodeUint256(tokenID); err != nil {
		return NonFungible{}, &EncodingError{Field: "tokenId", Err: ErrOutOfRange}
	}
	return NonFungible{ContractAddress: addr, TokenID: new(big.Int).Set(tokenID)}, nil
}

// NewFungible parses a contract address and validates amount.
func NewFungible(contract string, amount *big.Int) (Fungible, error) {
	addr, err := ParseAddress(contract)
	if err != nil {
		return Fungible{}, err
	}
	if _, err := EncodeUint256(amount); err != nil {
		return Fungible{}, &EncodingError{Field: "amount", Err: ErrOutOfRange}
	}
	return Fungible{ContractAddress: addr, Amount: new(big.Int).Set(amount)}, nil
}

func (NonFungible) isAsset() {}
func (Fungible) isAsset()    {}

func (a NonFungible) Contract() common.Address { return a.ContractAddress }
func (a Fungible) Contract() common.Address    { return a.ContractAddress }

func (NonFungible) Proxy() common.Address { return DefaultERC721Proxy }
func (Fungible) Proxy() common.Address    { return DefaultERC20Proxy }

// TransferAmount is always one for a non-fungible token.
func (NonFungible) TransferAmount() *big.Int { return big.NewInt(1) }
func (a Fungible) TransferAmount() *big.Int  { return bigOrZero(a.Amount) }

func (a NonFungible) ApprovalValue() *big.Int { return bigOrZero(a.TokenID) }
func (a Fungible) ApprovalValue() *big.Int    { return bigOrZero(a.Amount) }

func (a NonFungible) AssetData() ([]byte, error) {
	id, err := EncodeUint256(a.TokenID)
	if err != nil {
		return nil, &EncodingError{Field: "tokenId", Err: ErrOutOfRange}
	}
	return RightZeroPad(Concat(ERC721ProxyID, EncodeAddress(a.ContractAddress), id), WordSize), nil
}

func (a Fungible) AssetData() ([]byte, error) {
	return RightZeroPad(Concat(ERC20ProxyID, EncodeAddress(a.ContractAddress)), WordSize), nil
}

func (a NonFungible) String() string {
	return fmt.Sprintf("ERC721(%s #%s)", a.ContractAddress.Hex(), bigOrZero(a.TokenID))
}

func (a Fungible) String() string {
	return fmt.Sprintf("ERC20(%s x %s)", a.ContractAddress.Hex(), bigOrZero(a.Amount))
}

// DecodeAssetData parses padded asset data back into an Asset. The fungible
// amount is not part of the asset data and must be supplied from the order.
func DecodeAssetData(data []byte, amount *big.Int) (Asset, error) {
	if len(data) < 4 {
		return nil, &EncodingError{Field: "assetData", Err: ErrUnknownAsset}
	}
	id, args := data[:4], data[4:]
	switch {
	case bytes.Equal(id, ERC721ProxyID):
		if len(args) < 2*WordSize {
			return nil, &EncodingError{Field: "assetData", Err: ErrUnknownAsset}
		}
		return NonFungible{
			ContractAddress: common.BytesToAddress(args[:WordSize]),
			TokenID:         new(big.Int).SetBytes(args[WordSize : 2*WordSize]),
		}, nil
	case bytes.Equal(id, ERC20ProxyID):
		if len(args) < WordSize {
			return nil, &EncodingError{Field: "assetData", Err: ErrUnknownAsset}
		}
		return Fungible{
			ContractAddress: common.BytesToAddress(args[:WordSize]),
			Amount:          bigOrZero(amount),
		}, nil
	}
	return nil, &EncodingError{Field: "assetData", Err: ErrUnknownAsset}
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
