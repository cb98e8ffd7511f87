package zrxswap

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kaifufi/zrx-swap-go/chain"
)

// receiptWaiter is implemented by transports that can wait for inclusion
type receiptWaiter interface {
	WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Client runs one party's side of a swap between a fixed maker and taker
type Client struct {
	transport chain.Transport
	oracle    *chain.HashOracle
	builder   *chain.OrderBuilder
	exchange  common.Address
	logger    *slog.Logger
	now       func() time.Time
	closer    func()
}

// ClientConfig holds configuration for creating a Client
type ClientConfig struct {
	ChainID ChainID
	RPCURL  string
	Maker   string
	Taker   string

	// ExchangeAddr overrides the chain's default exchange contract
	ExchangeAddr string

	// Transport replaces the RPC-backed transport when set
	Transport chain.Transport
	Logger    *slog.Logger
}

// NewClient creates a new swap client
func NewClient(config ClientConfig) (*Client, error) {
	contracts, ok := DefaultContractAddresses[config.ChainID]
	if !ok {
		return nil, &InvalidParamError{
			Message: fmt.Sprintf("chain_id must be one of %v", SupportedChainIDs),
		}
	}
	if config.ExchangeAddr == "" {
		config.ExchangeAddr = contracts.Exchange
	}
	exchange, err := chain.ParseAddress(config.ExchangeAddr)
	if err != nil {
		return nil, &InvalidParamError{Message: fmt.Sprintf("invalid exchange address: %s", config.ExchangeAddr)}
	}

	builder, err := chain.NewOrderBuilder(config.Maker, config.Taker)
	if err != nil {
		return nil, &InvalidParamError{Message: err.Error()}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := &Client{
		transport: config.Transport,
		builder:   builder,
		exchange:  exchange,
		logger:    logger.With("exchange", exchange.Hex()),
		now:       time.Now,
	}

	if client.transport == nil {
		if config.RPCURL == "" {
			return nil, &InvalidParamError{Message: "rpc_url is required without a transport"}
		}
		caller, err := chain.NewContractCaller(config.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create contract caller: %w", err)
		}
		client.transport = caller
		client.closer = caller.Close
	}

	client.oracle = chain.NewHashOracle(client.transport, exchange)
	return client, nil
}

// Close closes the client and cleans up resources
func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

// Approve lets the asset's proxy move the asset on the owner's behalf.
// The approval must be mined before an order moving the asset is filled.
func (c *Client) Approve(ctx context.Context, ownerKey *ecdsa.PrivateKey, asset chain.Asset) (*TransactionResult, error) {
	callData, err := chain.ApproveCallData(asset)
	if err != nil {
		return nil, err
	}

	txHash, err := c.transport.SendSignedTransaction(ctx, ownerKey, asset.Contract(), new(big.Int), callData)
	if err != nil {
		return nil, fmt.Errorf("approve %s: %w", asset, err)
	}

	c.logger.Info("approval sent",
		"token", asset.Contract().Hex(),
		"proxy", asset.Proxy().Hex(),
		"tx", txHash.Hex(),
	)
	return &TransactionResult{TxHash: txHash.Hex()}, nil
}

// WaitMined waits for a transaction sent by this client to be mined
func (c *Client) WaitMined(ctx context.Context, txHash string) error {
	waiter, ok := c.transport.(receiptWaiter)
	if !ok {
		return errors.New("transport cannot wait for receipts")
	}
	if _, err := waiter.WaitMined(ctx, common.HexToHash(txHash)); err != nil {
		return err
	}
	c.logger.Info("transaction mined", "tx", txHash)
	return nil
}

// MakeOrder builds the canonical order bytes. A nil expiration means
// DefaultOrderTTL from now; a nil salt draws a fresh random salt.
func (c *Client) MakeOrder(makerAsset, takerAsset chain.Asset, expirationTimeSeconds, salt *big.Int) ([]byte, error) {
	if expirationTimeSeconds == nil {
		expirationTimeSeconds = DefaultExpiration(c.now())
	}
	if salt == nil {
		var err error
		if salt, err = chain.NewSalt(); err != nil {
			return nil, err
		}
	}

	orderBytes, err := c.builder.BuildOrderBytes(makerAsset, takerAsset, expirationTimeSeconds, salt)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("order built",
		"maker_asset", makerAsset,
		"taker_asset", takerAsset,
		"expiration", expirationTimeSeconds.String(),
		"bytes", len(orderBytes),
	)
	return orderBytes, nil
}

// GetOrderHash reads the order hash from the exchange contract
func (c *Client) GetOrderHash(ctx context.Context, orderBytes []byte) (common.Hash, error) {
	return c.oracle.GetOrderHash(ctx, orderBytes)
}

// SignOrder signs the order's exchange hash with the maker's key
func (c *Client) SignOrder(ctx context.Context, makerKey *ecdsa.PrivateKey, orderBytes []byte) (*SignedOrder, error) {
	if makerKey == nil {
		return nil, &InvalidParamError{Message: "maker key is required"}
	}
	order, err := chain.DecodeOrder(orderBytes)
	if err != nil {
		return nil, err
	}
	if signer := crypto.PubkeyToAddress(makerKey.PublicKey); signer != order.MakerAddress {
		return nil, fmt.Errorf("%w: key %s, maker %s", ErrWrongMaker, signer.Hex(), order.MakerAddress.Hex())
	}

	orderHash, err := c.oracle.GetOrderHash(ctx, orderBytes)
	if err != nil {
		return nil, err
	}

	sig, err := chain.SignOrderHash(makerKey, orderHash)
	if err != nil {
		return nil, err
	}

	c.logger.Info("order signed", "order_hash", orderHash.Hex())
	return &SignedOrder{Order: orderBytes, Signature: sig.Bytes()}, nil
}

// FillOrder checks a maker's signed order and submits the fill with the
// taker's key. takerAssetFillAmount is one, matching BuildFillCallData.
func (c *Client) FillOrder(ctx context.Context, takerKey *ecdsa.PrivateKey, signed *SignedOrder) (*TransactionResult, error) {
	return c.fillOrder(ctx, takerKey, signed, big.NewInt(1))
}

// FillOrderAmount is FillOrder with an explicit takerAssetFillAmount
func (c *Client) FillOrderAmount(ctx context.Context, takerKey *ecdsa.PrivateKey, signed *SignedOrder, takerAssetFillAmount *big.Int) (*TransactionResult, error) {
	return c.fillOrder(ctx, takerKey, signed, takerAssetFillAmount)
}

func (c *Client) fillOrder(ctx context.Context, takerKey *ecdsa.PrivateKey, signed *SignedOrder, amount *big.Int) (*TransactionResult, error) {
	if takerKey == nil {
		return nil, &InvalidParamError{Message: "taker key is required"}
	}
	if signed == nil {
		return nil, &InvalidParamError{Message: "signed order is required"}
	}

	order, err := chain.DecodeOrder(signed.Order)
	if err != nil {
		return nil, err
	}
	if err := c.ValidateForFill(order, crypto.PubkeyToAddress(takerKey.PublicKey)); err != nil {
		return nil, err
	}

	orderHash, err := c.oracle.GetOrderHash(ctx, signed.Order)
	if err != nil {
		return nil, err
	}
	sig, err := chain.ParseSignature(signed.Signature)
	if err != nil {
		return nil, err
	}
	signer, err := chain.RecoverSigner(orderHash, sig)
	if err != nil {
		return nil, err
	}
	if signer != order.MakerAddress {
		return nil, fmt.Errorf("%w: recovered %s, maker %s", ErrWrongMaker, signer.Hex(), order.MakerAddress.Hex())
	}

	callData, err := chain.BuildFillCallDataAmount(signed.Order, signed.Signature, amount)
	if err != nil {
		return nil, err
	}

	txHash, err := c.transport.SendSignedTransaction(ctx, takerKey, c.exchange, new(big.Int), callData)
	if err != nil {
		return nil, fmt.Errorf("fill order %s: %w", orderHash.Hex(), err)
	}

	c.logger.Info("fill sent",
		"order_hash", orderHash.Hex(),
		"assets", chain.SelectAssetCombination(order.MakerAssetData, order.TakerAssetData).String(),
		"tx", txHash.Hex(),
	)
	return &TransactionResult{TxHash: txHash.Hex()}, nil
}

// ValidateForFill checks that taker may fill the order now
func (c *Client) ValidateForFill(order *chain.Order, taker common.Address) error {
	if order.TakerAddress != (common.Address{}) && order.TakerAddress != taker {
		return fmt.Errorf("%w: key %s, taker %s", ErrWrongTaker, taker.Hex(), order.TakerAddress.Hex())
	}
	if order.Expired(c.now()) {
		return fmt.Errorf("%w at %s", ErrOrderExpired, order.ExpirationTimeSeconds.String())
	}
	return nil
}
