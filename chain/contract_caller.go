package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	defaultReceiptTimeout = 120 * time.Second
	receiptPollInterval   = 2 * time.Second
	// gasMarginPercent is added on top of the node's gas estimate
	gasMarginPercent = 20
)

// backend is the subset of *ethclient.Client used by ContractCaller
type backend interface {
	ethereum.ContractCaller
	ethereum.GasEstimator
	ethereum.GasPricer
	ethereum.TransactionSender
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// ContractCaller is the node-backed Transport
type ContractCaller struct {
	client  backend
	closer  func()
	chainID *big.Int
	mu      sync.Mutex
}

// NewContractCaller dials the node at rpcURL
func NewContractCaller(rpcURL string) (*ContractCaller, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	return &ContractCaller{client: client, closer: client.Close}, nil
}

func newContractCaller(client backend) *ContractCaller {
	return &ContractCaller{client: client}
}

// CallContract performs eth_call against the latest block
func (cc *ContractCaller) CallContract(ctx context.Context, contract common.Address, callData []byte) ([]byte, error) {
	result, err := cc.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: callData,
	}, nil)
	if err != nil {
		return nil, &TransportError{Op: "eth_call", Err: err}
	}
	return result, nil
}

// SendSignedTransaction signs a legacy EIP-155 transaction with senderKey and
// broadcasts it. Nonce, gas price and gas limit come from the node.
func (cc *ContractCaller) SendSignedTransaction(ctx context.Context, senderKey *ecdsa.PrivateKey, contract common.Address, value *big.Int, callData []byte) (common.Hash, error) {
	if senderKey == nil {
		return common.Hash{}, &SignatureError{Message: "nil sender key"}
	}
	if value == nil {
		value = new(big.Int)
	}
	from := crypto.PubkeyToAddress(senderKey.PublicKey)

	chainID, err := cc.ChainID(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	nonce, err := cc.client.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, &TransportError{Op: "get nonce", Err: err}
	}

	gasPrice, err := cc.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, &TransportError{Op: "get gas price", Err: err}
	}

	gas, err := cc.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &contract,
		Value: value,
		Data:  callData,
	})
	if err != nil {
		return common.Hash{}, &TransportError{Op: "estimate gas", Err: err}
	}
	gas += gas * gasMarginPercent / 100

	if err := cc.CheckGasBalance(ctx, from, gas, gasPrice, value); err != nil {
		return common.Hash{}, err
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &contract,
		Value:    value,
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     callData,
	})

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(chainID), senderKey)
	if err != nil {
		return common.Hash{}, &SignatureError{Message: "failed to sign transaction", Err: err}
	}

	if err := cc.client.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, &TransportError{Op: "send transaction", Err: err}
	}
	return signedTx.Hash(), nil
}

// ChainID returns the node's chain id, cached after the first call
func (cc *ContractCaller) ChainID(ctx context.Context) (*big.Int, error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.chainID != nil {
		return cc.chainID, nil
	}
	chainID, err := cc.client.ChainID(ctx)
	if err != nil {
		return nil, &TransportError{Op: "get chain ID", Err: err}
	}
	cc.chainID = chainID
	return chainID, nil
}

// CheckGasBalance checks that from can pay gas*gasPrice + value
func (cc *ContractCaller) CheckGasBalance(ctx context.Context, from common.Address, gas uint64, gasPrice, value *big.Int) error {
	balance, err := cc.client.BalanceAt(ctx, from, nil)
	if err != nil {
		return &TransportError{Op: "get balance", Err: err}
	}

	required := new(big.Int).Mul(new(big.Int).SetUint64(gas), gasPrice)
	required.Add(required, value)

	if balance.Cmp(required) < 0 {
		return fmt.Errorf("insufficient gas balance: %s has %s wei, needs %s wei",
			from.Hex(),
			balance.String(),
			required.String(),
		)
	}
	return nil
}

// WaitMined polls for the receipt of txHash and fails on a reverted transaction
func (cc *ContractCaller) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, defaultReceiptTimeout)
	defer cancel()

	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := cc.client.TransactionReceipt(timeoutCtx, txHash)
		if err == nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return receipt, fmt.Errorf("transaction reverted: %s", txHash.Hex())
			}
			return receipt, nil
		}

		select {
		case <-timeoutCtx.Done():
			return nil, &TransportError{Op: "wait for receipt " + txHash.Hex(), Err: timeoutCtx.Err()}
		case <-ticker.C:
		}
	}
}

// Close closes the Ethereum client connection
func (cc *ContractCaller) Close() {
	if cc.closer != nil {
		cc.closer()
	}
}
