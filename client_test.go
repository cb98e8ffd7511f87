package zrxswap

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kaifufi/zrx-swap-go/chain"
)

type sentTx struct {
	from     common.Address
	contract common.Address
	callData []byte
}

// fakeTransport answers getOrderInfo with keccak256(order) as the order hash.
type fakeTransport struct {
	sent    []sentTx
	callErr error
}

func (f *fakeTransport) CallContract(ctx context.Context, contract common.Address, callData []byte) ([]byte, error) {
	if f.callErr != nil {
		return nil, f.callErr
	}
	orderBytes := callData[4+chain.WordSize:]
	hash := crypto.Keccak256Hash(orderBytes)
	return chain.Concat(chain.EncodeUint64(0), hash.Bytes(), chain.EncodeUint64(0)), nil
}

func (f *fakeTransport) SendSignedTransaction(ctx context.Context, key *ecdsa.PrivateKey, contract common.Address, value *big.Int, callData []byte) (common.Hash, error) {
	f.sent = append(f.sent, sentTx{
		from:     crypto.PubkeyToAddress(key.PublicKey),
		contract: contract,
		callData: callData,
	})
	return crypto.Keccak256Hash(callData), nil
}

type party struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

func newParty(t *testing.T) party {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	return party{key: key, addr: crypto.PubkeyToAddress(key.PublicKey)}
}

var (
	kitty = chain.NonFungible{
		ContractAddress: common.HexToAddress("0x06012c8cf97bead5deae237070f9587f8e7a266d"),
		TokenID:         big.NewInt(371755),
	}
	dai = chain.Fungible{
		ContractAddress: common.HexToAddress("0x89d24a6b4ccb1b6faa2625fe562bdd9a23260359"),
		Amount:          big.NewInt(1000000),
	}
)

func newTestClient(t *testing.T, maker, taker party, transport chain.Transport) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{
		ChainID:   ChainIDMainnet,
		Maker:     maker.addr.Hex(),
		Taker:     taker.addr.Hex(),
		Transport: transport,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}
	client.now = func() time.Time { return time.Unix(1546300800, 0) }
	return client
}

func TestNewClientValidation(t *testing.T) {
	maker, taker := newParty(t), newParty(t)

	tests := []struct {
		name   string
		config ClientConfig
	}{
		{"unsupported chain", ClientConfig{ChainID: 56, Maker: maker.addr.Hex(), Taker: taker.addr.Hex(), Transport: &fakeTransport{}}},
		{"bad maker", ClientConfig{ChainID: ChainIDMainnet, Maker: "0x12", Taker: taker.addr.Hex(), Transport: &fakeTransport{}}},
		{"bad exchange", ClientConfig{ChainID: ChainIDMainnet, Maker: maker.addr.Hex(), Taker: taker.addr.Hex(), ExchangeAddr: "nope", Transport: &fakeTransport{}}},
		{"no transport", ClientConfig{ChainID: ChainIDMainnet, Maker: maker.addr.Hex(), Taker: taker.addr.Hex()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.config); !errors.Is(err, ErrInvalidParam) {
				t.Fatalf("err = %v, want ErrInvalidParam", err)
			}
		})
	}
}

func TestSwapFlow(t *testing.T) {
	ctx := context.Background()
	maker, taker := newParty(t), newParty(t)
	exchange := common.HexToAddress(DefaultContractAddresses[ChainIDMainnet].Exchange)

	// First device
	makerTransport := &fakeTransport{}
	makerClient := newTestClient(t, maker, taker, makerTransport)

	if _, err := makerClient.Approve(ctx, maker.key, kitty); err != nil {
		t.Fatal(err)
	}
	approveTx := makerTransport.sent[0]
	if approveTx.contract != kitty.ContractAddress {
		t.Fatalf("approve sent to %s", approveTx.contract.Hex())
	}
	wantApprove, _ := chain.ApproveCallData(kitty)
	if !bytes.Equal(approveTx.callData, wantApprove) {
		t.Fatalf("approve call data = %x", approveTx.callData)
	}

	orderBytes, err := makerClient.MakeOrder(kitty, dai, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	signed, err := makerClient.SignOrder(ctx, maker.key, orderBytes)
	if err != nil {
		t.Fatal(err)
	}

	// Second device
	takerTransport := &fakeTransport{}
	takerClient := newTestClient(t, maker, taker, takerTransport)

	if _, err := takerClient.Approve(ctx, taker.key, dai); err != nil {
		t.Fatal(err)
	}
	result, err := takerClient.FillOrder(ctx, taker.key, signed)
	if err != nil {
		t.Fatal(err)
	}

	if len(takerTransport.sent) != 2 {
		t.Fatalf("taker sent %d transactions", len(takerTransport.sent))
	}
	fill := takerTransport.sent[1]
	if fill.contract != exchange || fill.from != taker.addr {
		t.Fatalf("fill sent from %s to %s", fill.from.Hex(), fill.contract.Hex())
	}
	wantFill, err := chain.BuildFillCallData(signed.Order, signed.Signature)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(fill.callData, wantFill) {
		t.Fatal("fill call data differs from BuildFillCallData")
	}
	if result.TxHash != crypto.Keccak256Hash(wantFill).Hex() {
		t.Fatalf("tx hash = %s", result.TxHash)
	}
}

func TestMakeOrderDefaults(t *testing.T) {
	maker, taker := newParty(t), newParty(t)
	client := newTestClient(t, maker, taker, &fakeTransport{})

	first, err := client.MakeOrder(kitty, dai, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := client.MakeOrder(kitty, dai, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(first, second) {
		t.Fatal("orders without explicit salt must differ")
	}

	order, err := chain.DecodeOrder(first)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultExpiration(client.now())
	if order.ExpirationTimeSeconds.Cmp(want) != 0 {
		t.Fatalf("expiration = %s, want %s", order.ExpirationTimeSeconds, want)
	}
}

func TestSignOrderRejectsWrongKey(t *testing.T) {
	maker, taker := newParty(t), newParty(t)
	client := newTestClient(t, maker, taker, &fakeTransport{})

	orderBytes, err := client.MakeOrder(kitty, dai, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.SignOrder(context.Background(), taker.key, orderBytes); !errors.Is(err, ErrWrongMaker) {
		t.Fatalf("err = %v, want ErrWrongMaker", err)
	}
}

func TestSignOrderHashOracleFailure(t *testing.T) {
	maker, taker := newParty(t), newParty(t)
	transport := &fakeTransport{callErr: errors.New("node down")}
	client := newTestClient(t, maker, taker, transport)

	orderBytes, err := client.MakeOrder(kitty, dai, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	signed, err := client.SignOrder(context.Background(), maker.key, orderBytes)
	var oracleErr *chain.HashOracleError
	if !errors.As(err, &oracleErr) {
		t.Fatalf("err = %v, want HashOracleError", err)
	}
	if signed != nil {
		t.Fatal("signed order returned on failure")
	}
}

func TestFillOrderValidation(t *testing.T) {
	ctx := context.Background()
	maker, taker, stranger := newParty(t), newParty(t), newParty(t)
	transport := &fakeTransport{}
	client := newTestClient(t, maker, taker, transport)

	orderBytes, err := client.MakeOrder(kitty, dai, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	signed, err := client.SignOrder(ctx, maker.key, orderBytes)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("wrong taker", func(t *testing.T) {
		if _, err := client.FillOrder(ctx, stranger.key, signed); !errors.Is(err, ErrWrongTaker) {
			t.Fatalf("err = %v, want ErrWrongTaker", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		expired := newTestClient(t, maker, taker, transport)
		expired.now = func() time.Time { return time.Unix(1546300800, 0).Add(DefaultOrderTTL) }
		if _, err := expired.FillOrder(ctx, taker.key, signed); !errors.Is(err, ErrOrderExpired) {
			t.Fatalf("err = %v, want ErrOrderExpired", err)
		}
	})

	t.Run("forged signature", func(t *testing.T) {
		orderHash := crypto.Keccak256Hash(orderBytes)
		sig, err := chain.SignOrderHash(stranger.key, orderHash)
		if err != nil {
			t.Fatal(err)
		}
		forged := &SignedOrder{Order: orderBytes, Signature: sig.Bytes()}
		if _, err := client.FillOrder(ctx, taker.key, forged); !errors.Is(err, ErrWrongMaker) {
			t.Fatalf("err = %v, want ErrWrongMaker", err)
		}
	})

	if len(transport.sent) != 0 {
		t.Fatalf("%d transactions sent for invalid fills", len(transport.sent))
	}
}

func TestWaitMinedUnsupportedTransport(t *testing.T) {
	maker, taker := newParty(t), newParty(t)
	client := newTestClient(t, maker, taker, &fakeTransport{})
	if err := client.WaitMined(context.Background(), "0x01"); err == nil {
		t.Fatal("expected error for transport without receipts")
	}
}
