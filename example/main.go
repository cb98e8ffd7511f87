// Example two-party swap using the zrx-swap client
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"time"

	zrxswap "github.com/kaifufi/zrx-swap-go"
	"github.com/kaifufi/zrx-swap-go/chain"
	"gopkg.in/yaml.v3"
)

// Config is the YAML driver configuration. Keys are read from the
// environment variables it names, never from the file itself.
type Config struct {
	RPCURL       string      `yaml:"rpc_url"`
	ChainID      int         `yaml:"chain_id"`
	ExchangeAddr string      `yaml:"exchange"`
	Maker        PartyConfig `yaml:"maker"`
	Taker        PartyConfig `yaml:"taker"`
}

type PartyConfig struct {
	Address string      `yaml:"address"`
	KeyEnv  string      `yaml:"key_env"`
	Asset   AssetConfig `yaml:"asset"`
}

type AssetConfig struct {
	Kind     string `yaml:"kind"` // erc721 or erc20
	Contract string `yaml:"contract"`
	TokenID  string `yaml:"token_id"`
	Amount   string `yaml:"amount"`
	Decimals int32  `yaml:"decimals"`
}

func loadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{ChainID: int(zrxswap.ChainIDMainnet)}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (a AssetConfig) toAsset() (chain.Asset, error) {
	switch a.Kind {
	case "erc721":
		tokenID, ok := new(big.Int).SetString(a.TokenID, 10)
		if !ok {
			return nil, fmt.Errorf("invalid token_id %q", a.TokenID)
		}
		asset, err := chain.NewNonFungible(a.Contract, tokenID)
		if err != nil {
			return nil, err
		}
		return asset, nil
	case "erc20":
		amount, err := zrxswap.ParseTokenAmount(a.Amount, a.Decimals)
		if err != nil {
			return nil, err
		}
		asset, err := chain.NewFungible(a.Contract, amount)
		if err != nil {
			return nil, err
		}
		return asset, nil
	}
	return nil, fmt.Errorf("unknown asset kind %q", a.Kind)
}

func main() {
	configPath := flag.String("config", "swap.yaml", "path to swap configuration")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := run(*configPath, logger); err != nil {
		logger.Error("swap failed", "err", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	makerAsset, err := cfg.Maker.Asset.toAsset()
	if err != nil {
		return fmt.Errorf("maker asset: %w", err)
	}
	takerAsset, err := cfg.Taker.Asset.toAsset()
	if err != nil {
		return fmt.Errorf("taker asset: %w", err)
	}

	makerKey, err := chain.ParsePrivateKey(os.Getenv(cfg.Maker.KeyEnv))
	if err != nil {
		return fmt.Errorf("maker key from $%s: %w", cfg.Maker.KeyEnv, err)
	}
	takerKey, err := chain.ParsePrivateKey(os.Getenv(cfg.Taker.KeyEnv))
	if err != nil {
		return fmt.Errorf("taker key from $%s: %w", cfg.Taker.KeyEnv, err)
	}

	clientConfig := zrxswap.ClientConfig{
		ChainID:      zrxswap.ChainID(cfg.ChainID),
		RPCURL:       cfg.RPCURL,
		Maker:        cfg.Maker.Address,
		Taker:        cfg.Taker.Address,
		ExchangeAddr: cfg.ExchangeAddr,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// First device (maker)
	clientConfig.Logger = logger.With("party", "maker")
	maker, err := zrxswap.NewClient(clientConfig)
	if err != nil {
		return err
	}
	defer maker.Close()

	approval, err := maker.Approve(ctx, makerKey, makerAsset)
	if err != nil {
		return err
	}
	if err := maker.WaitMined(ctx, approval.TxHash); err != nil {
		return err
	}

	orderBytes, err := maker.MakeOrder(makerAsset, takerAsset, nil, nil)
	if err != nil {
		return err
	}
	signed, err := maker.SignOrder(ctx, makerKey, orderBytes)
	if err != nil {
		return err
	}

	// Hand over out of band
	envelope, err := json.Marshal(signed)
	if err != nil {
		return err
	}
	logger.Info("signed order", "envelope", string(envelope))

	// Second device (taker)
	clientConfig.Logger = logger.With("party", "taker")
	taker, err := zrxswap.NewClient(clientConfig)
	if err != nil {
		return err
	}
	defer taker.Close()

	var received zrxswap.SignedOrder
	if err := json.Unmarshal(envelope, &received); err != nil {
		return err
	}

	approval, err = taker.Approve(ctx, takerKey, takerAsset)
	if err != nil {
		return err
	}
	if err := taker.WaitMined(ctx, approval.TxHash); err != nil {
		return err
	}

	fill, err := taker.FillOrder(ctx, takerKey, &received)
	if err != nil {
		return err
	}
	logger.Info("order sent", "tx", fill.TxHash)
	return nil
}
