package zrxswap

import "time"

// ChainID represents a blockchain chain ID
type ChainID int

const (
	ChainIDMainnet ChainID = 1 // Ethereum mainnet
)

// SupportedChainIDs lists all supported chain IDs
var SupportedChainIDs = []ChainID{ChainIDMainnet}

// ContractAddresses holds contract addresses for each chain
type ContractAddresses struct {
	Exchange string
}

// DefaultContractAddresses maps chain IDs to their contract addresses
var DefaultContractAddresses = map[ChainID]ContractAddresses{
	ChainIDMainnet: {
		Exchange: "0x4f833a24e1f95d70f028921e27040ca56e09ab0b",
	},
}

// DefaultOrderTTL is how long an order made without an explicit expiration stays valid
const DefaultOrderTTL = 30 * 24 * time.Hour
