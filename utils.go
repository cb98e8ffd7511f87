package zrxswap

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/shopspring/decimal"
)

const MaxDecimals = 36

// ParseTokenAmount converts a human-readable amount ("1.5") into base units
// of a token with the given decimals. Amounts with more fractional digits
// than the token supports are rejected rather than truncated.
func ParseTokenAmount(amount string, decimals int32) (*big.Int, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return nil, &InvalidParamError{Message: fmt.Sprintf("decimals must be between 0 and %d, got: %d", MaxDecimals, decimals)}
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, &InvalidParamError{Message: fmt.Sprintf("invalid amount %q: %v", amount, err)}
	}
	if d.Sign() <= 0 {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount must be positive, got: %s", amount)}
	}

	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount %s has more than %d decimals", amount, decimals)}
	}

	result := scaled.BigInt()
	if result.Cmp(math.MaxBig256) > 0 {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount too large for uint256: %s", result.String())}
	}
	return result, nil
}

// DefaultExpiration returns now + DefaultOrderTTL as unix seconds
func DefaultExpiration(now time.Time) *big.Int {
	return big.NewInt(now.Add(DefaultOrderTTL).Unix())
}
