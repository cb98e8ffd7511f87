package zrxswap

import "errors"

var (
	// ErrInvalidParam represents an invalid parameter error
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrOrderExpired is returned when filling an order past its expiration
	ErrOrderExpired = errors.New("order expired")

	// ErrWrongTaker is returned when the filling key is not the order's taker
	ErrWrongTaker = errors.New("key does not belong to the order taker")

	// ErrWrongMaker is returned when a signature does not recover to the order's maker
	ErrWrongMaker = errors.New("signature does not belong to the order maker")
)

// InvalidParamError represents an invalid parameter error with context
type InvalidParamError struct {
	Message string
}

func (e *InvalidParamError) Error() string {
	return e.Message
}

func (e *InvalidParamError) Unwrap() error {
	return ErrInvalidParam
}
