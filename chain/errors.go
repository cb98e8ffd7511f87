package chain

import (
	"errors"
	"fmt"
)

// Encoding related errors
var (
	ErrOutOfRange      = errors.New("integer out of uint256 range")
	ErrInvalidAddress  = errors.New("invalid address")
	ErrInvalidHex      = errors.New("invalid hex string")
	ErrUnknownAsset    = errors.New("unknown asset data")
	ErrMalformedOrder  = errors.New("malformed order bytes")
	ErrMalformedResult = errors.New("malformed call result")
	ErrZeroOrderHash   = errors.New("zero order hash")
)

// EncodingError reports a field that could not be encoded into a 32-byte word.
type EncodingError struct {
	Field string
	Err   error
}

func (e *EncodingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("encoding: %v", e.Err)
	}
	return fmt.Sprintf("encoding %s: %v", e.Field, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// OrderBuildError wraps a failure while assembling an order.
type OrderBuildError struct {
	Err error
}

func (e *OrderBuildError) Error() string {
	return fmt.Sprintf("build order: %v", e.Err)
}

func (e *OrderBuildError) Unwrap() error { return e.Err }

// HashOracleError is returned when the exchange's order hash could not be read.
type HashOracleError struct {
	Exchange string
	Err      error
}

func (e *HashOracleError) Error() string {
	return fmt.Sprintf("get order hash from %s: %v", e.Exchange, e.Err)
}

func (e *HashOracleError) Unwrap() error { return e.Err }

// TransportError is returned when a call or transaction could not reach the node.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SignatureError reports a malformed key, digest or signature.
type SignatureError struct {
	Message string
	Err     error
}

func (e *SignatureError) Error() string {
	if e.Err == nil {
		return "signature: " + e.Message
	}
	return fmt.Sprintf("signature: %s: %v", e.Message, e.Err)
}

func (e *SignatureError) Unwrap() error { return e.Err }

// FillError reports fill call data that could not be assembled.
type FillError struct {
	Message string
}

func (e *FillError) Error() string {
	return "fill order: " + e.Message
}
