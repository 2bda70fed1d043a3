package core

import "errors"

var (
	ErrMalformedAddress      = errors.New("malformed solana address")
	ErrMalformedMessage      = errors.New("message contains no nonce line")
	ErrNonceInvalidOrExpired = errors.New("nonce is invalid or expired")
	ErrDomainMismatch        = errors.New("message is bound to a different domain")
	ErrInvalidSignature      = errors.New("invalid signature")
	ErrStoreOperationFailed  = errors.New("store operation failed")
)
