package core

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

// MinAddressLength is a syntactic sanity bound on base58 Solana addresses.
// Actual key validity is only established by a successful signature check.
const MinAddressLength = 32

// DecodePublicKey decodes a base58 Solana address into an Ed25519 public key.
func DecodePublicKey(address string) (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("base58 decode failed: %w", err)
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid public key length: got %d, want %d", len(decoded), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(decoded), nil
}

// VerifyMessageSignature checks that signature (base58) is a valid detached
// Ed25519 signature over the exact UTF-8 bytes of message, under the public
// key encoded in address. Every failure collapses to ErrInvalidSignature;
// an attacker learns nothing beyond pass/fail.
func VerifyMessageSignature(address, message, signature string) error {
	publicKey, err := DecodePublicKey(address)
	if err != nil {
		return ErrInvalidSignature
	}

	decodedSig, err := base58.Decode(signature)
	if err != nil || len(decodedSig) != ed25519.SignatureSize {
		return ErrInvalidSignature
	}

	if !ed25519.Verify(publicKey, []byte(message), decodedSig) {
		return ErrInvalidSignature
	}
	return nil
}
