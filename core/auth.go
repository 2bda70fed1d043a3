package core

import "time"

// ProviderID identifies the SIWS provider in account records.
const ProviderID = "siws"

// Challenge is a pending sign-in challenge, persisted between Start and Verify
type Challenge struct {
	Identifier string    // Namespaced storage key derived from the address
	Nonce      string    // Base58-encoded random token embedded in the signed message
	ExpiresAt  time.Time // When the challenge stops being acceptable
}

// ChallengeIdentifier derives the storage key for an address. Keying by
// address means at most one live challenge per address: a repeated Start
// supersedes the previous nonce.
func ChallengeIdentifier(address string) string {
	return ProviderID + ":" + address
}

// AccountID derives the deterministic provider-account id linking a wallet
// address to an internal user record.
func AccountID(address string) string {
	return ProviderID + ":" + address
}

// User is an identity-store user record
type User struct {
	ID        string
	Verified  bool // Set when the identity was proven cryptographically
	CreatedAt time.Time
}

// Account links a user to an external provider identity
type Account struct {
	ID                string
	UserID            string
	ProviderID        string
	ProviderAccountID string
}

// Session is an authenticated session issued by the identity store
type Session struct {
	ID        string
	UserID    string
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
