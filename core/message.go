package core

import "strings"

const (
	// MessageVersion is the SIWS message format version.
	MessageVersion = "1"

	// DefaultStatement is used when no statement is configured.
	DefaultStatement = "Sign in with your Solana account."

	greetingSuffix = " wants you to sign in with your Solana account:"
	noncePrefix    = "Nonce: "
)

// MessageFields are the structured inputs of a canonical SIWS message.
// Statement, ExpirationTime and Resources are optional; timestamps are
// ISO-8601 strings supplied by the caller so the codec stays deterministic.
type MessageFields struct {
	Domain         string
	Address        string
	URI            string
	Statement      string
	Nonce          string
	IssuedAt       string
	ExpirationTime string
	Resources      []string
}

// BuildMessage serializes fields into the canonical SIWS text block. The
// signature covers these exact bytes, so the same fields must always yield
// the identical string.
func BuildMessage(f MessageFields) string {
	statement := f.Statement
	if statement == "" {
		statement = DefaultStatement
	}

	lines := []string{
		f.Domain + greetingSuffix,
		f.Address,
		"",
		statement,
		"",
		"URI: " + f.URI,
		"Version: " + MessageVersion,
		noncePrefix + f.Nonce,
		"Issued At: " + f.IssuedAt,
	}

	if f.ExpirationTime != "" {
		lines = append(lines, "Expiration Time: "+f.ExpirationTime)
	}

	if len(f.Resources) > 0 {
		lines = append(lines, "Resources:")
		for _, resource := range f.Resources {
			lines = append(lines, "- "+resource)
		}
	}

	return strings.Join(lines, "\n")
}

// ExtractNonce scans a message for its nonce line. The second return is
// false when no such line exists, which is a different condition from a
// wrong nonce value.
func ExtractNonce(message string) (string, bool) {
	for _, line := range strings.Split(message, "\n") {
		if strings.HasPrefix(line, noncePrefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, noncePrefix)), true
		}
	}
	return "", false
}

// GreetingPrefix returns the exact leading text a message bound to domain
// must carry.
func GreetingPrefix(domain string) string {
	return domain + greetingSuffix
}
