package httputil

import (
	"regexp"
	"strings"
)

// ValidateWalletAddress checks if a string looks like an Ethereum wallet address.
// Valid addresses are 40 hex characters, optionally prefixed with "0x".
var walletRegex = regexp.MustCompile(`^(0x|0X)?[0-9a-fA-F]{40}$`)

func ValidateWalletAddress(wallet string) bool {
	return walletRegex.MatchString(strings.TrimSpace(wallet))
}

// NormalizeAddress returns the canonical storage form of a wallet address:
// trimmed, lowercase, "0x"-prefixed. The second result is false when the
// input is not a wallet address.
func NormalizeAddress(wallet string) (string, bool) {
	wallet = strings.TrimSpace(wallet)
	if !walletRegex.MatchString(wallet) {
		return "", false
	}
	wallet = strings.ToLower(wallet)
	if !strings.HasPrefix(wallet, "0x") {
		wallet = "0x" + wallet
	}
	return wallet, true
}

// ShortAddress renders an address as "0x1234...abcd" for display.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}
