package auth

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// signatureLength is r || s || v.
const signatureLength = 65

// VerifySignature reports whether signature is a personal_sign (EIP-191)
// signature of message by the key controlling address. Addresses compare
// case-insensitively. Malformed input of any kind yields false.
func VerifySignature(address, message, signature string) bool {
	want := strings.ToLower(strings.TrimSpace(address))
	want = strings.TrimPrefix(want, "0x")
	if len(want) != 40 {
		return false
	}

	sigHex := strings.TrimSpace(signature)
	if strings.HasPrefix(sigHex, "0x") || strings.HasPrefix(sigHex, "0X") {
		sigHex = sigHex[2:]
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil || len(sig) != signatureLength {
		return false
	}

	switch sig[64] {
	case 0, 1:
	case 27, 28:
		sig[64] -= 27
	default:
		return false
	}

	pub, err := ethcrypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil || pub == nil {
		return false
	}

	got := strings.ToLower(strings.TrimPrefix(ethcrypto.PubkeyToAddress(*pub).Hex(), "0x"))
	return got == want
}
