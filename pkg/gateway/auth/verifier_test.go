package auth

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// fixed test keys; never used outside tests
const (
	testKeyA = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testKeyB = "8da4ef21b864d2cc526dbdb2a120bd2874c36c9d0a1fb7f8c63d7f7a8b41de8f"
)

func mustKey(t testing.TB, hexKey string) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := ethcrypto.HexToECDSA(hexKey)
	if err != nil {
		t.Fatalf("HexToECDSA: %v", err)
	}
	return key, strings.ToLower(ethcrypto.PubkeyToAddress(key.PublicKey).Hex())
}

// signPersonal produces a wallet-style signature with V in {27, 28}.
func signPersonal(t testing.TB, key *ecdsa.PrivateKey, message string) []byte {
	t.Helper()
	sig, err := ethcrypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	sig[64] += 27
	return sig
}

func TestVerifySignatureValid(t *testing.T) {
	key, addr := mustKey(t, testKeyA)
	msg := "Social wants you to sign in with your wallet.\n\nNonce: abc123"
	sig := signPersonal(t, key, msg)

	tests := []struct {
		name    string
		address string
		sig     string
	}{
		{"lowercase 0x, v=27/28", addr, "0x" + hex.EncodeToString(sig)},
		{"no 0x on signature", addr, hex.EncodeToString(sig)},
		{"checksummed address", ethcrypto.PubkeyToAddress(key.PublicKey).Hex(), "0x" + hex.EncodeToString(sig)},
		{"uppercase address", strings.ToUpper(addr[2:]), "0x" + hex.EncodeToString(sig)},
		{"raw v=0/1", addr, func() string {
			raw := append([]byte(nil), sig...)
			raw[64] -= 27
			return "0x" + hex.EncodeToString(raw)
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !VerifySignature(tt.address, msg, tt.sig) {
				t.Fatal("expected signature to verify")
			}
		})
	}
}

func TestVerifySignatureRejects(t *testing.T) {
	keyA, addrA := mustKey(t, testKeyA)
	_, addrB := mustKey(t, testKeyB)
	msg := "sign in: nonce 42"
	sig := "0x" + hex.EncodeToString(signPersonal(t, keyA, msg))

	tests := []struct {
		name    string
		address string
		message string
		sig     string
	}{
		{"other address", addrB, msg, sig},
		{"different message", addrA, msg + " ", sig},
		{"empty signature", addrA, msg, ""},
		{"not hex", addrA, msg, "0xnothex"},
		{"short signature", addrA, msg, sig[:len(sig)-2]},
		{"long signature", addrA, msg, sig + "00"},
		{"bad v", addrA, msg, sig[:len(sig)-2] + "05"},
		{"bad address", "0x1234", msg, sig},
		{"empty address", "", msg, sig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if VerifySignature(tt.address, tt.message, tt.sig) {
				t.Fatal("expected verification to fail")
			}
		})
	}
}

func TestVerifySignatureEveryBitFlipFails(t *testing.T) {
	key, addr := mustKey(t, testKeyA)
	msg := "flip test"
	sig := signPersonal(t, key, msg)
	if !VerifySignature(addr, msg, hex.EncodeToString(sig)) {
		t.Fatal("baseline signature should verify")
	}

	for bit := 0; bit < len(sig)*8; bit++ {
		mutated := append([]byte(nil), sig...)
		mutated[bit/8] ^= 1 << (bit % 8)
		if VerifySignature(addr, msg, hex.EncodeToString(mutated)) {
			t.Fatalf("bit %d flip still verified", bit)
		}
	}
}

func TestVerifySignatureDoesNotMutateInput(t *testing.T) {
	key, addr := mustKey(t, testKeyB)
	sigHex := hex.EncodeToString(signPersonal(t, key, "m"))
	for i := 0; i < 2; i++ {
		if !VerifySignature(addr, "m", sigHex) {
			t.Fatalf("call %d failed", i)
		}
	}
}
