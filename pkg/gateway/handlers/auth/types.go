package auth

import "time"

// ChallengeRequest is the request body for challenge generation
type ChallengeRequest struct {
	Address string `json:"address"`
}

// ChallengeResponse carries the message the wallet must sign.
type ChallengeResponse struct {
	Address   string    `json:"address"`
	Message   string    `json:"message"`
	Nonce     string    `json:"nonce"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyRequest is the request body for signature verification
type VerifyRequest struct {
	Address   string `json:"address"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

// VerifyResponse is the issued session.
type VerifyResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Address   string    `json:"address"`
}
