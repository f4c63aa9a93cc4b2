package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/DeBrosOfficial/social/pkg/database"
)

// Challenge is a sign-in message handed to a wallet.
type Challenge struct {
	Address   string    `json:"address"`
	Message   string    `json:"message"`
	Nonce     string    `json:"nonce"`
	ExpiresAt time.Time `json:"expires_at"`
}

const nonceLinePrefix = "Nonce: "

// NonceStore persists server-issued challenge nonces in auth_nonces.
type NonceStore struct {
	db      database.Database
	appName string
	ttl     time.Duration
	now     func() time.Time
}

// NewNonceStore creates a store. now defaults to time.Now.
func NewNonceStore(db database.Database, appName string, ttl time.Duration, now func() time.Time) *NonceStore {
	if now == nil {
		now = time.Now
	}
	if appName == "" {
		appName = "Social"
	}
	return &NonceStore{db: db, appName: appName, ttl: ttl, now: now}
}

// Create issues a fresh nonce for address and builds the message to sign.
// Expired nonces for the same address are pruned first.
func (s *NonceStore) Create(ctx context.Context, address string) (Challenge, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return Challenge{}, fmt.Errorf("failed to generate nonce: %w", err)
	}
	nonce := base64.RawURLEncoding.EncodeToString(buf)
	now := s.now()
	exp := now.Add(s.ttl)

	if _, err := s.db.Exec(ctx,
		`DELETE FROM auth_nonces WHERE address = ? AND (expires_at <= ? OR used_at IS NOT NULL)`,
		address, now.UnixMilli(),
	); err != nil {
		return Challenge{}, fmt.Errorf("failed to prune nonces: %w", err)
	}
	if _, err := s.db.Exec(ctx,
		`INSERT INTO auth_nonces (address, nonce, expires_at) VALUES (?, ?, ?)`,
		address, nonce, exp.UnixMilli(),
	); err != nil {
		return Challenge{}, fmt.Errorf("failed to store nonce: %w", err)
	}

	return Challenge{
		Address:   address,
		Message:   s.message(address, nonce, now),
		Nonce:     nonce,
		ExpiresAt: exp,
	}, nil
}

func (s *NonceStore) message(address, nonce string, issued time.Time) string {
	return fmt.Sprintf("%s wants you to sign in with your wallet.\n\nAddress: %s\n%s%s\nIssued At: %s",
		s.appName, address, nonceLinePrefix, nonce, issued.UTC().Format(time.RFC3339))
}

// Consume marks nonce as used if it belongs to address, is unexpired and
// unused. Exactly one concurrent caller can win.
func (s *NonceStore) Consume(ctx context.Context, address, nonce string) (bool, error) {
	now := s.now().UnixMilli()
	res, err := s.db.Exec(ctx,
		`UPDATE auth_nonces SET used_at = ? WHERE address = ? AND nonce = ? AND used_at IS NULL AND expires_at > ?`,
		now, address, nonce, now,
	)
	if err != nil {
		return false, fmt.Errorf("failed to consume nonce: %w", err)
	}
	return database.RowsAffected(res) == 1, nil
}

// ExtractNonce returns the value of the "Nonce:" line of a challenge
// message, or "" if there is none.
func ExtractNonce(message string) string {
	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, nonceLinePrefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, nonceLinePrefix))
		}
	}
	return ""
}
