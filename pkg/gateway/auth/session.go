package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DeBrosOfficial/social/pkg/httputil"
)

// Session is an issued bearer credential.
type Session struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Address   string    `json:"address"`
}

// SessionConfig configures a SessionManager.
type SessionConfig struct {
	Key      *rsa.PrivateKey
	Issuer   string
	Audience string
	TTL      time.Duration
	Now      func() time.Time // defaults to time.Now
}

// SessionManager issues and resolves RS256 session tokens. Resolution never
// touches the store: the token is the whole session.
type SessionManager struct {
	key      *rsa.PrivateKey
	keyID    string
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionManager validates cfg and builds a manager.
func NewSessionManager(cfg SessionConfig) (*SessionManager, error) {
	if cfg.Key == nil {
		return nil, errors.New("signing key unavailable")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &SessionManager{
		key:      cfg.Key,
		keyID:    KeyID(&cfg.Key.PublicKey),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
		now:      now,
	}, nil
}

// Issue signs a token binding address until now + TTL. The address must
// already be normalized.
func (m *SessionManager) Issue(address string) (Session, error) {
	now := m.now().UTC().Truncate(time.Second)
	exp := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   address,
		Audience:  jwt.ClaimStrings{m.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = m.keyID

	signed, err := tok.SignedString(m.key)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: signed, TokenType: "Bearer", ExpiresAt: exp, Address: address}, nil
}

// Resolve returns the address bound to token. Any failure, including a
// missing token, yields ok == false. Expiry is compared without leeway.
func (m *SessionManager) Resolve(token string) (address string, ok bool) {
	if token == "" {
		return "", false
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return &m.key.PublicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return "", false
	}
	addr, valid := httputil.NormalizeAddress(claims.Subject)
	if !valid {
		return "", false
	}
	return addr, true
}

// JWK is the public half of the signing key in RFC 7517 form.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKS returns the key set clients can use to verify session tokens.
func (m *SessionManager) JWKS() map[string][]JWK {
	pub := m.key.PublicKey
	return map[string][]JWK{"keys": {{
		Kty: "RSA",
		Use: "sig",
		Alg: jwt.SigningMethodRS256.Alg(),
		Kid: m.keyID,
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}}}
}

// TTL reports the configured session lifetime.
func (m *SessionManager) TTL() time.Duration { return m.ttl }
