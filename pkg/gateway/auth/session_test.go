package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	testRSAOnce sync.Once
	testRSAKey  *rsa.PrivateKey
)

func rsaKey(t testing.TB) *rsa.PrivateKey {
	t.Helper()
	testRSAOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("failed to generate key: %v", err)
		}
		testRSAKey = key
	})
	return testRSAKey
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func newTestSessions(t testing.TB, clock *fakeClock) *SessionManager {
	t.Helper()
	m, err := NewSessionManager(SessionConfig{
		Key:      rsaKey(t),
		Issuer:   "social-gateway",
		Audience: "social",
		TTL:      30 * 24 * time.Hour,
		Now:      clock.Now,
	})
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return m
}

const testAddr = "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23"

func TestSessionIssueAndResolve(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestSessions(t, clock)

	sess, err := m.Issue(testAddr)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if sess.TokenType != "Bearer" || sess.Address != testAddr {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if want := clock.Now().Add(720 * time.Hour); !sess.ExpiresAt.Equal(want) {
		t.Fatalf("expires_at = %s, want %s", sess.ExpiresAt, want)
	}

	addr, ok := m.Resolve(sess.Token)
	if !ok || addr != testAddr {
		t.Fatalf("Resolve = (%q, %v)", addr, ok)
	}
}

func TestSessionExpiryIsStrict(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	m := newTestSessions(t, clock)
	sess, err := m.Issue(testAddr)
	if err != nil {
		t.Fatal(err)
	}

	clock.Set(sess.ExpiresAt.Add(-time.Second))
	if _, ok := m.Resolve(sess.Token); !ok {
		t.Fatal("token should be valid one second before expiry")
	}

	clock.Set(sess.ExpiresAt)
	if _, ok := m.Resolve(sess.Token); ok {
		t.Fatal("token must be rejected at its expiry instant")
	}

	clock.Set(sess.ExpiresAt.Add(time.Second))
	if _, ok := m.Resolve(sess.Token); ok {
		t.Fatal("token must be rejected after expiry")
	}
}

func TestSessionResolveRejects(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestSessions(t, clock)
	sess, err := m.Issue(testAddr)
	if err != nil {
		t.Fatal(err)
	}

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	foreign, _ := NewSessionManager(SessionConfig{Key: otherKey, Issuer: "social-gateway", Audience: "social", TTL: time.Hour, Now: clock.Now})
	foreignSess, _ := foreign.Issue(testAddr)

	wrongAud, _ := NewSessionManager(SessionConfig{Key: rsaKey(t), Issuer: "social-gateway", Audience: "other", TTL: time.Hour, Now: clock.Now})
	wrongAudSess, _ := wrongAud.Issue(testAddr)

	hs := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   testAddr,
		Issuer:    "social-gateway",
		Audience:  jwt.ClaimStrings{"social"},
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	})
	hsToken, err := hs.SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(sess.Token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	garbageSub, _ := m.Issue("not-an-address")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "abc.def.ghi"},
		{"tampered signature", tampered},
		{"foreign key", foreignSess.Token},
		{"wrong audience", wrongAudSess.Token},
		{"hmac algorithm", hsToken},
		{"subject not an address", garbageSub.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if addr, ok := m.Resolve(tt.token); ok {
				t.Fatalf("expected rejection, got %q", addr)
			}
		})
	}
}

func TestJWKS(t *testing.T) {
	m := newTestSessions(t, &fakeClock{t: time.Now()})
	set := m.JWKS()
	keys := set["keys"]
	if len(keys) != 1 {
		t.Fatalf("want 1 key, got %d", len(keys))
	}
	k := keys[0]
	if k.Kty != "RSA" || k.Alg != "RS256" || k.Kid != KeyID(&rsaKey(t).PublicKey) || k.E != "AQAB" || k.N == "" {
		t.Fatalf("unexpected jwk: %+v", k)
	}
}

func TestKeyPEMRoundTrip(t *testing.T) {
	key := rsaKey(t)
	parsed, err := ParseSigningKeyPEM(EncodeSigningKeyPEM(key))
	if err != nil {
		t.Fatalf("ParseSigningKeyPEM: %v", err)
	}
	if parsed.N.Cmp(key.N) != 0 {
		t.Fatal("parsed key differs")
	}
	if _, err := ParseSigningKeyPEM([]byte("not pem")); err == nil {
		t.Fatal("expected error for garbage")
	}
}
