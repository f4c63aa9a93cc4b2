package auth

import (
	"context"
	"encoding/hex"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/DeBrosOfficial/social/pkg/config"
	"github.com/DeBrosOfficial/social/pkg/database"
	"github.com/DeBrosOfficial/social/pkg/errors"
)

type recordingEnsurer struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingEnsurer) Ensure(_ context.Context, address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, address)
	return nil
}

func openTestDB(t *testing.T) *database.Client {
	t.Helper()
	cfg := config.DatabaseConfig{Driver: database.DriverSQLite, DSN: filepath.Join(t.TempDir(), "auth.db"), MaxOpenConns: 2}
	db, err := database.Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db, cfg.DSN, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, requireNonce bool) (*Service, *recordingEnsurer, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	ensurer := &recordingEnsurer{}
	nonces := NewNonceStore(openTestDB(t), "Social", 5*time.Minute, clock.Now)
	return NewService(nil, newTestSessions(t, clock), nonces, ensurer, requireNonce), ensurer, clock
}

func TestAuthenticateClientStatedNonce(t *testing.T) {
	svc, ensurer, _ := newTestService(t, false)
	key, addr := mustKey(t, testKeyA)
	msg := "Sign in to Social\nNonce: client-chosen-123"
	sig := hex.EncodeToString(signPersonal(t, key, msg))

	sess, err := svc.Authenticate(context.Background(), addr, msg, sig)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if sess.Address != addr {
		t.Fatalf("address = %q, want %q", sess.Address, addr)
	}
	if got, ok := svc.Sessions().Resolve(sess.Token); !ok || got != addr {
		t.Fatalf("issued token does not resolve: %q %v", got, ok)
	}
	if len(ensurer.calls) != 1 || ensurer.calls[0] != addr {
		t.Fatalf("Ensure calls = %v", ensurer.calls)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	svc, ensurer, _ := newTestService(t, false)
	keyA, addrA := mustKey(t, testKeyA)
	_, addrB := mustKey(t, testKeyB)
	msg := "hello"
	sig := hex.EncodeToString(signPersonal(t, keyA, msg))

	tests := []struct {
		name       string
		address    string
		message    string
		signature  string
		wantStatus int
		wantReason string
	}{
		{"missing address", "", msg, sig, 400, errors.ReasonMissingFields},
		{"missing message", addrA, "", sig, 400, errors.ReasonMissingFields},
		{"missing signature", addrA, msg, " ", 400, errors.ReasonMissingFields},
		{"invalid address", "0xnope", msg, sig, 400, errors.ReasonInvalidAddress},
		{"wrong signer", addrB, msg, sig, 401, ""},
		{"malformed signature", addrA, msg, "zz", 401, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tt.address, tt.message, tt.signature)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.StatusCode(err); got != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%v)", got, tt.wantStatus, err)
			}
			if got := errors.ReasonOf(err); got != tt.wantReason {
				t.Fatalf("reason = %q, want %q", got, tt.wantReason)
			}
		})
	}
	if len(ensurer.calls) != 0 {
		t.Fatalf("identity must not be ensured on failure: %v", ensurer.calls)
	}
}

func TestAuthenticateServerNonce(t *testing.T) {
	svc, ensurer, clock := newTestService(t, true)
	ctx := context.Background()
	key, addr := mustKey(t, testKeyA)

	// client-stated nonce is refused in strict mode
	stated := "Nonce: mine"
	if _, err := svc.Authenticate(ctx, addr, stated, hex.EncodeToString(signPersonal(t, key, stated))); !errors.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for unknown nonce, got %v", err)
	}

	ch, err := svc.CreateChallenge(ctx, addr)
	if err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	if ExtractNonce(ch.Message) != ch.Nonce {
		t.Fatalf("message does not carry nonce: %q", ch.Message)
	}
	sig := hex.EncodeToString(signPersonal(t, key, ch.Message))

	if _, err := svc.Authenticate(ctx, addr, ch.Message, sig); err != nil {
		t.Fatalf("first use: %v", err)
	}
	if _, err := svc.Authenticate(ctx, addr, ch.Message, sig); !errors.IsUnauthorized(err) {
		t.Fatalf("replay must be rejected, got %v", err)
	}

	expiring, err := svc.CreateChallenge(ctx, addr)
	if err != nil {
		t.Fatal(err)
	}
	clock.Set(expiring.ExpiresAt)
	sig = hex.EncodeToString(signPersonal(t, key, expiring.Message))
	if _, err := svc.Authenticate(ctx, addr, expiring.Message, sig); !errors.IsUnauthorized(err) {
		t.Fatalf("expired nonce must be rejected, got %v", err)
	}

	if len(ensurer.calls) != 1 {
		t.Fatalf("Ensure should run once, got %v", ensurer.calls)
	}
}

func TestCreateChallengeRejectsBadAddress(t *testing.T) {
	svc, _, _ := newTestService(t, true)
	_, err := svc.CreateChallenge(context.Background(), "bob")
	if errors.ReasonOf(err) != errors.ReasonInvalidAddress {
		t.Fatalf("want invalid_address, got %v", err)
	}
}

func TestExtractNonce(t *testing.T) {
	tests := []struct{ msg, want string }{
		{"App wants you to sign in.\n\nAddress: 0x1\nNonce: abc\nIssued At: x", "abc"},
		{"Nonce:  spaced  ", "spaced"},
		{"no nonce here", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractNonce(tt.msg); got != tt.want {
			t.Errorf("ExtractNonce(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}
