package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/errors"
	"github.com/DeBrosOfficial/social/pkg/httputil"
	"github.com/DeBrosOfficial/social/pkg/logging"
)

// IdentityEnsurer creates the profile row for an address on first sign-in.
type IdentityEnsurer interface {
	Ensure(ctx context.Context, address string) error
}

// Service handles authentication business logic
type Service struct {
	logger             *logging.ColoredLogger
	sessions           *SessionManager
	nonces             *NonceStore
	identities         IdentityEnsurer
	requireServerNonce bool
}

// NewService wires the sign-in flow. When requireServerNonce is set, only
// messages carrying a nonce issued by nonces are accepted.
func NewService(logger *logging.ColoredLogger, sessions *SessionManager, nonces *NonceStore, identities IdentityEnsurer, requireServerNonce bool) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		logger:             logger,
		sessions:           sessions,
		nonces:             nonces,
		identities:         identities,
		requireServerNonce: requireServerNonce,
	}
}

// Sessions exposes the session manager for middleware and JWKS.
func (s *Service) Sessions() *SessionManager { return s.sessions }

// CreateChallenge issues a sign-in message for address.
func (s *Service) CreateChallenge(ctx context.Context, address string) (Challenge, error) {
	addr, ok := httputil.NormalizeAddress(address)
	if !ok {
		return Challenge{}, errors.NewValidationError("address", errors.ReasonInvalidAddress, "invalid wallet address")
	}
	ch, err := s.nonces.Create(ctx, addr)
	if err != nil {
		return Challenge{}, errors.NewDatabaseError("create challenge", err)
	}
	return ch, nil
}

// Authenticate turns a wallet signature into a session. The identity row is
// ensured only after the signature (and nonce, if required) checks pass.
func (s *Service) Authenticate(ctx context.Context, address, message, signature string) (Session, error) {
	if strings.TrimSpace(address) == "" || message == "" || strings.TrimSpace(signature) == "" {
		return Session{}, errors.NewValidationError("", errors.ReasonMissingFields, "address, message and signature are required")
	}
	addr, ok := httputil.NormalizeAddress(address)
	if !ok {
		return Session{}, errors.NewValidationError("address", errors.ReasonInvalidAddress, "invalid wallet address")
	}

	if !VerifySignature(addr, message, signature) {
		s.logger.ComponentWarn(logging.ComponentAuth, "Signature verification failed", zap.String("address", addr))
		return Session{}, errors.NewUnauthorizedError("signature verification failed")
	}

	if s.requireServerNonce {
		nonce := ExtractNonce(message)
		if nonce == "" {
			return Session{}, errors.NewUnauthorizedError("challenge nonce missing")
		}
		consumed, err := s.nonces.Consume(ctx, addr, nonce)
		if err != nil {
			return Session{}, errors.NewDatabaseError("consume nonce", err)
		}
		if !consumed {
			return Session{}, errors.NewUnauthorizedError("challenge nonce invalid or expired")
		}
	}

	if err := s.identities.Ensure(ctx, addr); err != nil {
		return Session{}, errors.NewDatabaseError("ensure identity", err)
	}

	sess, err := s.sessions.Issue(addr)
	if err != nil {
		return Session{}, errors.NewInternalError("failed to issue session", err)
	}
	s.logger.ComponentInfo(logging.ComponentAuth, "Session issued",
		zap.String("address", addr),
		zap.Time("expires_at", sess.ExpiresAt),
	)
	return sess, nil
}
