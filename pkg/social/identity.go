package social

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/DeBrosOfficial/social/pkg/database"
	"github.com/DeBrosOfficial/social/pkg/errors"
)

// Profile field limits, in characters.
const (
	MaxUsernameLength  = 64
	MaxBioLength       = 500
	MaxAvatarURLLength = 2048
)

// Identity is the optional profile attached to an address.
type Identity struct {
	Address   string             `db:"address" json:"address"`
	Username  *string            `db:"username" json:"username"`
	Bio       *string            `db:"bio" json:"bio"`
	AvatarURL *string            `db:"avatar_url" json:"avatar_url"`
	CreatedAt database.Timestamp `db:"created_at" json:"created_at"`
	// Exists is false for a synthesized default.
	Exists bool `db:"-" json:"exists"`
}

// ProfileUpdate replaces all three profile fields. Empty values clear.
type ProfileUpdate struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// IdentityStore persists one profile row per address.
type IdentityStore struct {
	db database.Database
	options
}

// NewIdentityStore creates an IdentityStore.
func NewIdentityStore(db database.Database, opts ...Option) *IdentityStore {
	return &IdentityStore{db: db, options: buildOptions(opts)}
}

// Ensure inserts a bare identity row if none exists.
func (s *IdentityStore) Ensure(ctx context.Context, address string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO identities (address, created_at) VALUES (?, ?) ON CONFLICT(address) DO NOTHING`,
		address, s.stamp(),
	)
	return err
}

// Get returns the identity for address, or an address-only default when the
// address never created a profile.
func (s *IdentityStore) Get(ctx context.Context, address string) (Identity, error) {
	var id Identity
	err := s.db.QueryOne(ctx, &id,
		`SELECT address, username, bio, avatar_url, created_at FROM identities WHERE address = ?`,
		address,
	)
	if database.IsNoRows(err) {
		return Identity{Address: address}, nil
	}
	if err != nil {
		return Identity{}, errors.NewDatabaseError("get identity", err)
	}
	id.Exists = true
	return id, nil
}

// Update replaces username, bio and avatar for address. Fields left empty
// are written as NULL rather than preserved. An address holding a valid
// session but no row yet gets one.
func (s *IdentityStore) Update(ctx context.Context, address string, in ProfileUpdate) (Identity, error) {
	username := strings.TrimSpace(in.Username)
	bio := strings.TrimSpace(in.Bio)
	avatar := strings.TrimSpace(in.AvatarURL)

	if err := checkLength("username", username, MaxUsernameLength); err != nil {
		return Identity{}, err
	}
	if err := checkLength("bio", bio, MaxBioLength); err != nil {
		return Identity{}, err
	}
	if err := checkLength("avatar_url", avatar, MaxAvatarURLLength); err != nil {
		return Identity{}, err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO identities (address, username, bio, avatar_url, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET
			username = excluded.username,
			bio = excluded.bio,
			avatar_url = excluded.avatar_url`,
		address, nullIfEmpty(username), nullIfEmpty(bio), nullIfEmpty(avatar), s.stamp(),
	)
	if err != nil {
		return Identity{}, errors.NewDatabaseError("update identity", err)
	}
	return s.Get(ctx, address)
}

// Lookup returns the existing identities among addresses, keyed by address.
// One query regardless of len(addresses).
func (s *IdentityStore) Lookup(ctx context.Context, addresses []string) (map[string]Identity, error) {
	out := make(map[string]Identity, len(addresses))
	if len(addresses) == 0 {
		return out, nil
	}
	args := make([]interface{}, len(addresses))
	for i, a := range addresses {
		args[i] = a
	}
	var rows []Identity
	err := s.db.Query(ctx, &rows,
		`SELECT address, username, bio, avatar_url, created_at FROM identities WHERE address IN (`+placeholders(len(args))+`)`,
		args...,
	)
	if err != nil {
		return nil, errors.NewDatabaseError("lookup identities", err)
	}
	for _, r := range rows {
		r.Exists = true
		out[r.Address] = r
	}
	return out, nil
}

func checkLength(field, v string, limit int) error {
	if utf8.RuneCountInString(v) > limit {
		return errors.NewValidationError(field, errors.ReasonFieldTooLong, field+" is too long")
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
