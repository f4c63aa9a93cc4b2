// Package social holds the stores behind the social graph: identities,
// content (posts, likes, comments) and follow edges. Every count is derived
// from rows at read time, and every mutation is a single statement so the
// store's constraints decide races.
package social

import (
	"time"

	"github.com/DeBrosOfficial/social/pkg/database"
	"github.com/DeBrosOfficial/social/pkg/logging"
)

// Option configures a store.
type Option func(*options)

type options struct {
	now    func() time.Time
	logger *logging.ColoredLogger
}

// WithClock overrides time.Now for created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *logging.ColoredLogger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	return o
}

func (o options) stamp() database.Timestamp {
	return database.NewTimestamp(o.now())
}
