package ctxkeys

import "context"

// ContextKey is used for storing request-scoped authentication and metadata in context
type ContextKey string

const (
	// Address stores the wallet address resolved from the bearer token
	Address ContextKey = "address"
)

// WithAddress returns a copy of ctx carrying the authenticated address.
func WithAddress(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, Address, address)
}

// AddressFrom returns the authenticated address, or "" for anonymous requests.
func AddressFrom(ctx context.Context) string {
	v, _ := ctx.Value(Address).(string)
	return v
}
