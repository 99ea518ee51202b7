package middleware

import "context"

type userKey struct{}

// Principal is the caller resolved from the bearer token.
type Principal struct {
	AccountID  string
	TelegramID int64
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, userKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(userKey{}).(Principal)
	return p, ok && p.AccountID != ""
}
