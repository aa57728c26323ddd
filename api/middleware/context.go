package middleware

import "context"

type contextKey string

const ctxUserAddress contextKey = "user_address"

func UserAddressFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserAddress).(string); ok {
		return v
	}
	return ""
}

// WithUserAddress injects the caller's address into the context for
// downstream handlers and the idempotency scope.
func WithUserAddress(ctx context.Context, address string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserAddress, address)
}
