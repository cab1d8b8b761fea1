package core

import "context"

type ctxKey string

const (
	CtxKeyUsername ctxKey = ctxKey("username")
)

// PrincipalFromContext returns the authenticated username placed in the context by the auth middleware.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	if v := ctx.Value(CtxKeyUsername); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}
