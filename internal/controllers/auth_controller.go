package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/RealZimboGuy/newsflow/internal/engine"
	"github.com/RealZimboGuy/newsflow/internal/util"
	"github.com/RealZimboGuy/newsflow/pkg/newsflow/core"
)

type AuthController struct {
	UserRepo engine.UserRepo
	Enabled  bool
}

func NewAuthController(userRepo engine.UserRepo, enabled bool) AuthController {
	return AuthController{UserRepo: userRepo, Enabled: enabled}
}

// RequireAuth resolves the caller's API key into a username on the request context.
// When auth is disabled requests pass through untouched.
func (wc *AuthController) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !wc.Enabled {
			next(w, r)
			return
		}
		// Supported headers: X-API-Key: <key> or Authorization: Bearer <key>
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				apiKey = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
		}
		if apiKey == "" || wc.UserRepo == nil {
			util.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "missing API key")
			return
		}
		u, err := wc.UserRepo.FindByApiKey(r.Context(), apiKey)
		if err != nil || u == nil {
			util.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		ctx := context.WithValue(r.Context(), core.CtxKeyUsername, u.Username)
		next(w, r.WithContext(ctx))
	}
}
