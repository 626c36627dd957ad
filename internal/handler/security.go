package handler

import (
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/xenking/storefront/internal/domain/auth"
)

// APIKeyHeader carries the caller's API key.
const APIKeyHeader = "X-Api-Key"

// Authenticate returns a middleware that resolves the request's API key into
// an identity. Requests without a key pass through unauthenticated — public
// catalog reads need no identity — while requests with an unknown key are
// rejected outright so a mistyped key never degrades silently to anonymous
// access.
func Authenticate(apikeys auth.Repository, pepper []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			hash := auth.HashKey(key, pepper)
			id, err := apikeys.FindByHash(r.Context(), hash)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			// Constant-time comparison guards against timing side-channels
			// even though the lookup already succeeded.
			computed, _ := hex.DecodeString(hash)
			stored, err := hex.DecodeString(id.KeyHash)
			if err != nil || subtle.ConstantTimeCompare(computed, stored) != 1 {
				respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}
