package core

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"claimrelay/internal/types"
)

// apiKeyHeader carries the caller's API key. Keys are opaque strings whose
// leading characters form a non-secret prefix used to narrow the database
// lookup; the full key is verified against the stored bcrypt hash.
const apiKeyHeader = "X-Api-Key"

// AuthMiddleware authenticates requests by API key. When auth is disabled
// in configuration (local development) the middleware passes through.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Config.Auth.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(apiKeyHeader)
		if key == "" {
			Error(w, r, types.NewAppError(types.ErrCodeAuthKeyMissing, "missing API key", nil))
			return
		}

		prefixLen := s.Config.Auth.KeyPrefixLength
		if len(key) < prefixLen {
			Error(w, r, types.NewAppError(types.ErrCodeAuthKeyInvalid, "invalid API key", nil))
			return
		}

		candidates, err := s.Keys.FindActiveByPrefix(r.Context(), key[:prefixLen])
		if err != nil {
			Error(w, r, err)
			return
		}

		for _, candidate := range candidates {
			if bcrypt.CompareHashAndPassword([]byte(candidate.KeyHash), []byte(key)) == nil {
				// Usage tracking is best effort; auth already succeeded.
				if touchErr := s.Keys.TouchUsed(r.Context(), candidate.ID); touchErr != nil {
					s.Logger.Warn("api key usage update failed",
						"key_id", candidate.ID,
						"error", touchErr.Error(),
					)
				}

				ctx := types.WithAPIKeyID(r.Context(), candidate.ID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		Error(w, r, types.NewAppError(types.ErrCodeAuthKeyInvalid, "invalid API key", nil))
	})
}
