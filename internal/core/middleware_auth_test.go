package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"claimrelay/internal/config"
	"claimrelay/internal/db"
	"claimrelay/internal/types"
)

type mockKeyStore struct {
	keys      []db.APIKey
	findErr   error
	touchedID int64
	touchErr  error
}

func (m *mockKeyStore) FindActiveByPrefix(_ context.Context, prefix string) ([]db.APIKey, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []db.APIKey
	for _, k := range m.keys {
		if k.Prefix == prefix {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *mockKeyStore) TouchUsed(_ context.Context, id int64) error {
	m.touchedID = id
	return m.touchErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authTestConfig(enabled bool) *config.Config {
	return &config.Config{
		Environment: "dev",
		Service:     "claimrelay",
		Auth: config.AuthConfig{
			Enabled:         enabled,
			KeyPrefixLength: 8,
		},
	}
}

// newTestKey bcrypt-hashes the plaintext at the minimum cost so the suite
// stays fast.
func newTestKey(t *testing.T, id int64, plaintext string) db.APIKey {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.MinCost)
	require.NoError(t, err)
	return db.APIKey{ID: id, Name: "test-key", Prefix: plaintext[:8], KeyHash: string(hash)}
}

func runAuth(t *testing.T, cfg *config.Config, keys KeyStore, apiKey string) (*httptest.ResponseRecorder, bool, int64) {
	t.Helper()
	srv, err := NewServer(cfg, keys, discardLogger())
	require.NoError(t, err)

	var (
		reached bool
		keyID   int64
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		keyID = types.GetAPIKeyID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/notifications/goods-return", nil)
	if apiKey != "" {
		r.Header.Set("X-Api-Key", apiKey)
	}
	srv.AuthMiddleware(next).ServeHTTP(rec, r)

	return rec, reached, keyID
}

func TestAuthMiddleware_ValidKey(t *testing.T) {
	store := &mockKeyStore{keys: []db.APIKey{newTestKey(t, 7, "crk_12ab_rest_of_key")}}

	rec, reached, keyID := runAuth(t, authTestConfig(true), store, "crk_12ab_rest_of_key")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, reached)
	assert.Equal(t, int64(7), keyID)
	assert.Equal(t, int64(7), store.touchedID)
}

func TestAuthMiddleware_MissingKey(t *testing.T) {
	rec, reached, _ := runAuth(t, authTestConfig(true), &mockKeyStore{}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Contains(t, rec.Body.String(), string(types.ErrCodeAuthKeyMissing))
}

func TestAuthMiddleware_WrongKey(t *testing.T) {
	store := &mockKeyStore{keys: []db.APIKey{newTestKey(t, 7, "crk_12ab_rest_of_key")}}

	rec, reached, _ := runAuth(t, authTestConfig(true), store, "crk_12ab_wrong_secret")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Contains(t, rec.Body.String(), string(types.ErrCodeAuthKeyInvalid))
}

func TestAuthMiddleware_KeyShorterThanPrefix(t *testing.T) {
	rec, reached, _ := runAuth(t, authTestConfig(true), &mockKeyStore{}, "abc")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Contains(t, rec.Body.String(), string(types.ErrCodeAuthKeyInvalid))
}

func TestAuthMiddleware_StoreErrorSurfaces(t *testing.T) {
	store := &mockKeyStore{findErr: types.NewAppError(types.ErrCodeInternalDB, "db down", nil)}

	rec, reached, _ := runAuth(t, authTestConfig(true), store, "crk_12ab_rest_of_key")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, reached)
}

func TestAuthMiddleware_DisabledPassesThrough(t *testing.T) {
	srv, err := NewServer(authTestConfig(false), nil, discardLogger())
	require.NoError(t, err)

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	srv.AuthMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/anything", nil))

	assert.True(t, reached)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthMiddleware_TouchFailureDoesNotBlock(t *testing.T) {
	store := &mockKeyStore{
		keys:     []db.APIKey{newTestKey(t, 7, "crk_12ab_rest_of_key")},
		touchErr: errors.New("deadlock detected"),
	}

	rec, reached, _ := runAuth(t, authTestConfig(true), store, "crk_12ab_rest_of_key")

	assert.True(t, reached)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
