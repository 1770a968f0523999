package db

import (
	"context"
	"time"

	"claimrelay/internal/types"
)

// APIKey is a stored API credential. Keys use bcrypt hashing; plaintext
// secrets are never stored. Prefix is the short public fragment of the key
// used to narrow the candidate set before the bcrypt comparison.
type APIKey struct {
	ID         int64
	Name       string
	Prefix     string
	KeyHash    string
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// APIKeyRepository loads API credentials for request authentication.
type APIKeyRepository struct {
	db DBTX
}

// NewAPIKeyRepository creates a new APIKeyRepository.
func NewAPIKeyRepository(db DBTX) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// FindActiveByPrefix returns the non-revoked keys matching the prefix. The
// caller runs the bcrypt comparison; more than one match is possible since
// prefixes are not unique.
func (r *APIKeyRepository) FindActiveByPrefix(ctx context.Context, prefix string) ([]APIKey, error) {
	query := `SELECT id, name, prefix, key_hash, last_used_at, created_at
		FROM api_keys
		WHERE prefix = $1 AND revoked_at IS NULL`

	rows, err := r.db.Query(ctx, query, prefix)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query api keys", err)
	}
	defer rows.Close()

	var keys []APIKey
	for rows.Next() {
		var k APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.Prefix, &k.KeyHash, &k.LastUsedAt, &k.CreatedAt); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan api key row", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate api key rows", err)
	}

	return keys, nil
}

// TouchUsed records the last successful use of a key. Best effort: callers
// absorb the error since authentication already succeeded.
func (r *APIKeyRepository) TouchUsed(ctx context.Context, id int64) error {
	query := `UPDATE api_keys SET last_used_at = now() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to update api key usage", err)
	}
	return nil
}
