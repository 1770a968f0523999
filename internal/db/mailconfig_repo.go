package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"claimrelay/internal/types"
)

// MailConfigRepository supplies per-reseller outbound email configuration.
// A reseller without a configured from address yields an empty string, not
// an error; the dispatcher skips the email channels in that case.
type MailConfigRepository struct {
	db DBTX
}

// NewMailConfigRepository creates a new MailConfigRepository.
func NewMailConfigRepository(db DBTX) *MailConfigRepository {
	return &MailConfigRepository{db: db}
}

// FromAddress returns the reseller's outbound email address, or "" when the
// reseller has none configured.
func (r *MailConfigRepository) FromAddress(ctx context.Context, resellerID int64) (string, error) {
	query := `SELECT COALESCE(from_email, '') FROM resellers WHERE id = $1`

	var from string
	err := r.db.QueryRow(ctx, query, resellerID).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternalDB, "failed to query from address", err)
	}
	return from, nil
}

// PermittedRecipients returns the employee addresses subscribed to the given
// event key for the reseller, ordered for deterministic batches.
func (r *MailConfigRepository) PermittedRecipients(ctx context.Context, resellerID int64, eventKey string) ([]string, error) {
	query := `SELECT email FROM notification_recipients
		WHERE reseller_id = $1 AND event_key = $2 AND enabled
		ORDER BY email`

	rows, err := r.db.Query(ctx, query, resellerID, eventKey)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query permitted recipients", err)
	}
	defer rows.Close()

	var recipients []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan recipient row", err)
		}
		recipients = append(recipients, email)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate recipient rows", err)
	}

	return recipients, nil
}

// Locales returns the locale overrides configured per reseller. Resellers
// without a row fall back to the catalog's default locale.
func (r *MailConfigRepository) Locales(ctx context.Context) (map[int64]string, error) {
	query := `SELECT id, locale FROM resellers WHERE locale IS NOT NULL AND locale <> ''`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query reseller locales", err)
	}
	defer rows.Close()

	locales := make(map[int64]string)
	for rows.Next() {
		var (
			id  int64
			loc string
		)
		if err := rows.Scan(&id, &loc); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan locale row", err)
		}
		locales[id] = loc
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate locale rows", err)
	}

	return locales, nil
}

// Compile-time assertion that MailConfigRepository implements
// types.MailConfigSource.
var _ types.MailConfigSource = (*MailConfigRepository)(nil)
