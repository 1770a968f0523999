package db

import (
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"claimrelay/internal/types"
)

// AuditRepository persists one row per completed dispatch. The raw request
// payload is zstd-compressed before storage; payloads repeat the same field
// names so the compression ratio is high.
type AuditRepository struct {
	db      DBTX
	encoder *zstd.Encoder
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db DBTX) (*AuditRepository, error) {
	// Stateless EncodeAll-only encoder; safe for concurrent use.
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("NewAuditRepository: create zstd encoder: %w", err)
	}
	return &AuditRepository{db: db, encoder: enc}, nil
}

// Record inserts the dispatch audit row.
func (r *AuditRepository) Record(ctx context.Context, event *types.ComplaintEvent, rawPayload []byte, result *types.NotificationResult) error {
	query := `INSERT INTO notification_audit
		(reseller_id, complaint_id, notification_type, payload_zstd,
		 employee_email, client_email, client_sms_sent, client_sms_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`

	compressed := r.encoder.EncodeAll(rawPayload, nil)

	_, err := r.db.Exec(ctx, query,
		event.ResellerID,
		event.ComplaintID,
		int(event.Type),
		compressed,
		result.EmployeeEmail,
		result.ClientEmail,
		result.ClientSMS.Sent,
		result.ClientSMS.Message,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to insert audit record", err)
	}
	return nil
}
