package store

import "context"

type AuditStore struct {
	db DB
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

// Log appends an audit row in the caller's transaction, so the audit trail
// commits or rolls back together with the transfer it describes.
func (s *AuditStore) Log(ctx context.Context, tx Execer, id string, actorMerchantID int64, action, entityType, entityID, data string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_merchant_id, action, entity_type, entity_id, data)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, actorMerchantID, action, entityType, entityID, data)
	return err
}
