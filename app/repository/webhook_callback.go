package repository

import (
	"context"

	"github.com/vibast-solutions/ms-go-billing/app/entity"
)

type WebhookCallbackRepository struct {
	db DBTX
}

func NewWebhookCallbackRepository(db DBTX) *WebhookCallbackRepository {
	return &WebhookCallbackRepository{db: db}
}

func (r *WebhookCallbackRepository) Create(ctx context.Context, callback *entity.WebhookCallback) error {
	query := `
		INSERT INTO webhook_callbacks (
			subscription_id, gateway_txn_id, hash, payload_json, status, error, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableStringValue(callback.SubscriptionID),
		callback.GatewayTxnID,
		callback.Hash,
		callback.PayloadJSON,
		callback.Status,
		nullableStringValue(callback.Error),
		callback.CreatedAt,
		callback.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	callback.ID = uint64(id)

	return nil
}
