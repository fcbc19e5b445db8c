package repository

import (
	"context"

	"github.com/vibast-solutions/ms-go-billing/app/entity"
)

type SubscriptionEventRepository struct {
	db DBTX
}

func NewSubscriptionEventRepository(db DBTX) *SubscriptionEventRepository {
	return &SubscriptionEventRepository{db: db}
}

func (r *SubscriptionEventRepository) Create(ctx context.Context, event *entity.SubscriptionEvent) error {
	query := `
		INSERT INTO subscription_events (
			subscription_id, event_type, old_status, new_status, gateway_payment_id, payload_json, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		event.SubscriptionID,
		event.EventType,
		nullableInt32Value(event.OldStatus),
		event.NewStatus,
		nullableStringValue(event.GatewayPaymentID),
		nullableStringValue(event.PayloadJSON),
		event.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	event.ID = uint64(id)

	return nil
}
