package entity

import "time"

type SubscriptionEvent struct {
	ID uint64

	SubscriptionID string

	EventType string

	OldStatus *int32
	NewStatus int32

	GatewayPaymentID *string
	PayloadJSON      *string

	CreatedAt time.Time
}
