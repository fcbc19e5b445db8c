package entity

import "time"

const (
	WebhookCallbackStatusProcessed int32 = 10
	WebhookCallbackStatusRejected  int32 = 20
)

type WebhookCallback struct {
	ID uint64

	SubscriptionID *string

	GatewayTxnID string
	Hash         string
	PayloadJSON  string
	Status       int32
	Error        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
