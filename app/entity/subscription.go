package entity

import "time"

const (
	SubscriptionStatusCreated       int32 = 0
	SubscriptionStatusAuthenticated int32 = 1
	SubscriptionStatusPending       int32 = 2
	SubscriptionStatusActive        int32 = 10
	SubscriptionStatusPaused        int32 = 11
	SubscriptionStatusHalted        int32 = 12
	SubscriptionStatusCancelled     int32 = 20
	SubscriptionStatusCompleted     int32 = 21
	SubscriptionStatusExpired       int32 = 22
)

const (
	MandateTypeCard       = "card"
	MandateTypeUPI        = "upi"
	MandateTypeNetbanking = "netbanking"
)

const (
	CustomerTypeUser         = "user"
	CustomerTypeOrganization = "organization"
)

type Subscription struct {
	ID string

	GatewaySubscriptionID *string

	PlanName     string
	BillingCycle string

	TotalCount     *int32
	PaidCount      int32
	RemainingCount *int32
	Quantity       int32

	GatewayTxnID     string
	GatewayPaymentID *string
	MandateType      string

	CustomerType string
	UserID       *string
	OrgID        *string
	ReferenceID  string

	Status int32

	CurrentStart *time.Time
	CurrentEnd   *time.Time
	PausedAt     *time.Time
	CancelledAt  *time.Time
	EndedAt      *time.Time
	TrialStart   *time.Time
	TrialEnd     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terminal reports whether no further automated transition is defined.
func (s *Subscription) Terminal() bool {
	switch s.Status {
	case SubscriptionStatusCancelled, SubscriptionStatusCompleted, SubscriptionStatusExpired:
		return true
	default:
		return false
	}
}
