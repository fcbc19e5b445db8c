package service

import (
	"strings"

	"github.com/vibast-solutions/ms-go-billing/app/gateway"
)

// Classification is the single tag a verified callback maps onto. Exactly one
// transition handler runs per classification.
type Classification int32

const (
	ClassificationNone Classification = iota
	ClassificationPaymentSuccess
	ClassificationPaymentFailure
	ClassificationPaymentPending
	ClassificationCancelled
	ClassificationHalted
	ClassificationCompleted
	ClassificationPaused
	ClassificationResumed
	ClassificationMandateRevoked
	ClassificationMandateModified
)

func (c Classification) String() string {
	switch c {
	case ClassificationPaymentSuccess:
		return "payment_success"
	case ClassificationPaymentFailure:
		return "payment_failure"
	case ClassificationPaymentPending:
		return "payment_pending"
	case ClassificationCancelled:
		return "cancelled"
	case ClassificationHalted:
		return "halted"
	case ClassificationCompleted:
		return "completed"
	case ClassificationPaused:
		return "paused"
	case ClassificationResumed:
		return "resumed"
	case ClassificationMandateRevoked:
		return "mandate_revoked"
	case ClassificationMandateModified:
		return "mandate_modified"
	default:
		return "none"
	}
}

// Classify maps a callback onto its transition tag. Mandate lifecycle notices
// take priority over the status field; status matching is case-insensitive and
// ordered. An event matching nothing classifies as none, which is acknowledged
// without a state change.
func Classify(evt *gateway.CallbackEvent) Classification {
	switch strings.ToLower(strings.TrimSpace(evt.NotificationType)) {
	case "mandate_revoked", "si_cancelled":
		return ClassificationMandateRevoked
	case "mandate_modified", "si_modified":
		return ClassificationMandateModified
	}

	switch strings.ToLower(strings.TrimSpace(evt.Status)) {
	case "success", "captured":
		return ClassificationPaymentSuccess
	case "failure", "failed":
		return ClassificationPaymentFailure
	case "pending":
		return ClassificationPaymentPending
	case "cancelled":
		return ClassificationCancelled
	case "halted":
		return ClassificationHalted
	case "completed":
		return ClassificationCompleted
	case "paused":
		return ClassificationPaused
	case "resumed", "active":
		return ClassificationResumed
	default:
		return ClassificationNone
	}
}
