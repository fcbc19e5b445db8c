package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-billing/app/entity"
	"github.com/vibast-solutions/ms-go-billing/app/types"
)

func SubscriptionToAPI(item *entity.Subscription) *types.Subscription {
	if item == nil {
		return nil
	}

	return &types.Subscription{
		Id:                    item.ID,
		GatewaySubscriptionId: derefString(item.GatewaySubscriptionID),
		PlanName:              item.PlanName,
		BillingCycle:          item.BillingCycle,
		TotalCount:            cloneInt32(item.TotalCount),
		PaidCount:             item.PaidCount,
		RemainingCount:        cloneInt32(item.RemainingCount),
		Quantity:              item.Quantity,
		GatewayTxnId:          item.GatewayTxnID,
		GatewayPaymentId:      derefString(item.GatewayPaymentID),
		MandateType:           item.MandateType,
		CustomerType:          item.CustomerType,
		UserId:                derefString(item.UserID),
		OrgId:                 derefString(item.OrgID),
		ReferenceId:           item.ReferenceID,
		Status:                StatusToAPI(item.Status),
		CurrentStart:          formatTime(item.CurrentStart),
		CurrentEnd:            formatTime(item.CurrentEnd),
		PausedAt:              formatTime(item.PausedAt),
		CancelledAt:           formatTime(item.CancelledAt),
		EndedAt:               formatTime(item.EndedAt),
		TrialStart:            formatTime(item.TrialStart),
		TrialEnd:              formatTime(item.TrialEnd),
		CreatedAt:             item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:             item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func SubscriptionsToAPI(items []*entity.Subscription) []*types.Subscription {
	result := make([]*types.Subscription, 0, len(items))
	for _, item := range items {
		result = append(result, SubscriptionToAPI(item))
	}
	return result
}

func StatusToAPI(status int32) string {
	switch status {
	case entity.SubscriptionStatusCreated:
		return "created"
	case entity.SubscriptionStatusAuthenticated:
		return "authenticated"
	case entity.SubscriptionStatusPending:
		return "pending"
	case entity.SubscriptionStatusActive:
		return "active"
	case entity.SubscriptionStatusPaused:
		return "paused"
	case entity.SubscriptionStatusHalted:
		return "halted"
	case entity.SubscriptionStatusCancelled:
		return "cancelled"
	case entity.SubscriptionStatusCompleted:
		return "completed"
	case entity.SubscriptionStatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func cloneInt32(v *int32) *int32 {
	if v == nil {
		return nil
	}
	cloned := *v
	return &cloned
}

func formatTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
