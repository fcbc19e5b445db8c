package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vibast-solutions/ms-go-billing/app/entity"
	"github.com/vibast-solutions/ms-go-billing/app/gateway"
	"github.com/vibast-solutions/ms-go-billing/app/plan"
)

// HookFunc receives the updated subscription snapshot, the resolved plan (nil
// when the catalog lookup fails), and the triggering event.
type HookFunc func(ctx context.Context, sub *entity.Subscription, pl *plan.Plan, evt *gateway.CallbackEvent) error

// Hooks are the user-supplied callbacks fired after a classified transition is
// persisted. Every hook except OnPaymentFailure requires a matched
// subscription; OnPaymentFailure fires for every failure event, matched or not.
type Hooks struct {
	OnPaymentSuccess  HookFunc
	OnPaymentFailure  HookFunc
	OnPaymentPending  HookFunc
	OnCancelled       HookFunc
	OnHalted          HookFunc
	OnCompleted       HookFunc
	OnPaused          HookFunc
	OnResumed         HookFunc
	OnMandateModified HookFunc
}

// HandleGatewayCallback verifies, records, classifies, and dispatches one
// inbound gateway callback. The only error it returns is ErrHashMismatch;
// everything past the hash check is swallowed so the gateway always receives a
// success acknowledgment and does not retry.
func (s *SubscriptionService) HandleGatewayCallback(ctx context.Context, evt *gateway.CallbackEvent) error {
	logger := s.logger.WithField("txn_id", evt.TxnID)

	if !gateway.VerifyReverseHash(s.payuCfg.MerchantKey, s.payuCfg.MerchantSalt, evt) {
		logger.Warn("rejecting gateway callback: hash mismatch")
		s.recordCallback(ctx, evt, nil, entity.WebhookCallbackStatusRejected, "hash mismatch")
		return ErrHashMismatch
	}

	sub, err := s.locateSubscription(ctx, evt)
	if err != nil {
		logger.WithError(err).Error("subscription lookup failed during callback dispatch")
	}

	s.recordCallback(ctx, evt, sub, entity.WebhookCallbackStatusProcessed, "")

	classification := Classify(evt)
	logger = logger.WithField("classification", classification.String())
	if classification == ClassificationNone {
		logger.Info("gateway callback matched no transition, acknowledging without state change")
		return nil
	}

	if sub == nil && classification != ClassificationPaymentFailure {
		logger.Warn("gateway callback matched no subscription, dropping")
		return nil
	}

	s.dispatch(ctx, classification, sub, evt)
	return nil
}

// locateSubscription tries the stored gateway transaction id first, then the
// subscription id embedded in metadata slot 4.
func (s *SubscriptionService) locateSubscription(ctx context.Context, evt *gateway.CallbackEvent) (*entity.Subscription, error) {
	sub, err := s.subscriptionRepo.FindByGatewayTxnID(ctx, evt.TxnID)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		return sub, nil
	}
	if evt.UDF[3] == "" {
		return nil, nil
	}
	return s.subscriptionRepo.FindByID(ctx, evt.UDF[3])
}

func (s *SubscriptionService) dispatch(ctx context.Context, classification Classification, sub *entity.Subscription, evt *gateway.CallbackEvent) {
	logger := s.logger.WithField("classification", classification.String())
	if sub != nil {
		logger = logger.WithField("subscription_id", sub.ID)
	}

	now := time.Now().UTC()
	var hook HookFunc

	switch classification {
	case ClassificationPaymentSuccess:
		hook = s.hooks.OnPaymentSuccess
		if sub.Terminal() {
			logger.Warn("ignoring charge for terminal subscription")
			return
		}
		oldStatus := sub.Status
		sub.Status = entity.SubscriptionStatusActive
		if evt.PaymentID != "" {
			paymentID := evt.PaymentID
			sub.GatewayPaymentID = &paymentID
		}
		sub.PaidCount++
		if sub.TotalCount != nil {
			remaining := *sub.TotalCount - sub.PaidCount
			if remaining < 0 {
				remaining = 0
			}
			sub.RemainingCount = &remaining
		} else {
			sub.RemainingCount = nil
		}
		sub.UpdatedAt = now
		if err := s.persistTransition(ctx, sub, oldStatus, "payment_captured", now); err != nil {
			logger.WithError(err).Error("failed to persist charge transition")
			return
		}

		// First charge activates: a second, independent update stamps the
		// period start.
		sub.CurrentStart = &now
		sub.UpdatedAt = now
		if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
			logger.WithError(err).Error("failed to persist activation transition")
		}

	case ClassificationPaymentFailure:
		hook = s.hooks.OnPaymentFailure
		if sub != nil && !sub.Terminal() {
			oldStatus := sub.Status
			sub.Status = entity.SubscriptionStatusPending
			sub.UpdatedAt = now
			if err := s.persistTransition(ctx, sub, oldStatus, "payment_failed", now); err != nil {
				logger.WithError(err).Error("failed to persist failure transition")
			}
		}

	case ClassificationPaymentPending:
		hook = s.hooks.OnPaymentPending
		if !s.applySimpleTransition(ctx, sub, entity.SubscriptionStatusPending, "payment_pending", now, nil) {
			return
		}

	case ClassificationHalted:
		hook = s.hooks.OnHalted
		if !s.applySimpleTransition(ctx, sub, entity.SubscriptionStatusHalted, "subscription_halted", now, nil) {
			return
		}

	case ClassificationCompleted:
		hook = s.hooks.OnCompleted
		mutate := func(sub *entity.Subscription) {
			sub.EndedAt = &now
			zero := int32(0)
			sub.RemainingCount = &zero
		}
		if !s.applySimpleTransition(ctx, sub, entity.SubscriptionStatusCompleted, "subscription_completed", now, mutate) {
			return
		}

	case ClassificationCancelled, ClassificationMandateRevoked:
		hook = s.hooks.OnCancelled
		mutate := func(sub *entity.Subscription) {
			sub.CancelledAt = &now
			sub.EndedAt = &now
		}
		if !s.applySimpleTransition(ctx, sub, entity.SubscriptionStatusCancelled, "subscription_cancelled", now, mutate) {
			return
		}

	case ClassificationPaused:
		hook = s.hooks.OnPaused
		mutate := func(sub *entity.Subscription) {
			sub.PausedAt = &now
		}
		if !s.applySimpleTransition(ctx, sub, entity.SubscriptionStatusPaused, "subscription_paused", now, mutate) {
			return
		}

	case ClassificationResumed:
		hook = s.hooks.OnResumed
		mutate := func(sub *entity.Subscription) {
			sub.PausedAt = nil
		}
		if !s.applySimpleTransition(ctx, sub, entity.SubscriptionStatusActive, "subscription_resumed", now, mutate) {
			return
		}

	case ClassificationMandateModified:
		hook = s.hooks.OnMandateModified
		if sub.Terminal() {
			logger.Warn("ignoring mandate modification for terminal subscription")
			return
		}
		sub.UpdatedAt = now
		if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
			logger.WithError(err).Error("failed to persist mandate modification")
			return
		}
	}

	s.fireHook(ctx, hook, sub, evt)
}

// applySimpleTransition performs the one-update status change shared by most
// branches. It reports whether the hook should still fire.
func (s *SubscriptionService) applySimpleTransition(ctx context.Context, sub *entity.Subscription, newStatus int32, eventType string, now time.Time, mutate func(*entity.Subscription)) bool {
	logger := s.logger.WithField("subscription_id", sub.ID)
	if sub.Terminal() {
		logger.WithField("event_type", eventType).Warn("ignoring transition for terminal subscription")
		return false
	}

	oldStatus := sub.Status
	sub.Status = newStatus
	if mutate != nil {
		mutate(sub)
	}
	sub.UpdatedAt = now

	if err := s.persistTransition(ctx, sub, oldStatus, eventType, now); err != nil {
		logger.WithError(err).WithField("event_type", eventType).Error("failed to persist transition")
		return false
	}
	return true
}

func (s *SubscriptionService) fireHook(ctx context.Context, hook HookFunc, sub *entity.Subscription, evt *gateway.CallbackEvent) {
	if hook == nil {
		return
	}

	var resolved *plan.Plan
	if sub != nil {
		pl, err := s.catalog.FindByName(sub.PlanName)
		if err != nil {
			s.logger.WithError(err).WithField("plan_name", sub.PlanName).Warn("plan lookup failed, firing hook without plan")
		} else {
			resolved = pl
		}
	}

	if err := hook(ctx, sub, resolved, evt); err != nil {
		s.logger.WithError(err).Error("transition hook failed")
	}
}

func (s *SubscriptionService) recordCallback(ctx context.Context, evt *gateway.CallbackEvent, sub *entity.Subscription, status int32, errText string) {
	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode callback payload")
		payload = []byte("{}")
	}

	now := time.Now().UTC()
	callback := &entity.WebhookCallback{
		GatewayTxnID: evt.TxnID,
		Hash:         evt.Hash,
		PayloadJSON:  string(payload),
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if sub != nil {
		callback.SubscriptionID = &sub.ID
	}
	if errText != "" {
		callback.Error = &errText
	}

	if err := s.callbackRepo.Create(ctx, callback); err != nil {
		s.logger.WithError(err).Error("failed to record gateway callback")
	}
}
