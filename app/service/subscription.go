package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-billing/app/entity"
	"github.com/vibast-solutions/ms-go-billing/app/factory"
	"github.com/vibast-solutions/ms-go-billing/app/gateway"
	"github.com/vibast-solutions/ms-go-billing/app/plan"
	"github.com/vibast-solutions/ms-go-billing/app/repository"
	"github.com/vibast-solutions/ms-go-billing/app/types"
	"github.com/vibast-solutions/ms-go-billing/config"
)

const defaultListLimit = int32(100)

type subscriptionRepository interface {
	Create(ctx context.Context, sub *entity.Subscription) error
	Update(ctx context.Context, sub *entity.Subscription) error
	FindByID(ctx context.Context, id string) (*entity.Subscription, error)
	FindByGatewayTxnID(ctx context.Context, txnID string) (*entity.Subscription, error)
	List(ctx context.Context, filter repository.SubscriptionFilter) ([]*entity.Subscription, error)
}

type subscriptionEventRepository interface {
	Create(ctx context.Context, event *entity.SubscriptionEvent) error
}

type webhookCallbackRepository interface {
	Create(ctx context.Context, callback *entity.WebhookCallback) error
}

type gatewayClient interface {
	MandateStatus(ctx context.Context, txnID string) (gateway.Result, error)
	ModifyMandate(ctx context.Context, txnID, details string) (gateway.Result, error)
	Refund(ctx context.Context, paymentID, refundID, amount string) (gateway.Result, error)
	VerifyPayment(ctx context.Context, txnID string) (gateway.Result, error)
	ValidateVPA(ctx context.Context, vpa string) (gateway.Result, error)
}

type SubscriptionService struct {
	subscriptionRepo subscriptionRepository
	eventRepo        subscriptionEventRepository
	callbackRepo     webhookCallbackRepository
	gateway          gatewayClient
	catalog          *plan.Catalog
	payuCfg          config.PayUConfig
	billingCfg       config.BillingConfig
	hooks            Hooks
	logger           logrus.FieldLogger
}

func NewSubscriptionService(
	subscriptionRepo subscriptionRepository,
	eventRepo subscriptionEventRepository,
	callbackRepo webhookCallbackRepository,
	gatewayClient gatewayClient,
	catalog *plan.Catalog,
	payuCfg config.PayUConfig,
	billingCfg config.BillingConfig,
	hooks Hooks,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		eventRepo:        eventRepo,
		callbackRepo:     callbackRepo,
		gateway:          gatewayClient,
		catalog:          catalog,
		payuCfg:          payuCfg,
		billingCfg:       billingCfg,
		hooks:            hooks,
		logger:           factory.NewModuleLogger("billing-service"),
	}
}

func (s *SubscriptionService) CreateSubscription(ctx context.Context, req *types.CreateSubscriptionRequest) (*entity.Subscription, *types.CheckoutParams, error) {
	resolved, err := s.resolvePlan(req.PlanName, req.PlanId)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	sub := &entity.Subscription{
		ID:           uuid.NewString(),
		PlanName:     resolved.Name,
		BillingCycle: resolved.BillingCycle,
		PaidCount:    0,
		Quantity:     req.Quantity,
		GatewayTxnID: uuid.NewString(),
		MandateType:  req.MandateType,
		CustomerType: req.CustomerType,
		UserID:       normalizeOptionalString(req.UserId),
		OrgID:        normalizeOptionalString(req.OrgId),
		ReferenceID:  req.ReferenceId,
		Status:       entity.SubscriptionStatusCreated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if resolved.TotalCount > 0 {
		total := resolved.TotalCount
		remaining := resolved.TotalCount
		sub.TotalCount = &total
		sub.RemainingCount = &remaining
	}
	if resolved.TrialDays > 0 {
		trialStart := now
		trialEnd := now.AddDate(0, 0, int(resolved.TrialDays))
		sub.TrialStart = &trialStart
		sub.TrialEnd = &trialEnd
	}

	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrSubscriptionAlreadyExists) {
			return nil, nil, ErrSubscriptionAlreadyExists
		}
		return nil, nil, err
	}

	_ = s.eventRepo.Create(ctx, &entity.SubscriptionEvent{
		SubscriptionID: sub.ID,
		EventType:      "subscription_created",
		NewStatus:      sub.Status,
		CreatedAt:      now,
	})

	return sub, s.buildCheckoutParams(sub, resolved, req), nil
}

func (s *SubscriptionService) GetSubscription(ctx context.Context, id string) (*entity.Subscription, error) {
	sub, err := s.subscriptionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	return sub, nil
}

func (s *SubscriptionService) ListSubscriptions(ctx context.Context, req *types.ListSubscriptionsRequest) ([]*entity.Subscription, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	return s.subscriptionRepo.List(ctx, repository.SubscriptionFilter{
		UserID:      req.UserId,
		OrgID:       req.OrgId,
		ReferenceID: req.ReferenceId,
		PlanName:    req.PlanName,
		HasStatus:   req.HasStatus,
		Status:      req.Status,
		Limit:       limit,
		Offset:      req.Offset,
	})
}

func (s *SubscriptionService) CancelSubscription(ctx context.Context, id string) (*entity.Subscription, error) {
	sub, err := s.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Terminal() {
		return nil, fmt.Errorf("%w: subscription is already in a terminal status", ErrInvalidStatus)
	}

	now := time.Now().UTC()
	oldStatus := sub.Status
	sub.Status = entity.SubscriptionStatusCancelled
	sub.CancelledAt = &now
	sub.EndedAt = &now
	sub.UpdatedAt = now

	if err := s.persistTransition(ctx, sub, oldStatus, "subscription_cancelled", now); err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *SubscriptionService) PauseSubscription(ctx context.Context, id string) (*entity.Subscription, error) {
	sub, err := s.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != entity.SubscriptionStatusActive {
		return nil, fmt.Errorf("%w: only active subscriptions can be paused", ErrInvalidStatus)
	}

	now := time.Now().UTC()
	oldStatus := sub.Status
	sub.Status = entity.SubscriptionStatusPaused
	sub.PausedAt = &now
	sub.UpdatedAt = now

	if err := s.persistTransition(ctx, sub, oldStatus, "subscription_paused", now); err != nil {
		return nil, err
	}

	return sub, nil
}

// ResumeSubscription reactivates a paused subscription. Halted subscriptions
// resume through this same call; that is the manual resolution path.
func (s *SubscriptionService) ResumeSubscription(ctx context.Context, id string) (*entity.Subscription, error) {
	sub, err := s.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != entity.SubscriptionStatusPaused && sub.Status != entity.SubscriptionStatusHalted {
		return nil, fmt.Errorf("%w: only paused or halted subscriptions can be resumed", ErrInvalidStatus)
	}

	now := time.Now().UTC()
	oldStatus := sub.Status
	sub.Status = entity.SubscriptionStatusActive
	sub.PausedAt = nil
	sub.UpdatedAt = now

	if err := s.persistTransition(ctx, sub, oldStatus, "subscription_resumed", now); err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *SubscriptionService) persistTransition(ctx context.Context, sub *entity.Subscription, oldStatus int32, eventType string, now time.Time) error {
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}

	_ = s.eventRepo.Create(ctx, &entity.SubscriptionEvent{
		SubscriptionID:   sub.ID,
		EventType:        eventType,
		OldStatus:        &oldStatus,
		NewStatus:        sub.Status,
		GatewayPaymentID: sub.GatewayPaymentID,
		CreatedAt:        now,
	})

	return nil
}

func (s *SubscriptionService) resolvePlan(name, id string) (*plan.Plan, error) {
	var resolved *plan.Plan
	var err error
	if strings.TrimSpace(name) != "" {
		resolved, err = s.catalog.FindByName(name)
	} else {
		resolved, err = s.catalog.FindByID(id)
	}
	if err != nil {
		switch {
		case errors.Is(err, plan.ErrSubscriptionsDisabled):
			return nil, ErrSubscriptionsDisabled
		case errors.Is(err, plan.ErrPlanNotFound):
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return resolved, nil
}

func (s *SubscriptionService) buildCheckoutParams(sub *entity.Subscription, resolved *plan.Plan, req *types.CreateSubscriptionRequest) *types.CheckoutParams {
	payReq := &gateway.PaymentRequest{
		TxnID:       sub.GatewayTxnID,
		Amount:      formatAmount(resolved.AmountCents * int64(sub.Quantity)),
		ProductInfo: s.billingCfg.ProductInfo,
		FirstName:   req.FirstName,
		Email:       req.Email,
		UDF: [10]string{
			sub.CustomerType,
			req.UserId,
			req.OrgId,
			sub.ID,
			sub.ReferenceID,
			req.Udf6,
			req.Udf7,
			req.Udf8,
			req.Udf9,
			req.Udf10,
		},
	}

	return &types.CheckoutParams{
		PaymentUrl:  s.payuCfg.PaymentURL,
		Key:         s.payuCfg.MerchantKey,
		TxnId:       payReq.TxnID,
		Amount:      payReq.Amount,
		ProductInfo: payReq.ProductInfo,
		FirstName:   payReq.FirstName,
		Email:       payReq.Email,
		Udf1:        payReq.UDF[0],
		Udf2:        payReq.UDF[1],
		Udf3:        payReq.UDF[2],
		Udf4:        payReq.UDF[3],
		Udf5:        payReq.UDF[4],
		Udf6:        payReq.UDF[5],
		Udf7:        payReq.UDF[6],
		Udf8:        payReq.UDF[7],
		Udf9:        payReq.UDF[8],
		Udf10:       payReq.UDF[9],
		Hash:        gateway.PaymentHash(s.payuCfg.MerchantKey, s.payuCfg.MerchantSalt, payReq),
	}
}

func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func normalizeOptionalString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
