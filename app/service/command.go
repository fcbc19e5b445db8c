package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vibast-solutions/ms-go-billing/app/gateway"
)

// CheckMandateStatus queries the gateway for the mandate backing a
// subscription's transaction.
func (s *SubscriptionService) CheckMandateStatus(ctx context.Context, subscriptionID string) (gateway.Result, error) {
	sub, err := s.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.MandateStatus(ctx, sub.GatewayTxnID)
	return result, s.mapGatewayError(err)
}

// ModifyMandate sends a mandate amendment for a subscription's transaction.
func (s *SubscriptionService) ModifyMandate(ctx context.Context, subscriptionID, details string) (gateway.Result, error) {
	sub, err := s.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.Terminal() {
		return nil, fmt.Errorf("%w: cannot modify the mandate of a terminal subscription", ErrInvalidStatus)
	}

	result, err := s.gateway.ModifyMandate(ctx, sub.GatewayTxnID, details)
	return result, s.mapGatewayError(err)
}

// RefundCharge refunds against the last captured payment of a subscription.
func (s *SubscriptionService) RefundCharge(ctx context.Context, subscriptionID, refundID, amount string) (gateway.Result, error) {
	sub, err := s.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.GatewayPaymentID == nil || *sub.GatewayPaymentID == "" {
		return nil, fmt.Errorf("%w: subscription has no captured payment to refund", ErrInvalidStatus)
	}

	result, err := s.gateway.Refund(ctx, *sub.GatewayPaymentID, refundID, amount)
	return result, s.mapGatewayError(err)
}

// VerifyPayment asks the gateway for the authoritative state of a
// subscription's transaction. Used to reconcile when a callback was missed.
func (s *SubscriptionService) VerifyPayment(ctx context.Context, subscriptionID string) (gateway.Result, error) {
	sub, err := s.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.VerifyPayment(ctx, sub.GatewayTxnID)
	return result, s.mapGatewayError(err)
}

func (s *SubscriptionService) ValidateVPA(ctx context.Context, vpa string) (gateway.Result, error) {
	result, err := s.gateway.ValidateVPA(ctx, vpa)
	return result, s.mapGatewayError(err)
}

func (s *SubscriptionService) mapGatewayError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gateway.ErrCommandFailed) {
		return fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}
	return err
}
