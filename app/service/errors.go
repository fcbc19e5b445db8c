package service

import "errors"

var (
	ErrInvalidRequest            = errors.New("invalid request")
	ErrSubscriptionNotFound      = errors.New("subscription not found")
	ErrSubscriptionAlreadyExists = errors.New("subscription already exists")
	ErrInvalidStatus             = errors.New("invalid status")
	ErrPlanNotFound              = errors.New("plan not found")
	ErrSubscriptionsDisabled     = errors.New("subscriptions are not enabled")
	ErrHashMismatch              = errors.New("callback hash mismatch")
	ErrGatewayFailure            = errors.New("gateway request failed")
)
