package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-billing/app/entity"
	"github.com/vibast-solutions/ms-go-billing/app/factory"
	"github.com/vibast-solutions/ms-go-billing/app/mapper"
	"github.com/vibast-solutions/ms-go-billing/app/service"
	"github.com/vibast-solutions/ms-go-billing/app/types"
)

type SubscriptionController struct {
	subscriptionService *service.SubscriptionService
	logger              logrus.FieldLogger
}

func NewSubscriptionController(subscriptionService *service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
		logger:              factory.NewModuleLogger("billing-controller"),
	}
}

func (c *SubscriptionController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *SubscriptionController) CreateSubscription(ctx echo.Context) error {
	req, err := types.NewCreateSubscriptionRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, checkout, err := c.subscriptionService.CreateSubscription(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionsDisabled):
			return c.writeError(ctx, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrPlanNotFound):
			return c.writeError(ctx, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSubscriptionAlreadyExists):
			return c.writeError(ctx, http.StatusConflict, err.Error())
		default:
			c.logger.WithError(err).Error("Create subscription failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, &types.SubscriptionEnvelopeResponse{
		Subscription: mapper.SubscriptionToAPI(item),
		Checkout:     checkout,
	})
}

func (c *SubscriptionController) GetSubscription(ctx echo.Context) error {
	req, err := types.NewSubscriptionIDRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.subscriptionService.GetSubscription(ctx.Request().Context(), req.Id)
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "subscription not found")
		}
		c.logger.WithError(err).Error("Get subscription failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.SubscriptionEnvelopeResponse{Subscription: mapper.SubscriptionToAPI(item)})
}

func (c *SubscriptionController) ListSubscriptions(ctx echo.Context) error {
	req, err := types.NewListSubscriptionsRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.subscriptionService.ListSubscriptions(ctx.Request().Context(), req)
	if err != nil {
		c.logger.WithError(err).Error("List subscriptions failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListSubscriptionsResponse{Subscriptions: mapper.SubscriptionsToAPI(items)})
}

func (c *SubscriptionController) CancelSubscription(ctx echo.Context) error {
	return c.transition(ctx, c.subscriptionService.CancelSubscription, "Cancel subscription failed")
}

func (c *SubscriptionController) PauseSubscription(ctx echo.Context) error {
	return c.transition(ctx, c.subscriptionService.PauseSubscription, "Pause subscription failed")
}

func (c *SubscriptionController) ResumeSubscription(ctx echo.Context) error {
	return c.transition(ctx, c.subscriptionService.ResumeSubscription, "Resume subscription failed")
}

func (c *SubscriptionController) CheckMandateStatus(ctx echo.Context) error {
	req, err := types.NewSubscriptionIDRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.subscriptionService.CheckMandateStatus(ctx.Request().Context(), req.Id)
	if err != nil {
		return c.writeGatewayError(ctx, err, "Check mandate status failed")
	}

	return ctx.JSON(http.StatusOK, &types.GatewayResultResponse{Result: result})
}

func (c *SubscriptionController) VerifyPayment(ctx echo.Context) error {
	req, err := types.NewSubscriptionIDRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.subscriptionService.VerifyPayment(ctx.Request().Context(), req.Id)
	if err != nil {
		return c.writeGatewayError(ctx, err, "Verify payment failed")
	}

	return ctx.JSON(http.StatusOK, &types.GatewayResultResponse{Result: result})
}

func (c *SubscriptionController) RefundCharge(ctx echo.Context) error {
	req, err := types.NewRefundRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.subscriptionService.RefundCharge(ctx.Request().Context(), req.Id, req.RefundId, req.Amount)
	if err != nil {
		return c.writeGatewayError(ctx, err, "Refund charge failed")
	}

	return ctx.JSON(http.StatusOK, &types.GatewayResultResponse{Result: result})
}

func (c *SubscriptionController) ValidateVPA(ctx echo.Context) error {
	req, err := types.NewValidateVPARequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.subscriptionService.ValidateVPA(ctx.Request().Context(), req.Vpa)
	if err != nil {
		return c.writeGatewayError(ctx, err, "Validate VPA failed")
	}

	return ctx.JSON(http.StatusOK, &types.GatewayResultResponse{Result: result})
}

// HandleGatewayCallback acknowledges every verified callback with 200 so the
// gateway stops retrying; only a hash mismatch or an unreadable body is
// rejected.
func (c *SubscriptionController) HandleGatewayCallback(ctx echo.Context) error {
	req, err := types.NewGatewayCallbackRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if err := c.subscriptionService.HandleGatewayCallback(ctx.Request().Context(), req.Event()); err != nil {
		if errors.Is(err, service.ErrHashMismatch) {
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		}
		c.logger.WithError(err).Error("Handle gateway callback failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.String(http.StatusOK, "OK")
}

func (c *SubscriptionController) transition(ctx echo.Context, op func(context.Context, string) (*entity.Subscription, error), logMessage string) error {
	req, err := types.NewSubscriptionIDRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := op(ctx.Request().Context(), req.Id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			return c.writeError(ctx, http.StatusNotFound, "subscription not found")
		case errors.Is(err, service.ErrInvalidStatus):
			return c.writeError(ctx, http.StatusConflict, err.Error())
		default:
			c.logger.WithError(err).Error(logMessage)
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.SubscriptionEnvelopeResponse{Subscription: mapper.SubscriptionToAPI(item)})
}

func (c *SubscriptionController) writeGatewayError(ctx echo.Context, err error, logMessage string) error {
	switch {
	case errors.Is(err, service.ErrSubscriptionNotFound):
		return c.writeError(ctx, http.StatusNotFound, "subscription not found")
	case errors.Is(err, service.ErrInvalidStatus):
		return c.writeError(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrGatewayFailure):
		c.logger.WithError(err).Error(logMessage)
		return c.writeError(ctx, http.StatusInternalServerError, err.Error())
	default:
		c.logger.WithError(err).Error(logMessage)
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
}

func (c *SubscriptionController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
