package types

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-billing/app/gateway"
)

type CreateSubscriptionRequest struct {
	PlanName     string `json:"plan_name"`
	PlanId       string `json:"plan_id"`
	Quantity     int32  `json:"quantity"`
	CustomerType string `json:"customer_type"`
	UserId       string `json:"user_id"`
	OrgId        string `json:"org_id"`
	ReferenceId  string `json:"reference_id"`
	FirstName    string `json:"first_name"`
	Email        string `json:"email"`
	MandateType  string `json:"mandate_type"`
	Udf6         string `json:"udf6"`
	Udf7         string `json:"udf7"`
	Udf8         string `json:"udf8"`
	Udf9         string `json:"udf9"`
	Udf10        string `json:"udf10"`
}

func NewCreateSubscriptionRequestFromContext(ctx echo.Context) (*CreateSubscriptionRequest, error) {
	var body CreateSubscriptionRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.PlanName = strings.TrimSpace(body.PlanName)
	body.PlanId = strings.TrimSpace(body.PlanId)
	body.CustomerType = strings.ToLower(strings.TrimSpace(body.CustomerType))
	body.UserId = strings.TrimSpace(body.UserId)
	body.OrgId = strings.TrimSpace(body.OrgId)
	body.ReferenceId = strings.TrimSpace(body.ReferenceId)
	body.FirstName = strings.TrimSpace(body.FirstName)
	body.Email = strings.TrimSpace(body.Email)
	body.MandateType = strings.ToLower(strings.TrimSpace(body.MandateType))
	if body.MandateType == "" {
		body.MandateType = "card"
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	return &body, nil
}

func (r *CreateSubscriptionRequest) Validate() error {
	if r.PlanName == "" && r.PlanId == "" {
		return errors.New("plan_name or plan_id is required")
	}
	if r.CustomerType != "user" && r.CustomerType != "organization" {
		return errors.New("customer_type must be user or organization")
	}
	if r.CustomerType == "user" && r.UserId == "" {
		return errors.New("user_id is required for user subscriptions")
	}
	if r.CustomerType == "organization" && r.OrgId == "" {
		return errors.New("org_id is required for organization subscriptions")
	}
	if r.ReferenceId == "" {
		return errors.New("reference_id is required")
	}
	if r.FirstName == "" {
		return errors.New("first_name is required")
	}
	if r.Email == "" {
		return errors.New("email is required")
	}
	if r.MandateType != "card" && r.MandateType != "upi" && r.MandateType != "netbanking" {
		return errors.New("mandate_type must be card, upi, or netbanking")
	}
	if r.Quantity <= 0 {
		return errors.New("quantity must be > 0")
	}
	return nil
}

type SubscriptionIDRequest struct {
	Id string
}

func NewSubscriptionIDRequestFromContext(ctx echo.Context) (*SubscriptionIDRequest, error) {
	return &SubscriptionIDRequest{Id: strings.TrimSpace(ctx.Param("id"))}, nil
}

func (r *SubscriptionIDRequest) Validate() error {
	if r.Id == "" {
		return errors.New("invalid subscription id")
	}
	return nil
}

type ListSubscriptionsRequest struct {
	UserId      string
	OrgId       string
	ReferenceId string
	PlanName    string
	HasStatus   bool
	Status      int32
	Limit       int32
	Offset      int32
}

func NewListSubscriptionsRequestFromContext(ctx echo.Context) (*ListSubscriptionsRequest, error) {
	req := &ListSubscriptionsRequest{
		UserId:      strings.TrimSpace(ctx.QueryParam("user_id")),
		OrgId:       strings.TrimSpace(ctx.QueryParam("org_id")),
		ReferenceId: strings.TrimSpace(ctx.QueryParam("reference_id")),
		PlanName:    strings.TrimSpace(ctx.QueryParam("plan_name")),
		Limit:       100,
		Offset:      0,
	}

	if statusRaw := strings.TrimSpace(ctx.QueryParam("status")); statusRaw != "" {
		status, err := strconv.ParseInt(statusRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.HasStatus = true
		req.Status = int32(status)
	}

	if limitRaw := strings.TrimSpace(ctx.QueryParam("limit")); limitRaw != "" {
		limit, err := strconv.ParseInt(limitRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Limit = int32(limit)
	}

	if offsetRaw := strings.TrimSpace(ctx.QueryParam("offset")); offsetRaw != "" {
		offset, err := strconv.ParseInt(offsetRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Offset = int32(offset)
	}

	return req, nil
}

func (r *ListSubscriptionsRequest) Validate() error {
	if r.Limit <= 0 || r.Limit > 500 {
		return errors.New("limit must be between 1 and 500")
	}
	if r.Offset < 0 {
		return errors.New("offset must be >= 0")
	}
	return nil
}

type RefundRequest struct {
	Id       string `json:"-"`
	RefundId string `json:"refund_id"`
	Amount   string `json:"amount"`
}

func NewRefundRequestFromContext(ctx echo.Context) (*RefundRequest, error) {
	var body RefundRequest
	if err := ctx.Bind(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	body.Id = strings.TrimSpace(ctx.Param("id"))
	body.RefundId = strings.TrimSpace(body.RefundId)
	body.Amount = strings.TrimSpace(body.Amount)

	return &body, nil
}

func (r *RefundRequest) Validate() error {
	if r.Id == "" {
		return errors.New("invalid subscription id")
	}
	if r.RefundId == "" {
		return errors.New("refund_id is required")
	}
	if r.Amount == "" {
		return errors.New("amount is required")
	}
	return nil
}

type ValidateVPARequest struct {
	Vpa string `json:"vpa"`
}

func NewValidateVPARequestFromContext(ctx echo.Context) (*ValidateVPARequest, error) {
	var body ValidateVPARequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Vpa = strings.TrimSpace(body.Vpa)
	return &body, nil
}

func (r *ValidateVPARequest) Validate() error {
	if r.Vpa == "" {
		return errors.New("vpa is required")
	}
	return nil
}

// GatewayCallbackRequest is the form-encoded webhook body delivered by the
// gateway.
type GatewayCallbackRequest struct {
	Status           string
	TxnId            string
	Amount           string
	ProductInfo      string
	FirstName        string
	Email            string
	PaymentId        string
	Hash             string
	Key              string
	Udf              [10]string
	NotificationType string
	Error            string
}

func NewGatewayCallbackRequestFromContext(ctx echo.Context) (*GatewayCallbackRequest, error) {
	req := &GatewayCallbackRequest{
		Status:           ctx.FormValue("status"),
		TxnId:            ctx.FormValue("txnid"),
		Amount:           ctx.FormValue("amount"),
		ProductInfo:      ctx.FormValue("productinfo"),
		FirstName:        ctx.FormValue("firstname"),
		Email:            ctx.FormValue("email"),
		PaymentId:        ctx.FormValue("mihpayid"),
		Hash:             ctx.FormValue("hash"),
		Key:              ctx.FormValue("key"),
		NotificationType: ctx.FormValue("notification_type"),
		Error:            ctx.FormValue("error"),
	}
	if req.Error == "" {
		req.Error = ctx.FormValue("field9")
	}
	for i := range req.Udf {
		req.Udf[i] = ctx.FormValue("udf" + strconv.Itoa(i+1))
	}

	return req, nil
}

func (r *GatewayCallbackRequest) Validate() error {
	if strings.TrimSpace(r.TxnId) == "" {
		return errors.New("txnid is required")
	}
	if strings.TrimSpace(r.Hash) == "" {
		return errors.New("hash is required")
	}
	return nil
}

// Event converts the bound request into the gateway callback value consumed by
// the reconciliation core.
func (r *GatewayCallbackRequest) Event() *gateway.CallbackEvent {
	return &gateway.CallbackEvent{
		Status:           r.Status,
		TxnID:            r.TxnId,
		Amount:           r.Amount,
		ProductInfo:      r.ProductInfo,
		FirstName:        r.FirstName,
		Email:            r.Email,
		PaymentID:        r.PaymentId,
		Hash:             r.Hash,
		Key:              r.Key,
		UDF:              r.Udf,
		NotificationType: r.NotificationType,
		Error:            r.Error,
	}
}
