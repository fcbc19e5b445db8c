package types

import (
	"bytes"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestNewCreateSubscriptionRequestDefaults(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/subscriptions", bytes.NewBufferString(`{"plan_name":" Basic ","customer_type":"USER","user_id":"user-1","reference_id":"user-1","first_name":"Jordan","email":"jordan@example.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	parsed, err := NewCreateSubscriptionRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.PlanName != "Basic" {
		t.Fatalf("expected trimmed plan name, got %q", parsed.PlanName)
	}
	if parsed.CustomerType != "user" {
		t.Fatalf("expected lower-cased customer type, got %q", parsed.CustomerType)
	}
	if parsed.MandateType != "card" {
		t.Fatalf("expected default mandate type, got %q", parsed.MandateType)
	}
	if parsed.Quantity != 1 {
		t.Fatalf("expected default quantity, got %d", parsed.Quantity)
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestCreateSubscriptionValidate(t *testing.T) {
	req := &CreateSubscriptionRequest{}
	if err := req.Validate(); err == nil {
		t.Fatal("expected plan validation error")
	}

	req = &CreateSubscriptionRequest{
		PlanName:     "Basic",
		Quantity:     1,
		CustomerType: "organization",
		ReferenceId:  "org-1",
		FirstName:    "Jordan",
		Email:        "jordan@example.com",
		MandateType:  "upi",
	}
	if err := req.Validate(); err == nil {
		t.Fatal("expected org_id validation error")
	}

	req.OrgId = "org-1"
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid organization request, got %v", err)
	}

	req.MandateType = "cheque"
	if err := req.Validate(); err == nil {
		t.Fatal("expected mandate_type validation error")
	}
}

func TestNewListSubscriptionsRequestFromContextAndValidate(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("GET", "/subscriptions?status=10&user_id=user-1&limit=20&offset=3", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	parsed, err := NewListSubscriptionsRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !parsed.HasStatus || parsed.Status != 10 {
		t.Fatalf("unexpected status parse: %+v", parsed)
	}
	if parsed.UserId != "user-1" || parsed.Limit != 20 || parsed.Offset != 3 {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("expected valid list request, got %v", err)
	}
}

func TestListSubscriptionsValidateLimitBounds(t *testing.T) {
	req := &ListSubscriptionsRequest{Limit: 501}
	if err := req.Validate(); err == nil {
		t.Fatal("expected limit validation error")
	}

	req = &ListSubscriptionsRequest{Limit: 100, Offset: -1}
	if err := req.Validate(); err == nil {
		t.Fatal("expected offset validation error")
	}
}

func TestNewGatewayCallbackRequestFromContextBindsFormFields(t *testing.T) {
	form := url.Values{}
	form.Set("status", "success")
	form.Set("txnid", "txn-1")
	form.Set("amount", "499.00")
	form.Set("mihpayid", "pay-1")
	form.Set("hash", "abc")
	form.Set("udf1", "user")
	form.Set("udf4", "sub-1")
	form.Set("field9", "declined by issuer")
	form.Set("notification_type", "mandate_revoked")

	e := echo.New()
	req := httptest.NewRequest("POST", "/webhooks/payu", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	parsed, err := NewGatewayCallbackRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("expected valid callback, got %v", err)
	}

	evt := parsed.Event()
	if evt.TxnID != "txn-1" || evt.PaymentID != "pay-1" {
		t.Fatalf("unexpected event fields: %+v", evt)
	}
	if evt.UDF[0] != "user" || evt.UDF[3] != "sub-1" {
		t.Fatalf("unexpected metadata slots: %+v", evt.UDF)
	}
	if evt.Error != "declined by issuer" {
		t.Fatalf("expected field9 fallback, got %q", evt.Error)
	}
	if evt.NotificationType != "mandate_revoked" {
		t.Fatalf("unexpected notification type %q", evt.NotificationType)
	}
}

func TestGatewayCallbackValidateRequiresTxnAndHash(t *testing.T) {
	req := &GatewayCallbackRequest{Hash: "abc"}
	if err := req.Validate(); err == nil {
		t.Fatal("expected txnid validation error")
	}

	req = &GatewayCallbackRequest{TxnId: "txn-1"}
	if err := req.Validate(); err == nil {
		t.Fatal("expected hash validation error")
	}
}
