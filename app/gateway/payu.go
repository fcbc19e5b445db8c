package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	CommandMandateStatus = "check_mandate_status"
	CommandMandateModify = "si_update"
	CommandRefund        = "cancel_refund_transaction"
	CommandVerifyPayment = "verify_payment"
	CommandValidateVPA   = "validate_vpa"
)

var ErrCommandFailed = errors.New("gateway command failed")

type Config struct {
	MerchantKey  string
	MerchantSalt string
	APIBaseURL   string
	HTTPTimeout  time.Duration
}

// Result is the decoded gateway response for a command call.
type Result map[string]interface{}

type Client struct {
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Client) MandateStatus(ctx context.Context, txnID string) (Result, error) {
	return c.command(ctx, CommandMandateStatus, txnID)
}

func (c *Client) ModifyMandate(ctx context.Context, txnID, details string) (Result, error) {
	return c.command(ctx, CommandMandateModify, txnID, details)
}

func (c *Client) Refund(ctx context.Context, paymentID, refundID, amount string) (Result, error) {
	return c.command(ctx, CommandRefund, paymentID, refundID, amount)
}

func (c *Client) VerifyPayment(ctx context.Context, txnID string) (Result, error) {
	return c.command(ctx, CommandVerifyPayment, txnID)
}

func (c *Client) ValidateVPA(ctx context.Context, vpa string) (Result, error) {
	return c.command(ctx, CommandValidateVPA, vpa)
}

// command posts a form-encoded administrative call. Only var1 is folded into
// the command hash; var2..var5 ride along unauthenticated per the gateway
// contract.
func (c *Client) command(ctx context.Context, command string, vars ...string) (Result, error) {
	if strings.TrimSpace(c.cfg.MerchantKey) == "" || strings.TrimSpace(c.cfg.MerchantSalt) == "" {
		return nil, errors.New("merchant key and salt are not configured")
	}
	if len(vars) == 0 {
		return nil, errors.New("command requires at least var1")
	}

	values := url.Values{}
	values.Set("key", c.cfg.MerchantKey)
	values.Set("command", command)
	for i, v := range vars {
		if i >= 5 {
			break
		}
		values.Set(fmt.Sprintf("var%d", i+1), v)
	}
	values.Set("hash", CommandHash(c.cfg.MerchantKey, c.cfg.MerchantSalt, command, vars[0]))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBaseURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("gateway request failed: command=%s status=%d body=%s", command, resp.StatusCode, string(body))
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("gateway response is not valid JSON: command=%s body=%s", command, string(body))
	}

	if reason := failureReason(result); reason != "" {
		return result, fmt.Errorf("%w: command=%s %s", ErrCommandFailed, command, reason)
	}

	return result, nil
}

// failureReason interprets the gateway's loose response convention: failed if
// status equals 0 or an error field is present.
func failureReason(result Result) string {
	if raw, ok := result["status"]; ok && statusIsZero(raw) {
		if msg := stringField(result, "msg"); msg != "" {
			return "msg=" + msg
		}
		return "status=0"
	}
	if errMsg := stringField(result, "error"); errMsg != "" {
		return "error=" + errMsg
	}
	return ""
}

func statusIsZero(raw interface{}) bool {
	switch v := raw.(type) {
	case float64:
		return v == 0
	case string:
		return strings.TrimSpace(v) == "0"
	default:
		return false
	}
}

func stringField(result Result, key string) string {
	raw, ok := result[key]
	if !ok {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
