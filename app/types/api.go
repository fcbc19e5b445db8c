package types

type HealthResponse struct {
	Status string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Subscription struct {
	Id                    string `json:"id"`
	GatewaySubscriptionId string `json:"gateway_subscription_id,omitempty"`

	PlanName     string `json:"plan_name"`
	BillingCycle string `json:"billing_cycle"`

	TotalCount     *int32 `json:"total_count"`
	PaidCount      int32  `json:"paid_count"`
	RemainingCount *int32 `json:"remaining_count"`
	Quantity       int32  `json:"quantity"`

	GatewayTxnId     string `json:"gateway_txn_id"`
	GatewayPaymentId string `json:"gateway_payment_id,omitempty"`
	MandateType      string `json:"mandate_type"`

	CustomerType string `json:"customer_type"`
	UserId       string `json:"user_id,omitempty"`
	OrgId        string `json:"org_id,omitempty"`
	ReferenceId  string `json:"reference_id"`

	Status string `json:"status"`

	CurrentStart string `json:"current_start,omitempty"`
	CurrentEnd   string `json:"current_end,omitempty"`
	PausedAt     string `json:"paused_at,omitempty"`
	CancelledAt  string `json:"cancelled_at,omitempty"`
	EndedAt      string `json:"ended_at,omitempty"`
	TrialStart   string `json:"trial_start,omitempty"`
	TrialEnd     string `json:"trial_end,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CheckoutParams is the signed field set the caller posts to the gateway's
// hosted payment page.
type CheckoutParams struct {
	PaymentUrl  string `json:"payment_url"`
	Key         string `json:"key"`
	TxnId       string `json:"txnid"`
	Amount      string `json:"amount"`
	ProductInfo string `json:"productinfo"`
	FirstName   string `json:"firstname"`
	Email       string `json:"email"`
	Udf1        string `json:"udf1"`
	Udf2        string `json:"udf2"`
	Udf3        string `json:"udf3"`
	Udf4        string `json:"udf4"`
	Udf5        string `json:"udf5"`
	Udf6        string `json:"udf6"`
	Udf7        string `json:"udf7"`
	Udf8        string `json:"udf8"`
	Udf9        string `json:"udf9"`
	Udf10       string `json:"udf10"`
	Hash        string `json:"hash"`
}

type SubscriptionEnvelopeResponse struct {
	Subscription *Subscription   `json:"subscription"`
	Checkout     *CheckoutParams `json:"checkout,omitempty"`
}

type ListSubscriptionsResponse struct {
	Subscriptions []*Subscription `json:"subscriptions"`
}

type GatewayResultResponse struct {
	Result map[string]interface{} `json:"result"`
}
