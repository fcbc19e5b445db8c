package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/vibast-solutions/ms-go-billing/app/entity"
)

var (
	ErrSubscriptionNotFound      = errors.New("subscription not found")
	ErrSubscriptionAlreadyExists = errors.New("subscription already exists")
)

type SubscriptionFilter struct {
	UserID      string
	OrgID       string
	ReferenceID string
	PlanName    string
	HasStatus   bool
	Status      int32
	Limit       int32
	Offset      int32
}

const subscriptionColumns = `id, gateway_subscription_id, plan_name, billing_cycle,
		total_count, paid_count, remaining_count, quantity,
		gateway_txn_id, gateway_payment_id, mandate_type,
		customer_type, user_id, org_id, reference_id, status,
		current_start, current_end, paused_at, cancelled_at, ended_at, trial_start, trial_end,
		created_at, updated_at`

type SubscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, gateway_subscription_id, plan_name, billing_cycle,
			total_count, paid_count, remaining_count, quantity,
			gateway_txn_id, gateway_payment_id, mandate_type,
			customer_type, user_id, org_id, reference_id, status,
			current_start, current_end, paused_at, cancelled_at, ended_at, trial_start, trial_end,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		sub.ID,
		nullableStringValue(sub.GatewaySubscriptionID),
		sub.PlanName,
		sub.BillingCycle,
		nullableInt32Value(sub.TotalCount),
		sub.PaidCount,
		nullableInt32Value(sub.RemainingCount),
		sub.Quantity,
		sub.GatewayTxnID,
		nullableStringValue(sub.GatewayPaymentID),
		sub.MandateType,
		sub.CustomerType,
		nullableStringValue(sub.UserID),
		nullableStringValue(sub.OrgID),
		sub.ReferenceID,
		sub.Status,
		nullableTimeValue(sub.CurrentStart),
		nullableTimeValue(sub.CurrentEnd),
		nullableTimeValue(sub.PausedAt),
		nullableTimeValue(sub.CancelledAt),
		nullableTimeValue(sub.EndedAt),
		nullableTimeValue(sub.TrialStart),
		nullableTimeValue(sub.TrialEnd),
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrSubscriptionAlreadyExists
		}
		return err
	}

	return nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *entity.Subscription) error {
	query := `
		UPDATE subscriptions SET
			gateway_subscription_id = ?,
			plan_name = ?,
			billing_cycle = ?,
			total_count = ?,
			paid_count = ?,
			remaining_count = ?,
			quantity = ?,
			gateway_payment_id = ?,
			mandate_type = ?,
			status = ?,
			current_start = ?,
			current_end = ?,
			paused_at = ?,
			cancelled_at = ?,
			ended_at = ?,
			trial_start = ?,
			trial_end = ?,
			updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableStringValue(sub.GatewaySubscriptionID),
		sub.PlanName,
		sub.BillingCycle,
		nullableInt32Value(sub.TotalCount),
		sub.PaidCount,
		nullableInt32Value(sub.RemainingCount),
		sub.Quantity,
		nullableStringValue(sub.GatewayPaymentID),
		sub.MandateType,
		sub.Status,
		nullableTimeValue(sub.CurrentStart),
		nullableTimeValue(sub.CurrentEnd),
		nullableTimeValue(sub.PausedAt),
		nullableTimeValue(sub.CancelledAt),
		nullableTimeValue(sub.EndedAt),
		nullableTimeValue(sub.TrialStart),
		nullableTimeValue(sub.TrialEnd),
		sub.UpdatedAt,
		sub.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id string) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = ?`

	sub := &entity.Subscription{}
	if err := scanSubscription(r.db.QueryRowContext(ctx, query, id), sub); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return sub, nil
}

func (r *SubscriptionRepository) FindByGatewayTxnID(ctx context.Context, txnID string) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE gateway_txn_id = ? LIMIT 1`

	sub := &entity.Subscription{}
	if err := scanSubscription(r.db.QueryRowContext(ctx, query, txnID), sub); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return sub, nil
}

func (r *SubscriptionRepository) List(ctx context.Context, filter SubscriptionFilter) ([]*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions`

	conditions := make([]string, 0, 5)
	args := make([]interface{}, 0, 7)

	if strings.TrimSpace(filter.UserID) != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if strings.TrimSpace(filter.OrgID) != "" {
		conditions = append(conditions, "org_id = ?")
		args = append(args, filter.OrgID)
	}
	if strings.TrimSpace(filter.ReferenceID) != "" {
		conditions = append(conditions, "reference_id = ?")
		args = append(args, filter.ReferenceID)
	}
	if strings.TrimSpace(filter.PlanName) != "" {
		conditions = append(conditions, "plan_name = ?")
		args = append(args, filter.PlanName)
	}
	if filter.HasStatus {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]*entity.Subscription, 0)
	for rows.Next() {
		item := &entity.Subscription{}
		if err := scanSubscription(rows, item); err != nil {
			return nil, err
		}
		subs = append(subs, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubscription(scan rowScanner, sub *entity.Subscription) error {
	var gatewaySubscriptionID sql.NullString
	var totalCount sql.NullInt32
	var remainingCount sql.NullInt32
	var gatewayPaymentID sql.NullString
	var userID sql.NullString
	var orgID sql.NullString
	var currentStart sql.NullTime
	var currentEnd sql.NullTime
	var pausedAt sql.NullTime
	var cancelledAt sql.NullTime
	var endedAt sql.NullTime
	var trialStart sql.NullTime
	var trialEnd sql.NullTime

	err := scan.Scan(
		&sub.ID,
		&gatewaySubscriptionID,
		&sub.PlanName,
		&sub.BillingCycle,
		&totalCount,
		&sub.PaidCount,
		&remainingCount,
		&sub.Quantity,
		&sub.GatewayTxnID,
		&gatewayPaymentID,
		&sub.MandateType,
		&sub.CustomerType,
		&userID,
		&orgID,
		&sub.ReferenceID,
		&sub.Status,
		&currentStart,
		&currentEnd,
		&pausedAt,
		&cancelledAt,
		&endedAt,
		&trialStart,
		&trialEnd,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return err
	}

	sub.GatewaySubscriptionID = stringPtrFromNull(gatewaySubscriptionID)
	sub.TotalCount = int32PtrFromNull(totalCount)
	sub.RemainingCount = int32PtrFromNull(remainingCount)
	sub.GatewayPaymentID = stringPtrFromNull(gatewayPaymentID)
	sub.UserID = stringPtrFromNull(userID)
	sub.OrgID = stringPtrFromNull(orgID)
	sub.CurrentStart = timePtrFromNull(currentStart)
	sub.CurrentEnd = timePtrFromNull(currentEnd)
	sub.PausedAt = timePtrFromNull(pausedAt)
	sub.CancelledAt = timePtrFromNull(cancelledAt)
	sub.EndedAt = timePtrFromNull(endedAt)
	sub.TrialStart = timePtrFromNull(trialStart)
	sub.TrialEnd = timePtrFromNull(trialEnd)

	return nil
}
