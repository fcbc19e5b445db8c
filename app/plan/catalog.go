package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	ErrSubscriptionsDisabled = errors.New("subscriptions are not enabled")
	ErrPlanNotFound          = errors.New("plan not found")
)

// Plan is immutable configuration; amounts are in the currency's minor unit.
type Plan struct {
	ID              string `json:"id"`
	AnnualPlanID    string `json:"annual_plan_id"`
	Name            string `json:"name"`
	AmountCents     int64  `json:"amount_cents"`
	BillingCycle    string `json:"billing_cycle"`
	BillingInterval int32  `json:"billing_interval"`
	TotalCount      int32  `json:"total_count"`
	TrialDays       int32  `json:"trial_days"`
}

type Catalog struct {
	enabled bool
	plans   []Plan
}

func NewCatalog(enabled bool, plans []Plan) *Catalog {
	items := make([]Plan, len(plans))
	copy(items, plans)
	return &Catalog{enabled: enabled, plans: items}
}

// LoadCatalog reads the configured plan list from a JSON file.
func LoadCatalog(path string, enabled bool) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plans file: %w", err)
	}

	var plans []Plan
	if err := json.Unmarshal(raw, &plans); err != nil {
		return nil, fmt.Errorf("parse plans file %s: %w", path, err)
	}

	return NewCatalog(enabled, plans), nil
}

func (c *Catalog) List() ([]Plan, error) {
	if !c.enabled {
		return nil, ErrSubscriptionsDisabled
	}
	items := make([]Plan, len(c.plans))
	copy(items, c.plans)
	return items, nil
}

// FindByName matches plan names case-insensitively.
func (c *Catalog) FindByName(name string) (*Plan, error) {
	if !c.enabled {
		return nil, ErrSubscriptionsDisabled
	}
	name = strings.TrimSpace(name)
	for _, item := range c.plans {
		if strings.EqualFold(item.Name, name) {
			found := item
			return &found, nil
		}
	}
	return nil, ErrPlanNotFound
}

// FindByID matches either the plan id or the annual-plan id.
func (c *Catalog) FindByID(id string) (*Plan, error) {
	if !c.enabled {
		return nil, ErrSubscriptionsDisabled
	}
	id = strings.TrimSpace(id)
	for _, item := range c.plans {
		if item.ID == id || (item.AnnualPlanID != "" && item.AnnualPlanID == id) {
			found := item
			return &found, nil
		}
	}
	return nil, ErrPlanNotFound
}
