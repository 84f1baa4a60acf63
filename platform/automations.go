package platform

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	errs "github.com/indiriim/go-notify-admin/internal/errors"
)

// AutomationStatus is the lifecycle state of an automation flow.
type AutomationStatus string

const (
	AutomationActive AutomationStatus = "ACTIVE"
	AutomationPaused AutomationStatus = "PAUSED"
	AutomationDraft  AutomationStatus = "DRAFT"
)

// AutomationStats counts flow executions.
type AutomationStats struct {
	Triggered int64 `json:"triggered"`
	Completed int64 `json:"completed"`
}

// Automation is a triggered notification flow.
type Automation struct {
	ID      int64            `json:"id"`
	Name    string           `json:"name"`
	Trigger string           `json:"trigger"`
	Status  AutomationStatus `json:"status"`
	Stats   *AutomationStats `json:"stats,omitempty"`
	LastRun string           `json:"lastRun,omitempty"`
}

// AutomationListParams narrows the automation list.
type AutomationListParams struct {
	Page   int
	Size   int
	Status AutomationStatus
}

func (p AutomationListParams) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	return q
}

// ListAutomations fetches automation flows.
func (s *Service) ListAutomations(ctx context.Context, params AutomationListParams) ([]Automation, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, withQuery("/api/v1/automations", params.query()), &raw); err != nil {
		return nil, errs.Wrapf(err, "[ListAutomations]")
	}
	return decodeList[Automation](raw)
}
