package platform

import (
	"context"

	errs "github.com/indiriim/go-notify-admin/internal/errors"
)

// DashboardSummary is the aggregate view shown on the landing page.
type DashboardSummary struct {
	DraftCount        int64          `json:"draftCount"`
	ScheduledCount    int64          `json:"scheduledCount"`
	SentCount         int64          `json:"sentCount"`
	LastNotifications []Notification `json:"lastNotifications,omitempty"`
}

// FetchDashboardSummary returns campaign counts and recent activity.
func (s *Service) FetchDashboardSummary(ctx context.Context) (DashboardSummary, error) {
	var summary DashboardSummary
	if err := s.api.Get(ctx, "/api/v1/dashboard/summary", &summary); err != nil {
		return DashboardSummary{}, errs.Wrapf(err, "[FetchDashboardSummary]")
	}
	return summary, nil
}
