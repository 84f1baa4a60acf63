package platform

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	errs "github.com/indiriim/go-notify-admin/internal/errors"
)

// NotificationChannel is the delivery channel of a campaign.
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "EMAIL"
	ChannelSMS   NotificationChannel = "SMS"
	ChannelPush  NotificationChannel = "PUSH"
)

// NotificationStatus is the campaign lifecycle state.
type NotificationStatus string

const (
	StatusDraft           NotificationStatus = "DRAFT"
	StatusPendingApproval NotificationStatus = "PENDING_APPROVAL"
	StatusScheduled       NotificationStatus = "SCHEDULED"
	StatusProcessing      NotificationStatus = "PROCESSING"
	StatusSent            NotificationStatus = "SENT"
	StatusFailed          NotificationStatus = "FAILED"
)

// Notification is a campaign as the list endpoint returns it.
type Notification struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Channel     NotificationChannel `json:"channel"`
	Status      NotificationStatus  `json:"status"`
	ScheduledAt *string             `json:"scheduledAt"`
	SegmentName string              `json:"segmentName,omitempty"`
}

// NotificationListParams narrows the notification list.
type NotificationListParams struct {
	Page   int
	Size   int
	Status NotificationStatus
}

func (p NotificationListParams) query() url.Values {
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

// ListNotifications fetches campaigns, optionally paged and filtered.
func (s *Service) ListNotifications(ctx context.Context, params NotificationListParams) ([]Notification, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, withQuery("/api/v1/notifications", params.query()), &raw); err != nil {
		return nil, errs.Wrapf(err, "[ListNotifications]")
	}
	return decodeList[Notification](raw)
}

// CreateNotificationRequest creates a campaign from a template and segment.
type CreateNotificationRequest struct {
	Name        string              `json:"name"`
	TemplateID  int64               `json:"templateId"`
	SegmentID   int64               `json:"segmentId"`
	Channel     NotificationChannel `json:"channel"`
	ScheduledAt *string             `json:"scheduledAt,omitempty"`
}

// CreateNotification submits a new campaign.
func (s *Service) CreateNotification(ctx context.Context, req CreateNotificationRequest) (Notification, error) {
	var created Notification
	if err := s.api.Post(ctx, "/api/v1/notifications", req, &created); err != nil {
		return Notification{}, errs.Wrapf(err, "[CreateNotification]")
	}
	return created, nil
}
