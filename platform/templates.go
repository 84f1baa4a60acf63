package platform

import (
	"context"
	"encoding/json"
	"fmt"

	errs "github.com/indiriim/go-notify-admin/internal/errors"
)

// TemplateType mirrors NotificationChannel; templates are authored per
// channel.
type TemplateType string

const (
	TemplateEmail TemplateType = "EMAIL"
	TemplateSMS   TemplateType = "SMS"
	TemplatePush  TemplateType = "PUSH"
)

// Template is a message template.
type Template struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Type      TemplateType `json:"type"`
	Subject   string       `json:"subject,omitempty"`
	Content   string       `json:"content,omitempty"`
	IsActive  bool         `json:"isActive,omitempty"`
	CreatedAt string       `json:"createdAt,omitempty"`
	UpdatedAt string       `json:"updatedAt,omitempty"`
}

// TemplateRequest is the create/update payload for a template.
type TemplateRequest struct {
	Name     string       `json:"name"`
	Type     TemplateType `json:"type"`
	Subject  string       `json:"subject,omitempty"`
	Content  string       `json:"content,omitempty"`
	IsActive bool         `json:"isActive"`
}

// ListTemplates fetches all message templates.
func (s *Service) ListTemplates(ctx context.Context) ([]Template, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, "/api/v1/templates", &raw); err != nil {
		return nil, errs.Wrapf(err, "[ListTemplates]")
	}
	return decodeList[Template](raw)
}

// CreateTemplate adds a new template.
func (s *Service) CreateTemplate(ctx context.Context, req TemplateRequest) (Template, error) {
	var created Template
	if err := s.api.Post(ctx, "/api/v1/templates", req, &created); err != nil {
		return Template{}, errs.Wrapf(err, "[CreateTemplate]")
	}
	return created, nil
}

// UpdateTemplate replaces an existing template.
func (s *Service) UpdateTemplate(ctx context.Context, id int64, req TemplateRequest) (Template, error) {
	var updated Template
	if err := s.api.Put(ctx, fmt.Sprintf("/api/v1/templates/%d", id), req, &updated); err != nil {
		return Template{}, errs.Wrapf(err, "[UpdateTemplate]")
	}
	return updated, nil
}

// DeleteTemplate removes a template.
func (s *Service) DeleteTemplate(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/api/v1/templates/%d", id)); err != nil {
		return errs.Wrapf(err, "[DeleteTemplate]")
	}
	return nil
}
