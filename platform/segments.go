package platform

import (
	"context"
	"encoding/json"
	"fmt"

	errs "github.com/indiriim/go-notify-admin/internal/errors"
)

// SegmentType distinguishes business and consumer audiences.
type SegmentType string

const (
	SegmentB2B SegmentType = "B2B"
	SegmentB2C SegmentType = "B2C"
)

// Segment is an audience segment.
type Segment struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Type        SegmentType `json:"type,omitempty"`
	Size        int64       `json:"size,omitempty"`
	RuleJSON    string      `json:"ruleJson,omitempty"`
	IsActive    bool        `json:"isActive,omitempty"`
	CreatedAt   string      `json:"createdAt,omitempty"`
	UpdatedAt   string      `json:"updatedAt,omitempty"`
}

// SegmentRequest is the create/update payload for a segment.
type SegmentRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Type        SegmentType `json:"type,omitempty"`
	Size        int64       `json:"size,omitempty"`
	RuleJSON    string      `json:"ruleJson,omitempty"`
	IsActive    bool        `json:"isActive"`
}

// ListSegments fetches all audience segments.
func (s *Service) ListSegments(ctx context.Context) ([]Segment, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, "/api/v1/segments", &raw); err != nil {
		return nil, errs.Wrapf(err, "[ListSegments]")
	}
	return decodeList[Segment](raw)
}

// CreateSegment adds a new audience segment.
func (s *Service) CreateSegment(ctx context.Context, req SegmentRequest) (Segment, error) {
	var created Segment
	if err := s.api.Post(ctx, "/api/v1/segments", req, &created); err != nil {
		return Segment{}, errs.Wrapf(err, "[CreateSegment]")
	}
	return created, nil
}

// UpdateSegment replaces an existing segment.
func (s *Service) UpdateSegment(ctx context.Context, id int64, req SegmentRequest) (Segment, error) {
	var updated Segment
	if err := s.api.Put(ctx, fmt.Sprintf("/api/v1/segments/%d", id), req, &updated); err != nil {
		return Segment{}, errs.Wrapf(err, "[UpdateSegment]")
	}
	return updated, nil
}
