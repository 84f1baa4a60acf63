// Package platform provides typed wrappers over the marketing-notification
// admin endpoints. Authentication and failure handling live in apiclient;
// this package only shapes requests and responses.
package platform

import (
	"context"
	"encoding/json"
	"net/url"

	errs "github.com/indiriim/go-notify-admin/internal/errors"
)

// API is the authenticated request surface these wrappers ride on.
// Satisfied by *apiclient.Client.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// Service exposes the platform resources.
type Service struct {
	api API
}

func NewService(api API) (*Service, error) {
	if api == nil {
		return nil, errs.Wrapf(errs.ErrUnavailable, "[platform.NewService] api is required")
	}
	return &Service{api: api}, nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// listEnvelope tolerates both response shapes the backend has shipped for
// list endpoints: a bare JSON array and a paged {content, totalElements}
// wrapper.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var paged struct {
		Content []T `json:"content"`
	}
	if err := json.Unmarshal(raw, &paged); err != nil {
		return nil, errs.Wrapf(err, "[platform] decode list")
	}
	return paged.Content, nil
}
