package platform

import (
	"context"

	errs "github.com/indiriim/go-notify-admin/internal/errors"
)

// EmailSettings configures the email channel.
type EmailSettings struct {
	SenderName      string `json:"senderName,omitempty"`
	SenderEmail     string `json:"senderEmail,omitempty"`
	ServiceProvider string `json:"serviceProvider,omitempty"`
}

// SMSSettings configures the SMS channel.
type SMSSettings struct {
	Provider   string `json:"provider,omitempty"`
	Originator string `json:"originator,omitempty"`
}

// PushSettings configures the push channel.
type PushSettings struct {
	Provider string `json:"provider,omitempty"`
	APIKey   string `json:"apiKey,omitempty"`
}

// FallbackRule reroutes a failed delivery to another channel.
type FallbackRule struct {
	ID      int64  `json:"id"`
	Trigger string `json:"trigger"`
	Action  string `json:"action"`
	Enabled bool   `json:"enabled"`
}

// DistributionSettings tunes delivery retries and routing.
type DistributionSettings struct {
	RetryCount   int  `json:"retryCount,omitempty"`
	RetryDelay   int  `json:"retryDelay,omitempty"`
	SmartRouting bool `json:"smartRouting,omitempty"`
}

// Settings is the channel and distribution configuration.
type Settings struct {
	Email         *EmailSettings        `json:"email,omitempty"`
	SMS           *SMSSettings          `json:"sms,omitempty"`
	Push          *PushSettings         `json:"push,omitempty"`
	FallbackRules []FallbackRule        `json:"fallbackRules,omitempty"`
	Distribution  *DistributionSettings `json:"distribution,omitempty"`
}

// FetchSettings reads the current configuration.
func (s *Service) FetchSettings(ctx context.Context) (Settings, error) {
	var settings Settings
	if err := s.api.Get(ctx, "/api/v1/settings", &settings); err != nil {
		return Settings{}, errs.Wrapf(err, "[FetchSettings]")
	}
	return settings, nil
}

// UpdateSettings replaces the configuration.
func (s *Service) UpdateSettings(ctx context.Context, settings Settings) (Settings, error) {
	var updated Settings
	if err := s.api.Put(ctx, "/api/v1/settings", settings, &updated); err != nil {
		return Settings{}, errs.Wrapf(err, "[UpdateSettings]")
	}
	return updated, nil
}
