package notification

import (
	"context"
	"time"

	"github.com/tphakala/astral-forecast/internal/conf"
	"github.com/tphakala/astral-forecast/internal/errors"
	"github.com/tphakala/astral-forecast/internal/logger"
)

// Service fans a notification out to every enabled provider.
type Service struct {
	providers []Provider
}

func getLogger() logger.Logger {
	return logger.Global().Module("notification")
}

// NewService validates providers and keeps the enabled ones.
func NewService(providers ...Provider) (*Service, error) {
	s := &Service{}
	for _, p := range providers {
		if !p.IsEnabled() {
			continue
		}
		if err := p.ValidateConfig(); err != nil {
			return nil, err
		}
		s.providers = append(s.providers, p)
	}
	return s, nil
}

// NewServiceFromSettings builds a Service with a shoutrrr provider for settings.URLs.
func NewServiceFromSettings(settings conf.NotifySettings, timeout time.Duration) (*Service, error) {
	return NewService(NewShoutrrrProvider("shoutrrr", settings.Enabled, settings.URLs, timeout))
}

// Notify sends title and message to all providers and joins their errors.
func (s *Service) Notify(ctx context.Context, title, message string) error {
	n := &Notification{Title: title, Message: message}

	var errs []error
	for _, p := range s.providers {
		if err := p.Send(ctx, n); err != nil {
			getLogger().Warn("notification delivery failed",
				logger.String("provider", p.GetName()),
				logger.Error(err))
			errs = append(errs, err)
			continue
		}
		getLogger().Debug("notification delivered", logger.String("provider", p.GetName()))
	}
	return errors.Join(errs...)
}

// Enabled reports whether any provider is active.
func (s *Service) Enabled() bool {
	return len(s.providers) > 0
}
