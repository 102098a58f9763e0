// conf/validate.go

package conf

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tphakala/astral-forecast/internal/locations"
	"github.com/tphakala/astral-forecast/internal/stargazing"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	validators := []func(*Settings) error{
		validateLocationSettings,
		validateAPISettings,
		validateCacheSettings,
		validateWatchSettings,
		validateThemeSettings,
		validateMQTTSettings,
		validateNotifySettings,
	}
	for _, validate := range validators {
		if err := validate(settings); err != nil {
			ve.Errors = append(ve.Errors, err.Error())
		}
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateLocationSettings(s *Settings) error {
	if _, err := locations.Lookup(s.Location); err != nil {
		return fmt.Errorf("location %q is not in the catalog (%s)", s.Location, strings.Join(locations.Names(), ", "))
	}
	return nil
}

func validateAPISettings(s *Settings) error {
	var errs []string

	if s.APIs.Timeout <= 0 {
		errs = append(errs, "apis.timeout must be positive")
	}
	for name, endpoint := range map[string]string{
		"apis.weather.endpoint": s.APIs.Weather.Endpoint,
		"apis.nasa.endpoint":    s.APIs.NASA.Endpoint,
	} {
		u, err := url.Parse(endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("%s must be an http(s) URL, got %q", name, endpoint))
		}
	}
	if s.APIs.NASA.RateLimit <= 0 {
		errs = append(errs, "apis.nasa.ratelimit must be positive")
	}
	if s.APIs.NASA.Burst < 1 {
		errs = append(errs, "apis.nasa.burst must be at least 1")
	}

	return joinErrors("API settings", errs)
}

func validateCacheSettings(s *Settings) error {
	var errs []string
	for name, ttl := range map[string]int64{
		"cache.apod":    int64(s.Cache.APOD),
		"cache.weather": int64(s.Cache.Weather),
		"cache.neo":     int64(s.Cache.NEO),
	} {
		if ttl <= 0 {
			errs = append(errs, name+" must be positive")
		}
	}
	return joinErrors("cache settings", errs)
}

func validateWatchSettings(s *Settings) error {
	var errs []string
	if s.Watch.Interval <= 0 {
		errs = append(errs, "watch.interval must be positive")
	}
	if _, ok := stargazing.ParseVerdict(s.Watch.NotifyVerdict); !ok {
		errs = append(errs, fmt.Sprintf("watch.notifyverdict %q must be one of excellent, good, mixed, poor", s.Watch.NotifyVerdict))
	}
	for _, name := range s.Watch.Locations {
		if _, err := locations.Lookup(name); err != nil {
			errs = append(errs, fmt.Sprintf("watch.locations: unknown location %q", name))
		}
	}
	return joinErrors("watch settings", errs)
}

func validateThemeSettings(s *Settings) error {
	switch s.WebServer.Theme.Name {
	case "", "night", "dawn":
		return nil
	default:
		return fmt.Errorf("webserver.theme.name %q must be night or dawn", s.WebServer.Theme.Name)
	}
}

func validateMQTTSettings(s *Settings) error {
	if !s.MQTT.Enabled {
		return nil
	}
	var errs []string
	if s.MQTT.Broker == "" {
		errs = append(errs, "mqtt.broker is required when MQTT is enabled")
	} else if err := validateEnvBrokerURL(s.MQTT.Broker); err != nil {
		errs = append(errs, "mqtt.broker: "+err.Error())
	}
	if s.MQTT.Topic == "" {
		errs = append(errs, "mqtt.topic is required when MQTT is enabled")
	}
	return joinErrors("MQTT settings", errs)
}

func validateNotifySettings(s *Settings) error {
	if s.Notify.Enabled && len(s.Notify.URLs) == 0 {
		return fmt.Errorf("notify.urls must list at least one service URL when notifications are enabled")
	}
	return nil
}

func joinErrors(section string, errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s errors: %s", section, strings.Join(errs, "; "))
}
