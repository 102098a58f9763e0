// env.go - Environment variable configuration and validation
package conf

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tphakala/astral-forecast/internal/locations"
	"github.com/tphakala/astral-forecast/internal/stargazing"
)

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVars   []string           // Environment variable names, first wins
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", []string{"ASTRAL_DEBUG"}, validateEnvBool},
		{"location", []string{"ASTRAL_LOCATION"}, validateEnvLocation},

		// API credentials, the unprefixed names are accepted for existing deployments
		{"apis.weather.key", []string{"ASTRAL_WEATHER_KEY", "WEATHER_KEY"}, nil},
		{"apis.nasa.apodkey", []string{"ASTRAL_APOD_KEY", "APOD_KEY"}, nil},
		{"apis.nasa.neokey", []string{"ASTRAL_NEO_KEY", "NEO_KEY"}, nil},
		{"apis.timeout", []string{"ASTRAL_API_TIMEOUT"}, validateEnvDuration},

		{"webserver.listen", []string{"ASTRAL_LISTEN"}, nil},
		{"watch.interval", []string{"ASTRAL_WATCH_INTERVAL"}, validateEnvDuration},
		{"watch.notifyverdict", []string{"ASTRAL_NOTIFY_VERDICT"}, validateEnvVerdict},

		{"mqtt.enabled", []string{"ASTRAL_MQTT_ENABLED"}, validateEnvBool},
		{"mqtt.broker", []string{"ASTRAL_MQTT_BROKER"}, validateEnvBrokerURL},
		{"mqtt.username", []string{"ASTRAL_MQTT_USERNAME"}, nil},
		{"mqtt.password", []string{"ASTRAL_MQTT_PASSWORD"}, nil},

		{"notify.enabled", []string{"ASTRAL_NOTIFY_ENABLED"}, validateEnvBool},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		args := append([]string{binding.ConfigKey}, binding.EnvVars...)
		if err := viper.BindEnv(args...); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.ConfigKey, err))
			continue
		}

		if binding.Validate == nil {
			continue
		}
		for _, envVar := range binding.EnvVars {
			if envValue := os.Getenv(envVar); envValue != "" {
				if err := binding.Validate(envValue); err != nil {
					warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", envVar, envValue, err))
				}
			}
		}
	}

	// Comma separated list, bound by hand since BindEnv does not split
	if raw := os.Getenv("ASTRAL_NOTIFY_URLS"); raw != "" {
		viper.Set("notify.urls", splitList(raw))
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateEnvBool validates boolean environment variables
func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid boolean value '%s': must be true/false, 1/0, t/f, TRUE/FALSE, T/F", value)
	}
	return nil
}

func validateEnvDuration(value string) error {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %s", d)
	}
	return nil
}

func validateEnvLocation(value string) error {
	if _, err := locations.Lookup(value); err != nil {
		return fmt.Errorf("must be one of: %s", strings.Join(locations.Names(), ", "))
	}
	return nil
}

func validateEnvVerdict(value string) error {
	if _, ok := stargazing.ParseVerdict(strings.TrimSpace(value)); !ok {
		return fmt.Errorf("must be one of: excellent, good, mixed, poor")
	}
	return nil
}

func validateEnvBrokerURL(value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid broker URL: %w", err)
	}
	switch u.Scheme {
	case "tcp", "ssl", "tls", "mqtt", "mqtts", "ws", "wss":
	default:
		return fmt.Errorf("unsupported broker scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("broker URL must include a host")
	}
	return nil
}
