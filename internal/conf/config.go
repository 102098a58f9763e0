// conf/config.go settings structures and loading for astral-forecast
package conf

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/astral-forecast/internal/errors"
	"github.com/tphakala/astral-forecast/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// Settings contains all configuration options for astral-forecast.
type Settings struct {
	Debug bool `yaml:"debug"` // true to enable debug mode

	Location string `yaml:"location"` // default location name from the catalog

	Logging   logger.LoggingConfig `yaml:"logging"`
	APIs      APISettings          `yaml:"apis"`
	Cache     CacheSettings        `yaml:"cache"`
	WebServer WebServerSettings    `yaml:"webserver"`
	Watch     WatchSettings        `yaml:"watch"`
	MQTT      MQTTSettings         `yaml:"mqtt"`
	Notify    NotifySettings       `yaml:"notify"`
}

// APISettings contains settings for the upstream feeds.
type APISettings struct {
	Timeout   time.Duration   `yaml:"timeout"`   // per-request timeout
	UserAgent string          `yaml:"useragent"` // User-Agent sent upstream
	Weather   WeatherSettings `yaml:"weather"`
	NASA      NASASettings    `yaml:"nasa"`
}

// WeatherSettings contains weatherapi.com settings.
type WeatherSettings struct {
	Key      string `yaml:"key"`      // weatherapi.com API key
	Endpoint string `yaml:"endpoint"` // base URL of the API
}

// NASASettings contains api.nasa.gov settings shared by APOD and NeoWs.
type NASASettings struct {
	APODKey   string  `yaml:"apodkey"`   // key for the picture of the day
	NEOKey    string  `yaml:"neokey"`    // key for the near-Earth-object feed
	Endpoint  string  `yaml:"endpoint"`  // base URL of the API
	RateLimit float64 `yaml:"ratelimit"` // requests per second
	Burst     int     `yaml:"burst"`     // token bucket size
}

// CacheSettings holds the freshness window of each feed.
type CacheSettings struct {
	APOD    time.Duration `yaml:"apod"`
	Weather time.Duration `yaml:"weather"`
	NEO     time.Duration `yaml:"neo"`
}

// WebServerSettings contains settings for the dashboard server.
type WebServerSettings struct {
	Listen string        `yaml:"listen"` // listen address, e.g. ":8080"
	Theme  ThemeSettings `yaml:"theme"`
}

// ThemeSettings selects a dashboard colour preset and optional overrides.
type ThemeSettings struct {
	Name       string `yaml:"name"`       // "night" or "dawn"
	Background string `yaml:"background"` // CSS colour overrides, empty keeps the preset
	Surface    string `yaml:"surface"`
	Text       string `yaml:"text"`
	Accent     string `yaml:"accent"`
	ScoreLine  string `yaml:"scoreline"`
}

// WatchSettings controls the polling loop.
type WatchSettings struct {
	Interval      time.Duration `yaml:"interval"`      // time between report refreshes
	Locations     []string      `yaml:"locations"`     // locations to watch, empty means the default location
	NotifyVerdict string        `yaml:"notifyverdict"` // lowest verdict that triggers a notification
}

// MQTTSettings contains settings for publishing nightly reports.
type MQTTSettings struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`   // e.g. tcp://localhost:1883
	Topic    string `yaml:"topic"`    // topic prefix
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Retain   bool   `yaml:"retain"`
}

// NotifySettings contains push notification settings.
type NotifySettings struct {
	Enabled bool     `yaml:"enabled"`
	URLs    []string `yaml:"urls"` // shoutrrr service URLs
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file, .env and environment variables into Settings.
// An empty configFile searches the default paths and falls back to the embedded defaults.
func Load(configFile string) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if err := initViper(configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper(configFile string) error {
	viper.SetConfigType("yaml")
	setDefaultConfig()

	if err := bindEnvVars(); err != nil {
		return err
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.New(err).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Context("config_file", configFile).
				Build()
		}
		return nil
	}

	viper.SetConfigName("config")
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return err
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	err = viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	// No config on disk, run on the embedded defaults
	return viper.ReadConfig(bytes.NewReader(getDefaultConfig()))
}

// loadDotEnv loads KEY=value pairs from path into the process environment.
// Variables already set in the environment win. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("env_file", path).
			Build()
	}
	return nil
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() []byte {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		// The file is embedded at build time
		panic(fmt.Sprintf("embedded config.yaml missing: %v", err))
	}
	return data
}

// WriteDefault writes the embedded default config to path, refusing to overwrite.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file already exists: %s", path).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}
	if err := os.WriteFile(path, getDefaultConfig(), 0o600); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	return nil
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// redacted replaces a secret with a fixed marker, keeping empty values empty.
func redacted(secret string) string {
	if secret == "" {
		return ""
	}
	return "[REDACTED]"
}

// RedactedYAML renders the effective settings as YAML with secrets masked.
func RedactedYAML(s *Settings) ([]byte, error) {
	c := *s
	c.APIs.Weather.Key = redacted(c.APIs.Weather.Key)
	c.APIs.NASA.APODKey = redacted(c.APIs.NASA.APODKey)
	c.APIs.NASA.NEOKey = redacted(c.APIs.NASA.NEOKey)
	c.MQTT.Password = redacted(c.MQTT.Password)

	c.Notify.URLs = make([]string, len(s.Notify.URLs))
	for i := range s.Notify.URLs {
		c.Notify.URLs[i] = redacted(s.Notify.URLs[i])
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("error marshaling settings to YAML: %w", err)
	}
	return data, nil
}

// NEOKey returns the NeoWs key, falling back to the APOD key.
func (s *Settings) NEOKey() string {
	if s.APIs.NASA.NEOKey != "" {
		return s.APIs.NASA.NEOKey
	}
	return s.APIs.NASA.APODKey
}

// WatchedLocations returns the locations the watcher polls.
func (s *Settings) WatchedLocations() []string {
	if len(s.Watch.Locations) > 0 {
		return s.Watch.Locations
	}
	return []string{s.Location}
}
