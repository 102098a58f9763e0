// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"

	"github.com/tphakala/astral-forecast/internal/logger"
)

// Feed freshness windows. APOD changes once a day, forecasts every half hour.
const (
	DefaultAPODTTL    = 20 * time.Hour
	DefaultWeatherTTL = 30 * time.Minute
	DefaultNEOTTL     = time.Hour
)

const (
	DefaultLocation        = "Stockholm"
	DefaultWeatherEndpoint = "https://api.weatherapi.com/v1"
	DefaultNASAEndpoint    = "https://api.nasa.gov"
	DefaultNASAKey         = "DEMO_KEY"
	DefaultListen          = ":8080"
	DefaultUserAgent       = "astral-forecast"
	DefaultTopic           = "astral-forecast"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)
	viper.SetDefault("location", DefaultLocation)

	viper.SetDefault("logging.default_level", logger.DefaultLogLevel)
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", logger.DefaultConsoleEnabled)
	viper.SetDefault("logging.console.level", logger.DefaultLogLevel)
	viper.SetDefault("logging.file_output.enabled", logger.DefaultFileEnabled)
	viper.SetDefault("logging.file_output.path", logger.DefaultLogPath)
	viper.SetDefault("logging.file_output.level", logger.DefaultLogLevel)

	viper.SetDefault("apis.timeout", 15*time.Second)
	viper.SetDefault("apis.useragent", DefaultUserAgent)
	viper.SetDefault("apis.weather.endpoint", DefaultWeatherEndpoint)
	viper.SetDefault("apis.nasa.endpoint", DefaultNASAEndpoint)
	viper.SetDefault("apis.nasa.apodkey", DefaultNASAKey)
	viper.SetDefault("apis.nasa.ratelimit", 1.0)
	viper.SetDefault("apis.nasa.burst", 3)

	viper.SetDefault("cache.apod", DefaultAPODTTL)
	viper.SetDefault("cache.weather", DefaultWeatherTTL)
	viper.SetDefault("cache.neo", DefaultNEOTTL)

	viper.SetDefault("webserver.listen", DefaultListen)
	viper.SetDefault("webserver.theme.name", "night")

	viper.SetDefault("watch.interval", 30*time.Minute)
	viper.SetDefault("watch.notifyverdict", "excellent")

	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("mqtt.topic", DefaultTopic)
	viper.SetDefault("mqtt.retain", true)

	viper.SetDefault("notify.enabled", false)
}
