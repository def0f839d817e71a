package config

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/angas/spotprice-go/logging"
	"github.com/spf13/viper"
)

// Homie device ids are lowercase letters, numbers and hyphens, and
// must not start or end with a hyphen.
var deviceIdPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

type AppConfigMqtt struct {
	Host      string
	Port      int16
	Username  string
	Password  string
	BaseTopic string `mapstructure:"base_topic"`
}

type AppConfigDevice struct {
	Id   string
	Name string
}

func (d AppConfigDevice) GetName() string {
	if d.Name == "" {
		return d.Id
	}
	return d.Name
}

type AppConfigEnergyPrice struct {
	Area     string  // Bidding zone, e.g. "FI", "SE3"
	Currency string  // Currency the market API should quote, e.g. "EUR"
	Vat      float64 // VAT percentage added to the published price
	Timezone string  // Market region timezone, used for the daily fetch schedule
	RunAt    string  `mapstructure:"run_at"` // Cron spec for the daily fetch, region local time
}

type AppConfigTick struct {
	// How often the active price is re-evaluated, e.g. "1m"
	Interval string
}

func (t AppConfigTick) GetInterval() time.Duration {
	d, err := time.ParseDuration(t.Interval)
	if err != nil {
		return time.Minute
	}
	return d
}

type AppConfigLogging struct {
	// Min log level for console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Mqtt        AppConfigMqtt
	Device      AppConfigDevice
	EnergyPrice AppConfigEnergyPrice `mapstructure:"energy_price"`
	Tick        AppConfigTick
	Logging     AppConfigLogging
}

// Load populates the configuration from environment variables, with an
// optional YAML file (useful for development). Defaults are registered
// for every key so plain environment variables are picked up without a
// config file.
func Load(path string) (*AppConfig, error) {
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults()

	var c AppConfig
	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func setDefaults() {
	viper.SetDefault("mqtt.host", "")
	viper.SetDefault("mqtt.port", 1883)
	viper.SetDefault("mqtt.username", "")
	viper.SetDefault("mqtt.password", "")
	viper.SetDefault("mqtt.base_topic", "homie")
	viper.SetDefault("device.id", "")
	viper.SetDefault("device.name", "")
	viper.SetDefault("energy_price.area", "")
	viper.SetDefault("energy_price.currency", "EUR")
	viper.SetDefault("energy_price.vat", 25.5)
	viper.SetDefault("energy_price.timezone", "Europe/Helsinki")
	viper.SetDefault("energy_price.run_at", "15 0 * * *")
	viper.SetDefault("tick.interval", "1m")
	viper.SetDefault("logging.console_level", "INFO")
}

func (c *AppConfig) validate() error {
	if c.Mqtt.Host == "" {
		return errors.New("mqtt host is required (MQTT_HOST)")
	}
	if c.Device.Id == "" {
		return errors.New("device id is required (DEVICE_ID)")
	}
	if !deviceIdPattern.MatchString(c.Device.Id) {
		return fmt.Errorf("device id %q is not a valid homie device id", c.Device.Id)
	}
	if c.EnergyPrice.Area == "" {
		return errors.New("energy price area is required (ENERGY_PRICE_AREA)")
	}
	if _, err := time.LoadLocation(c.EnergyPrice.Timezone); err != nil {
		return fmt.Errorf("invalid energy price timezone %q: %w", c.EnergyPrice.Timezone, err)
	}
	if _, err := time.ParseDuration(c.Tick.Interval); err != nil {
		return fmt.Errorf("invalid tick interval %q: %w", c.Tick.Interval, err)
	}
	return nil
}
