// Package config loads the ffbtrace JSON configuration file and provides
// defaults for every setting, so running without a config file works.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Load reads configuration from ffbtrace.cfg.json in configDir and sets
// default values. A missing file is not an error; defaults apply.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("runsDir", "./runs")
	viper.SetDefault("defaultDriver", "evdev")

	viper.SetDefault("device.path", "")

	viper.SetDefault("capture.warmupMs", 2000)
	viper.SetDefault("capture.interface", "")
	viper.SetDefault("capture.usbpcapDevice", "")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("archive.enabled", false)
	viper.SetDefault("db.host", "")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "ffbtrace")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "ffb-metrics")
	viper.SetDefault("influx.bucket", "ffbtrace")

	viper.SetConfigName("ffbtrace.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
