// Initializing common application configuration
package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Scraper     ScraperConfig     `mapstructure:"scraper"`
	MusicBrainz MusicBrainzConfig `mapstructure:"musicbrainz"`
}

type ServerConfig struct {
	Host        string        `mapstructure:"host"`
	Port        string        `mapstructure:"port"`
	Mode        string        `mapstructure:"mode"`
	Timeout     time.Duration `mapstructure:"timeout"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type ScraperConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	Interval  time.Duration `mapstructure:"interval"`
	Timezone  string        `mapstructure:"timezone"`
}

type MusicBrainzConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	UserAgent   string        `mapstructure:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MinInterval time.Duration `mapstructure:"min_interval"`
}

func LoadConfig() (*viper.Viper, error) {
	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	setDefaults(viperInstance)

	if err := viperInstance.ReadInConfig(); err != nil {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("database.path", "./data/showscrape.db")

	v.SetDefault("scraper.timeout", 30*time.Second)
	v.SetDefault("scraper.user_agent", "showscrape/1.0")
	v.SetDefault("scraper.interval", 6*time.Hour)
	v.SetDefault("scraper.timezone", "America/Boise")

	v.SetDefault("musicbrainz.base_url", "https://musicbrainz.org/ws/2")
	v.SetDefault("musicbrainz.user_agent", "showscrape/1.0 (https://github.com/showscrape)")
	v.SetDefault("musicbrainz.timeout", 15*time.Second)
	v.SetDefault("musicbrainz.min_interval", 1100*time.Millisecond)
}

// GetEnv returns an environment variable with a fallback.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
