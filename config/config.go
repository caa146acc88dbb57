package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	DBPath   string `mapstructure:"DB_PATH"`

	// Availability defaults.
	Timezone               string `mapstructure:"TIMEZONE"`
	WorkDayStart           int    `mapstructure:"WORK_DAY_START"`
	WorkDayEnd             int    `mapstructure:"WORK_DAY_END"`
	DefaultDurationMinutes int    `mapstructure:"DEFAULT_DURATION_MINUTES"`
	MaxSlots               int    `mapstructure:"MAX_SLOTS"`
	CalendarIDs            string `mapstructure:"CALENDAR_IDS"`

	// Google Calendar credentials.
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRefreshToken string `mapstructure:"GOOGLE_REFRESH_TOKEN"`

	// CalDAV credentials.
	CalDAVServerURL string `mapstructure:"CALDAV_SERVER_URL"`
	CalDAVUsername  string `mapstructure:"CALDAV_USERNAME"`
	CalDAVPassword  string `mapstructure:"CALDAV_PASSWORD"`

	// Redis configuration, empty address disables the busy cache.
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB    int    `mapstructure:"REDIS_CACHE_DB"`
	CacheTTLSeconds int    `mapstructure:"CACHE_TTL_SECONDS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.config/availability")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_PATH", "availability.db")
	viper.SetDefault("TIMEZONE", "Local")
	viper.SetDefault("WORK_DAY_START", 9)
	viper.SetDefault("WORK_DAY_END", 18)
	viper.SetDefault("DEFAULT_DURATION_MINUTES", 60)
	viper.SetDefault("MAX_SLOTS", 5)
	viper.SetDefault("CALENDAR_IDS", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("CACHE_TTL_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// CalendarIDList splits the comma separated CALENDAR_IDS value.
func CalendarIDList() []string {
	var ids []string

	for _, id := range strings.Split(AppConfig.CalendarIDs, ",") {
		if trimmed := strings.TrimSpace(id); len(trimmed) > 0 {
			ids = append(ids, trimmed)
		}
	}

	return ids
}

// Location resolves the configured timezone, falling back to the
// system one.
func Location() *time.Location {
	location, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		return time.Local
	}

	return location
}
