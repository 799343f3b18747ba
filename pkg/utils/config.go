package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Station  StationConfig
	Pricing  PricingConfig
	Dispatch DispatchConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type SessionConfig struct {
	ExpiryHours int
}

// StationConfig identifies the departure station. The timezone decides what
// counts as "today" for day passes and exit-pass lookups.
type StationConfig struct {
	Name     string
	Timezone string
}

type PricingConfig struct {
	DayPassFee        float64
	ServiceFeePerSeat float64
}

type DispatchConfig struct {
	QueueSize int
	SpoolDir  string
}

type RedisConfig struct {
	Addr     string
	Password string
	TTLSecs  int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 12)
	viper.SetDefault("STATION_TZ", "Asia/Jakarta")
	viper.SetDefault("DAY_PASS_FEE", 10000.0)
	viper.SetDefault("SERVICE_FEE_PER_SEAT", 2000.0)
	viper.SetDefault("DISPATCH_QUEUE_SIZE", 256)
	viper.SetDefault("PRINT_SPOOL_DIR", "spool")
	viper.SetDefault("REDIS_TTL_SECS", 5)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Station: StationConfig{
			Name:     viper.GetString("STATION_NAME"),
			Timezone: viper.GetString("STATION_TZ"),
		},
		Pricing: PricingConfig{
			DayPassFee:        viper.GetFloat64("DAY_PASS_FEE"),
			ServiceFeePerSeat: viper.GetFloat64("SERVICE_FEE_PER_SEAT"),
		},
		Dispatch: DispatchConfig{
			QueueSize: viper.GetInt("DISPATCH_QUEUE_SIZE"),
			SpoolDir:  viper.GetString("PRINT_SPOOL_DIR"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			TTLSecs:  viper.GetInt("REDIS_TTL_SECS"),
		},
	}

	return config, nil
}
