package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Log         LogConfig         `mapstructure:"log"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	StaticDir      string   `mapstructure:"static_dir"`
}

// Database connection. Driver is one of "sqlite3", "pgx" or "postgres".
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Seed   bool   `mapstructure:"seed"`
}

type AuthConfig struct {
	SessionSecret string `mapstructure:"session_secret"`
	PasscodeHash  string `mapstructure:"passcode_hash"` // bcrypt hash, empty disables the passcode
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Env   string `mapstructure:"env"` // "development" prints to the console
}

type LeaderboardConfig struct {
	NextLevelPoints int `mapstructure:"next_level_points"`
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	viper.SetDefault("server.static_dir", "./web/dist")

	viper.SetDefault("database.driver", "sqlite3")
	viper.SetDefault("database.dsn", "./eventquest.db")
	viper.SetDefault("database.seed", false)

	viper.SetDefault("auth.session_secret", "your-secret-key-change-this-in-production")
	viper.SetDefault("auth.passcode_hash", "")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.env", "development")

	viper.SetDefault("leaderboard.next_level_points", 1500)
}

func Load() (*Config, error) {
	// .env is optional, real environment variables win
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.BindEnv("database.dsn", "EVENTQUEST_DATABASE_DSN", "DATABASE_URL")
	viper.BindEnv("server.port", "EVENTQUEST_SERVER_PORT", "PORT")

	viper.SetEnvPrefix("EVENTQUEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found, use defaults
	}

	// Local overrides (ignored by git)
	viper.SetConfigName("config.local")
	if err := viper.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
