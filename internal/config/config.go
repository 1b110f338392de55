package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type ServerConfig struct {
	Address     string   `mapstructure:"address"`
	Mode        string   `mapstructure:"mode"`
	PublicDir   string   `mapstructure:"public_dir"`
	CorsOrigins []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Path           string `mapstructure:"path"`
	LegacyJSONPath string `mapstructure:"legacy_json_path"`
	LogMode        bool   `mapstructure:"log_mode"`
}

type BackupConfig struct {
	Dir           string `mapstructure:"dir"`
	IntervalHours int    `mapstructure:"interval_hours"`
	Keep          int    `mapstructure:"keep"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

// Interval returns the backup period, zero when backups are disabled.
func (c BackupConfig) Interval() time.Duration {
	if c.IntervalHours <= 0 {
		return 0
	}
	return time.Duration(c.IntervalHours) * time.Hour
}

// Load reads configuration from the given file path (e.g. "config.yaml").
// A missing file is not an error; defaults and environment overrides
// (prefix PUSHUP, e.g. PUSHUP_SERVER_ADDRESS) still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.mode", "")
	v.SetDefault("server.public_dir", "public")
	v.SetDefault("database.path", "data/pushups.db")
	v.SetDefault("database.legacy_json_path", "data/db.json")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("backup.dir", "data/backups")
	v.SetDefault("backup.interval_hours", 0)
	v.SetDefault("backup.keep", 5)

	v.SetEnvPrefix("PUSHUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !strings.Contains(err.Error(), "no such file") {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &c, nil
}
