package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/echovault/internal/client/audio"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds runtime settings for the EchoVault CLI.
type Config struct {
	// DatabasePath is the local SQLite file with preferences, the stored
	// session and, in local mode, the entries.
	DatabasePath string `json:"database_path" yaml:"database_path" env:"ECHOVAULT_DATABASE_PATH" env-default:"echovault.db"`
	// RecordsDSN selects a Postgres record service (postgres://...). Empty
	// keeps entries in the local database.
	RecordsDSN string `json:"records_dsn" yaml:"records_dsn" env:"ECHOVAULT_RECORDS_DSN"`

	SessionSecret       string        `json:"session_secret" yaml:"session_secret" env:"ECHOVAULT_SESSION_SECRET"`
	SessionTTL          time.Duration `json:"session_ttl" yaml:"session_ttl" env:"ECHOVAULT_SESSION_TTL" env-default:"24h"`
	ExpiryCheckInterval time.Duration `json:"expiry_check_interval" yaml:"expiry_check_interval" env:"ECHOVAULT_EXPIRY_CHECK_INTERVAL" env-default:"1m"`

	// SessionRefreshWindow is how long before expiry the session token is
	// re-issued.
	SessionRefreshWindow time.Duration `json:"session_refresh_window" yaml:"session_refresh_window" env:"ECHOVAULT_SESSION_REFRESH_WINDOW" env-default:"1h"`

	DefaultTheme    string `json:"default_theme" yaml:"default_theme" env:"ECHOVAULT_DEFAULT_THEME" env-default:"dark"`
	ColorSchemeFile string `json:"color_scheme_file" yaml:"color_scheme_file" env:"ECHOVAULT_COLOR_SCHEME_FILE"`
	OSPrefersDark   bool   `json:"os_prefers_dark" yaml:"os_prefers_dark" env:"ECHOVAULT_OS_PREFERS_DARK"`

	// AudioDir stores recordings when no S3 bucket is configured.
	AudioDir   string `json:"audio_dir" yaml:"audio_dir" env:"ECHOVAULT_AUDIO_DIR" env-default:"echovault-audio"`
	S3Region   string `json:"s3_region" yaml:"s3_region" env:"ECHOVAULT_S3_REGION" env-default:"us-east-1"`
	S3Bucket   string `json:"s3_bucket" yaml:"s3_bucket" env:"ECHOVAULT_S3_BUCKET"`
	S3Endpoint string `json:"s3_endpoint" yaml:"s3_endpoint" env:"ECHOVAULT_S3_ENDPOINT"`
	S3User     string `json:"s3_user" yaml:"s3_user" env:"ECHOVAULT_S3_USER"`
	S3Password string `json:"s3_password" yaml:"s3_password" env:"ECHOVAULT_S3_PASSWORD"`

	LogLevel  string `json:"log_level" yaml:"log_level" env:"ECHOVAULT_LOG_LEVEL" env-default:"warn"`
	LogFormat string `json:"log_format" yaml:"log_format" env:"ECHOVAULT_LOG_FORMAT" env-default:"console"`
}

// UseS3 reports whether recordings go to an S3 bucket.
func (c *Config) UseS3() bool { return c.S3Bucket != "" }

func (c *Config) S3() audio.S3Config {
	return audio.S3Config{
		Region:   c.S3Region,
		Bucket:   c.S3Bucket,
		Endpoint: c.S3Endpoint,
		User:     c.S3User,
		Password: c.S3Password,
	}
}

// Load builds a Config from defaults, the optional file named by -c/-config,
// ECHOVAULT_* environment variables and finally the flags in args. Later
// sources take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}

	if path := configFile(args); path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
