package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode          string        `mapstructure:"mode"`
	Port          int           `mapstructure:"port"`
	AllowedOrigin string        `mapstructure:"allowed_origin"`
	ExecutorURL   string        `mapstructure:"executor_url"`
	StaticPath    string        `mapstructure:"static_path"`
	ReadLimit     int64         `mapstructure:"read_limit"`
	PingPeriod    time.Duration `mapstructure:"ping_period"`
	SendBuffer    int           `mapstructure:"send_buffer"`
	Secret        string        `mapstructure:"secret"`
	Backpressure  string        `mapstructure:"backpressure"`
}

// Backpressure modes for a recipient whose send queue is full.
const (
	BackpressureKick = "kick"
	BackpressureDrop = "drop"
)

// envKeys maps config keys to the environment variables that override them.
var envKeys = map[string]string{
	"mode":           "MODE",
	"port":           "PORT",
	"allowed_origin": "ALLOWED_ORIGIN",
	"executor_url":   "EXECUTOR_URL",
	"static_path":    "STATIC_PATH",
	"read_limit":     "READ_LIMIT",
	"ping_period":    "PING_PERIOD",
	"send_buffer":    "SEND_BUFFER",
	"secret":         "SECRET",
	"backpressure":   "BACKPRESSURE",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := os.Getenv("CONFIG_FILE")
	if fileName == "" {
		fileName = fmt.Sprintf("config/config.%s.yaml", env)
	}

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 10000)
	v.SetDefault("allowed_origin", "*")
	v.SetDefault("executor_url", "https://emkc.org/api/v2/piston")
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 1<<20)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 256)
	v.SetDefault("secret", "coderoom-dev-secret")
	v.SetDefault("backpressure", BackpressureKick)

	for key, name := range envKeys {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", name, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults and env")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("executor", cfg.ExecutorURL).Str("origin", cfg.AllowedOrigin).Msg("config ready")
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port out of range: %d", c.Port))
	}
	if c.ExecutorURL == "" {
		errs = append(errs, errors.New("executor_url is empty"))
	}
	if c.SendBuffer <= 0 {
		errs = append(errs, fmt.Errorf("send_buffer must be positive: %d", c.SendBuffer))
	}
	if c.Backpressure != BackpressureKick && c.Backpressure != BackpressureDrop {
		errs = append(errs, fmt.Errorf("backpressure must be %q or %q: %q", BackpressureKick, BackpressureDrop, c.Backpressure))
	}
	if c.PingPeriod <= 0 {
		errs = append(errs, fmt.Errorf("ping_period must be positive: %s", c.PingPeriod))
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// AllowedOrigins splits the comma-separated origin list. "*" allows any origin.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, s := range strings.Split(c.AllowedOrigin, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// OriginAllowed reports whether a browser Origin header may open a connection.
// Requests without an Origin header come from non-browser clients and pass.
func (c *Config) OriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range c.AllowedOrigins() {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
