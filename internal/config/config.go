// Package config loads runtime settings from defaults, an optional YAML file,
// CHAPTERPRESS_* environment variables and command line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/opd-ai/chapterpress/internal/layout"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CHAPTERPRESS"

// Sentinel errors for config operations.
var (
	ErrConfigRead    = errors.New("failed to read config")
	ErrInvalidConfig = errors.New("invalid config")
)

// Config holds all runtime settings.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Document DocumentConfig `mapstructure:"document"`
}

// ServerConfig configures the web form.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	TLS             TLSConfig     `mapstructure:"tls"`
	RateLimit       int           `mapstructure:"rate_limit"`  // generations per window per client IP
	RateWindow      time.Duration `mapstructure:"rate_window"` // length of the rate limit window
	DownloadTTL     time.Duration `mapstructure:"download_ttl"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// TLSConfig enables HTTPS. Missing certificate files are generated as a
// self-signed pair.
type TLSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cert    string `mapstructure:"cert"`
	Key     string `mapstructure:"key"`
}

// LogConfig configures logging output.
type LogConfig struct {
	File string `mapstructure:"file"` // empty = stderr
}

// DocumentConfig configures rendering.
type DocumentConfig struct {
	PageSize   string  `mapstructure:"page_size"`
	LineHeight float64 `mapstructure:"line_height"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.tls.enabled", false)
	v.SetDefault("server.tls.cert", "certs/server.crt")
	v.SetDefault("server.tls.key", "certs/server.key")
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("server.rate_window", time.Minute)
	v.SetDefault("server.download_ttl", 10*time.Minute)
	v.SetDefault("server.max_upload_bytes", 10<<20)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.file", "")
	v.SetDefault("document.page_size", layout.PageA4)
	v.SetDefault("document.line_height", 10.0)
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"addr":      "server.addr",
	"tls":       "server.tls.enabled",
	"log-file":  "log.file",
	"page-size": "document.page_size",
}

// RegisterFlags adds the flags understood by Load to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "path to a YAML config file")
	fs.String("addr", ":8080", "listen address")
	fs.Bool("tls", false, "serve HTTPS (self-signed certificate if none configured)")
	fs.String("log-file", "", "append logs to this file instead of stderr")
	fs.String("page-size", layout.PageA4, "page size: A4, Letter or Legal")
}

// Load resolves the configuration. fs may be nil; flags not registered on fs
// are ignored.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("%w: binding --%s: %v", ErrConfigRead, name, err)
				}
			}
		}
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrConfigRead, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigRead, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Document.PageSize {
	case layout.PageA4, layout.PageLetter, layout.PageLegal:
	default:
		return fmt.Errorf("%w: page size %q", ErrInvalidConfig, c.Document.PageSize)
	}
	if c.Document.LineHeight <= 0 {
		return fmt.Errorf("%w: line height %.1f", ErrInvalidConfig, c.Document.LineHeight)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.Server.RateLimit <= 0 || c.Server.RateWindow <= 0 {
		return fmt.Errorf("%w: rate limit %d per %v", ErrInvalidConfig, c.Server.RateLimit, c.Server.RateWindow)
	}
	if c.Server.DownloadTTL <= 0 {
		return fmt.Errorf("%w: download ttl %v", ErrInvalidConfig, c.Server.DownloadTTL)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max upload bytes %d", ErrInvalidConfig, c.Server.MaxUploadBytes)
	}
	if c.Server.TLS.Enabled && (c.Server.TLS.Cert == "" || c.Server.TLS.Key == "") {
		return fmt.Errorf("%w: tls enabled without cert and key paths", ErrInvalidConfig)
	}
	return nil
}
