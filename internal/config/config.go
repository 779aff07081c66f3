// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name read by Load.
const EnvPrefix = "IATSITE_"

// ContentSourceKind names where content feeds are read from.
type ContentSourceKind string

const (
	ContentEmbedded ContentSourceKind = "embedded"
	ContentDir      ContentSourceKind = "dir"
	ContentGitHub   ContentSourceKind = "github"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr      string        `env:"LISTEN_ADDR" envDefault:"127.0.0.1:8080"`
	DBPath          string        `env:"DB_PATH" envDefault:"iatsite.db"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	ContentDir     string        `env:"CONTENT_DIR"`
	ContentRepo    string        `env:"CONTENT_REPO"`
	ContentRef     string        `env:"CONTENT_REF" envDefault:"main"`
	ContentPath    string        `env:"CONTENT_PATH" envDefault:"content"`
	ContentRefresh time.Duration `env:"CONTENT_REFRESH" envDefault:"0s"`
	GitHubToken    string        `env:"GITHUB_TOKEN"`

	CounterDuration      time.Duration `env:"COUNTER_DURATION" envDefault:"2s"`
	CounterFrameInterval time.Duration `env:"COUNTER_FRAME_INTERVAL" envDefault:"50ms"`
	CounterMountTimeout  time.Duration `env:"COUNTER_MOUNT_TIMEOUT" envDefault:"5m"`

	CORSOrigins   []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
	SecureCookies bool     `env:"SECURE_COOKIES" envDefault:"false"`
}

// ContentSource reports which feed source the configuration selects. Without
// a directory or repository the embedded fixtures are used.
func (c *Config) ContentSource() ContentSourceKind {
	switch {
	case c.ContentRepo != "":
		return ContentGitHub
	case c.ContentDir != "":
		return ContentDir
	default:
		return ContentEmbedded
	}
}

// Load reads IATSITE_* environment variables and returns a validated Config.
// Every variable is optional; with none set the server listens on
// 127.0.0.1:8080 and serves the embedded content.
func Load() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", nameEnvVars(err))
	}

	cfg.CORSOrigins = cleanList(cfg.CORSOrigins)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// nameEnvVars rewrites field parse failures so each names the prefixed
// variable an operator sets rather than the Go struct field.
func nameEnvVars(err error) error {
	var agg env.AggregateError
	if !errors.As(err, &agg) {
		return err
	}
	cfgType := reflect.TypeOf(Config{})
	errs := make([]error, 0, len(agg.Errors))
	for _, e := range agg.Errors {
		var pe env.ParseError
		if errors.As(e, &pe) {
			if field, ok := cfgType.FieldByName(pe.Name); ok {
				if name := field.Tag.Get("env"); name != "" {
					errs = append(errs, fmt.Errorf("%s%s: invalid value: %w", EnvPrefix, name, e))
					continue
				}
			}
		}
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

func (c *Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.ListenAddr) == "" {
		errs = append(errs, fmt.Errorf("%sLISTEN_ADDR must not be empty", EnvPrefix))
	}
	if c.CounterDuration <= 0 {
		errs = append(errs, fmt.Errorf("%sCOUNTER_DURATION must be positive, got %s", EnvPrefix, c.CounterDuration))
	}
	if c.CounterFrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("%sCOUNTER_FRAME_INTERVAL must be positive, got %s", EnvPrefix, c.CounterFrameInterval))
	}
	if c.CounterMountTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%sCOUNTER_MOUNT_TIMEOUT must be positive, got %s", EnvPrefix, c.CounterMountTimeout))
	}
	if c.ContentRefresh < 0 {
		errs = append(errs, fmt.Errorf("%sCONTENT_REFRESH must not be negative, got %s", EnvPrefix, c.ContentRefresh))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%sSHUTDOWN_TIMEOUT must be positive, got %s", EnvPrefix, c.ShutdownTimeout))
	}
	if c.ContentRepo != "" && c.ContentDir != "" {
		errs = append(errs, fmt.Errorf("%sCONTENT_DIR and %sCONTENT_REPO are mutually exclusive", EnvPrefix, EnvPrefix))
	}
	if c.ContentRepo != "" && strings.Count(c.ContentRepo, "/") != 1 {
		errs = append(errs, fmt.Errorf("%sCONTENT_REPO %q must be owner/repo", EnvPrefix, c.ContentRepo))
	}
	if len(c.CORSOrigins) == 0 {
		errs = append(errs, fmt.Errorf("%sCORS_ORIGINS must name at least one origin", EnvPrefix))
	}
	return errors.Join(errs...)
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
