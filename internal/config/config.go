// Package config centralizes how ProspectScan reads its settings and exposes
// them as strongly typed Go values. Settings are resolved once at process
// start and handed to the components that need them.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents runtime configuration for the front-end. Exported fields
// start with a capital letter so other packages can read them.
type Config struct {
	Address       string
	APIBaseURL    string
	PageOrigin    string
	MaxFileSize   int64
	UploadTimeout time.Duration
	TimeZone      string
	Location      *time.Location
	LogLevel      string
	LogFormat     string
}

const (
	envPrefix = "PROSPECTSCAN"

	defaultAddress     = ":3000"
	defaultMaxFileSize = 25 << 20 // 25 MiB
	defaultTimeZone    = "America/Mexico_City"
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"

	// DefaultLocalAPI is where the ProspectScan API listens during local
	// development.
	DefaultLocalAPI = "http://localhost:8000"

	codespacesMarker   = ".app.github.dev"
	devServerPortToken = "-3000."
	backendPortToken   = "-8000."
)

// Load reads an optional .env file, then environment variables prefixed with
// PROSPECTSCAN_, falling back to defaults. It returns (value, error) so
// callers decide how to react to a bad setup.
func Load() (*Config, error) {
	// A missing .env file is the normal case outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetDefault("address", defaultAddress)
	v.SetDefault("api_url", "")
	v.SetDefault("page_origin", "")
	v.SetDefault("max_file_bytes", defaultMaxFileSize)
	v.SetDefault("upload_timeout", time.Duration(0))
	v.SetDefault("timezone", defaultTimeZone)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("log_format", defaultLogFormat)

	cfg := &Config{
		Address:       v.GetString("address"),
		APIBaseURL:    v.GetString("api_url"),
		PageOrigin:    v.GetString("page_origin"),
		MaxFileSize:   v.GetInt64("max_file_bytes"),
		UploadTimeout: v.GetDuration("upload_timeout"),
		TimeZone:      v.GetString("timezone"),
		LogLevel:      strings.ToLower(v.GetString("log_level")),
		LogFormat:     strings.ToLower(v.GetString("log_format")),
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize fills derived values (API base, time location) and validates the
// result. Load calls it; callers that override fields afterwards (CLI flags)
// call it again.
func (c *Config) Finalize() error {
	if c.Address == "" {
		c.Address = defaultAddress
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = defaultMaxFileSize
	}
	if c.UploadTimeout < 0 {
		c.UploadTimeout = 0
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = ResolveAPIBase(c.PageOrigin)
	}
	if c.APIBaseURL == "" {
		// An empty base means "same origin as the page"; a server-side
		// process has no page, so it talks to the local API directly.
		c.APIBaseURL = DefaultLocalAPI
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.TimeZone == "" {
		c.TimeZone = defaultTimeZone
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", c.TimeZone, err)
	}
	c.Location = loc
	return c.Validate()
}

// Validate rejects configurations that cannot work at all.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api url %q: scheme must be http or https", c.APIBaseURL)
	}
	if u.Host == "" {
		return errors.New("api url: missing host")
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("log format %q: expected console or json", c.LogFormat)
	}
	return nil
}

// ResolveAPIBase derives the API origin from the page origin. Inside a
// GitHub Codespace the dev server and the API are published on sibling host
// names that differ only in the port token, so the token is swapped. Any
// other origin yields "", meaning requests stay relative to the page and a
// reverse proxy reaches the API.
func ResolveAPIBase(origin string) string {
	if origin == "" {
		return ""
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return ""
	}
	if !strings.Contains(u.Hostname(), codespacesMarker) {
		return ""
	}
	return strings.TrimRight(strings.Replace(origin, devServerPortToken, backendPortToken, 1), "/")
}
