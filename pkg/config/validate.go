package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// ValidationError represents a single validation error with context.
type ValidationError struct {
	Path    string // e.g., "database.driver"
	Message string // e.g., "unsupported driver"
	Hint    string // e.g., "expected sqlite3 or rqlite"
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s; %s", e.Path, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate performs comprehensive validation of the entire config.
// It aggregates all errors and returns them, allowing the caller to print all issues at once.
func (c *Config) Validate() []error {
	var errs []error
	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateDatabase()...)
	errs = append(errs, c.validateAuth()...)
	errs = append(errs, c.validateFeed()...)
	errs = append(errs, c.validateMedia()...)
	errs = append(errs, c.validateLogging()...)
	return errs
}

func (c *Config) validateServer() []error {
	var errs []error
	sc := c.Server

	if err := validateHostPort(sc.ListenAddr); err != nil {
		errs = append(errs, ValidationError{
			Path:    "server.listen_addr",
			Message: err.Error(),
			Hint:    "expected [host]:port, e.g. :8080",
		})
	}
	if sc.ReadTimeout <= 0 {
		errs = append(errs, ValidationError{Path: "server.read_timeout", Message: fmt.Sprintf("must be > 0; got %s", sc.ReadTimeout)})
	}
	if sc.WriteTimeout <= 0 {
		errs = append(errs, ValidationError{Path: "server.write_timeout", Message: fmt.Sprintf("must be > 0; got %s", sc.WriteTimeout)})
	}
	if sc.RequestTimeout <= 0 {
		errs = append(errs, ValidationError{Path: "server.request_timeout", Message: fmt.Sprintf("must be > 0; got %s", sc.RequestTimeout)})
	}
	if sc.MaxConnections < 0 {
		errs = append(errs, ValidationError{Path: "server.max_connections", Message: fmt.Sprintf("must be >= 0; got %d", sc.MaxConnections)})
	}
	if sc.HTTPS.Enabled {
		if strings.TrimSpace(sc.HTTPS.Domain) == "" {
			errs = append(errs, ValidationError{Path: "server.https.domain", Message: "must not be empty when https is enabled"})
		}
		if strings.TrimSpace(sc.HTTPS.CacheDir) == "" {
			errs = append(errs, ValidationError{Path: "server.https.cache_dir", Message: "must not be empty when https is enabled"})
		}
	}
	return errs
}

func (c *Config) validateDatabase() []error {
	var errs []error
	dc := c.Database

	switch dc.Driver {
	case "sqlite3":
		if strings.TrimSpace(dc.DSN) == "" {
			errs = append(errs, ValidationError{Path: "database.dsn", Message: "must not be empty", Hint: "path to the sqlite database file"})
		}
	case "rqlite":
		u, err := url.Parse(dc.DSN)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Path:    "database.dsn",
				Message: fmt.Sprintf("invalid rqlite URL %q", dc.DSN),
				Hint:    "expected http://host:port",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Path:    "database.driver",
			Message: fmt.Sprintf("unsupported driver %q", dc.Driver),
			Hint:    "expected sqlite3 or rqlite",
		})
	}
	if dc.MaxOpenConns < 1 {
		errs = append(errs, ValidationError{Path: "database.max_open_conns", Message: fmt.Sprintf("must be >= 1; got %d", dc.MaxOpenConns)})
	}
	return errs
}

func (c *Config) validateAuth() []error {
	var errs []error
	ac := c.Auth

	if ac.SigningKeyPath != "" {
		if _, err := os.Stat(ac.SigningKeyPath); err != nil {
			errs = append(errs, ValidationError{
				Path:    "auth.signing_key_path",
				Message: fmt.Sprintf("cannot read key: %v", err),
				Hint:    "generate one with `social-gateway keygen`",
			})
		}
	}
	if strings.TrimSpace(ac.Issuer) == "" {
		errs = append(errs, ValidationError{Path: "auth.issuer", Message: "must not be empty"})
	}
	if strings.TrimSpace(ac.Audience) == "" {
		errs = append(errs, ValidationError{Path: "auth.audience", Message: "must not be empty"})
	}
	if ac.SessionTTL <= 0 {
		errs = append(errs, ValidationError{Path: "auth.session_ttl", Message: fmt.Sprintf("must be > 0; got %s", ac.SessionTTL)})
	}
	if ac.NonceTTL <= 0 {
		errs = append(errs, ValidationError{Path: "auth.nonce_ttl", Message: fmt.Sprintf("must be > 0; got %s", ac.NonceTTL)})
	}
	return errs
}

func (c *Config) validateFeed() []error {
	if c.Feed.MaxItems < 1 {
		return []error{ValidationError{Path: "feed.max_items", Message: fmt.Sprintf("must be >= 1; got %d", c.Feed.MaxItems)}}
	}
	return nil
}

func (c *Config) validateMedia() []error {
	mc := c.Media
	if !mc.Enabled {
		return nil
	}
	var errs []error
	if strings.TrimSpace(mc.Bucket) == "" {
		errs = append(errs, ValidationError{Path: "media.bucket", Message: "must not be empty when media is enabled"})
	}
	if strings.TrimSpace(mc.Region) == "" {
		errs = append(errs, ValidationError{Path: "media.region", Message: "must not be empty when media is enabled"})
	}
	if mc.Endpoint != "" {
		if u, err := url.Parse(mc.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{Path: "media.endpoint", Message: fmt.Sprintf("invalid URL %q", mc.Endpoint)})
		}
	}
	if u, err := url.Parse(mc.PublicBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Path:    "media.public_base_url",
			Message: fmt.Sprintf("invalid URL %q", mc.PublicBaseURL),
			Hint:    "e.g. https://cdn.example.com",
		})
	}
	if (mc.AccessKey == "") != (mc.SecretKey == "") {
		errs = append(errs, ValidationError{
			Path:    "media.access_key",
			Message: "access_key and secret_key must be set together",
			Hint:    "leave both empty to use the default AWS credential chain",
		})
	}
	if mc.UploadTTL <= 0 {
		errs = append(errs, ValidationError{Path: "media.upload_ttl", Message: fmt.Sprintf("must be > 0; got %s", mc.UploadTTL)})
	}
	return errs
}

func (c *Config) validateLogging() []error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return []error{ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("invalid level %q", c.Logging.Level),
			Hint:    "expected one of debug, info, warn, error",
		}}
	}
}

func validateHostPort(hostPort string) error {
	_, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return fmt.Errorf("invalid address %q: %v", hostPort, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", portStr)
	}
	return nil
}
