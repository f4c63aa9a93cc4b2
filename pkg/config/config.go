package config

import (
	"time"
)

// Config represents the full configuration of the social gateway.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Feed     FeedConfig     `yaml:"feed"`
	Media    MediaConfig    `yaml:"media"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig contains HTTP listener configuration
type ServerConfig struct {
	ListenAddr     string        `yaml:"listen_addr"`     // e.g. ":8080"
	ReadTimeout    time.Duration `yaml:"read_timeout"`    // http.Server ReadTimeout
	WriteTimeout   time.Duration `yaml:"write_timeout"`   // http.Server WriteTimeout
	RequestTimeout time.Duration `yaml:"request_timeout"` // per-request context deadline
	MaxConnections int           `yaml:"max_connections"` // 0 = unlimited
	CORSOrigins    []string      `yaml:"cors_origins"`    // allowed browser origins; "*" allows any
	HTTPS          HTTPSConfig   `yaml:"https"`
}

// HTTPSConfig contains HTTPS/TLS configuration for the gateway
type HTTPSConfig struct {
	Enabled  bool   `yaml:"enabled"`   // Serve TLS on :443 with Let's Encrypt
	Domain   string `yaml:"domain"`    // Domain the certificate is issued for
	CacheDir string `yaml:"cache_dir"` // Directory for Let's Encrypt certificate cache
	Email    string `yaml:"email"`     // Email for Let's Encrypt account
}

// DatabaseConfig selects and tunes the relational store.
type DatabaseConfig struct {
	Driver         string `yaml:"driver"`           // sqlite3 | rqlite
	DSN            string `yaml:"dsn"`              // file path for sqlite3, http URL for rqlite
	MaxOpenConns   int    `yaml:"max_open_conns"`   // connection pool ceiling
	MigrateOnStart bool   `yaml:"migrate_on_start"` // apply pending migrations in serve
}

// AuthConfig controls wallet sign-in and session tokens.
type AuthConfig struct {
	SigningKeyPath     string        `yaml:"signing_key_path"` // RSA PKCS#1 PEM; empty = ephemeral key
	Issuer             string        `yaml:"issuer"`
	Audience           string        `yaml:"audience"`
	SessionTTL         time.Duration `yaml:"session_ttl"`
	NonceTTL           time.Duration `yaml:"nonce_ttl"`
	RequireServerNonce bool          `yaml:"require_server_nonce"` // only accept nonces issued by /v1/auth/challenge
	AppName            string        `yaml:"app_name"`             // shown in the challenge message
}

// FeedConfig bounds feed reads.
type FeedConfig struct {
	MaxItems int `yaml:"max_items"`
}

// MediaConfig configures the S3-compatible bucket clients upload media to.
type MediaConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Bucket        string        `yaml:"bucket"`
	Region        string        `yaml:"region"`
	Endpoint      string        `yaml:"endpoint"`        // custom endpoint for MinIO, R2, etc.
	PublicBaseURL string        `yaml:"public_base_url"` // prefix for public object URLs
	AccessKey     string        `yaml:"access_key"`
	SecretKey     string        `yaml:"secret_key"`
	UploadTTL     time.Duration `yaml:"upload_ttl"`
	PathStyle     bool          `yaml:"path_style"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Colors bool   `yaml:"colors"` // ANSI colors on console output
	File   string `yaml:"file"`   // Empty for stdout
}

// MetricsConfig toggles the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:     ":8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			RequestTimeout: 30 * time.Second,
			MaxConnections: 1024,
			HTTPS: HTTPSConfig{
				CacheDir: "./data/certs",
			},
		},
		Database: DatabaseConfig{
			Driver:         "sqlite3",
			DSN:            "./data/social.db",
			MaxOpenConns:   25,
			MigrateOnStart: true,
		},
		Auth: AuthConfig{
			Issuer:     "social-gateway",
			Audience:   "social",
			SessionTTL: 30 * 24 * time.Hour,
			NonceTTL:   5 * time.Minute,
			AppName:    "Social",
		},
		Feed: FeedConfig{
			MaxItems: 200,
		},
		Media: MediaConfig{
			Region:    "us-east-1",
			UploadTTL: 15 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Colors: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}
