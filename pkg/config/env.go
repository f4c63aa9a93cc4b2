package config

import (
	"strings"
)

// Environment variables that override file values.
const (
	EnvListenAddr     = "SOCIAL_LISTEN_ADDR"
	EnvDBDriver       = "SOCIAL_DB_DRIVER"
	EnvDBDSN          = "SOCIAL_DB_DSN"
	EnvSigningKeyPath = "SOCIAL_SIGNING_KEY_PATH"
	EnvLogLevel       = "SOCIAL_LOG_LEVEL"
	EnvMediaBucket    = "SOCIAL_MEDIA_BUCKET"
	EnvMediaAccessKey = "SOCIAL_MEDIA_ACCESS_KEY"
	EnvMediaSecretKey = "SOCIAL_MEDIA_SECRET_KEY"
)

// ApplyEnv overlays non-empty environment values onto c. lookup is
// os.LookupEnv in production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvListenAddr, &c.Server.ListenAddr)
	set(EnvDBDriver, &c.Database.Driver)
	set(EnvDBDSN, &c.Database.DSN)
	set(EnvSigningKeyPath, &c.Auth.SigningKeyPath)
	set(EnvLogLevel, &c.Logging.Level)
	set(EnvMediaBucket, &c.Media.Bucket)
	set(EnvMediaAccessKey, &c.Media.AccessKey)
	set(EnvMediaSecretKey, &c.Media.SecretKey)
}
