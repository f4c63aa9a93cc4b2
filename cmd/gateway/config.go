package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/config"
	"github.com/DeBrosOfficial/social/pkg/logging"
)

// rootOptions holds flags shared by every subcommand. Flags win over the
// config file and environment.
type rootOptions struct {
	configPath string
	listenAddr string
	dbDriver   string
	dbDSN      string
	logLevel   string
}

// loadConfig resolves the config file, applies env and flag overrides and
// validates the result. Priority: flags > env > file > defaults.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := o.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath("gateway.yaml"); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.ListenAddr = o.listenAddr
	}
	if flags.Changed("db-driver") {
		cfg.Database.Driver = o.dbDriver
	}
	if flags.Changed("db-dsn") {
		cfg.Database.DSN = o.dbDSN
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("invalid configuration:\n  %s", strings.Join(msgs, "\n  "))
	}
	return cfg, nil
}

func setupLogger(cfg *config.Config) (*logging.ColoredLogger, error) {
	logger, err := logging.New(logging.Options{
		Level:        cfg.Logging.Level,
		EnableColors: cfg.Logging.Colors,
		FilePath:     cfg.Logging.File,
	})
	if err != nil {
		return nil, err
	}
	logger.ComponentInfo(logging.ComponentGeneral, "Loaded gateway configuration",
		zap.String("addr", cfg.Server.ListenAddr),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("https", cfg.Server.HTTPS.Enabled),
		zap.Bool("media", cfg.Media.Enabled),
	)
	return logger, nil
}
