package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/database"
	"github.com/DeBrosOfficial/social/pkg/gateway"
	"github.com/DeBrosOfficial/social/pkg/gateway/auth"
	"github.com/DeBrosOfficial/social/pkg/logging"
)

var errKeyExists = errors.New("key file already exists (use --force to overwrite)")

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "social-gateway",
		Short:         "Wallet-authenticated social API gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (default ./gateway.yaml or ~/.social/gateway.yaml)")
	pf.StringVar(&opts.listenAddr, "addr", "", "HTTP listen address (e.g., :8080)")
	pf.StringVar(&opts.dbDriver, "db-driver", "", "database driver: sqlite3 or rqlite")
	pf.StringVar(&opts.dbDSN, "db-dsn", "", "sqlite file path or rqlite URL")
	pf.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	serve := newServeCommand(opts)
	root.AddCommand(serve, newMigrateCommand(opts), newKeygenCommand())
	root.RunE = serve.RunE
	return root
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := setupLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			deps, err := gateway.NewDependencies(ctx, logger, cfg)
			if err != nil {
				logger.ComponentError(logging.ComponentGeneral, "failed to initialize gateway", zap.Error(err))
				return err
			}
			g := gateway.New(logger, cfg, deps)
			defer g.Close()

			return g.Serve(ctx)
		},
	}
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := setupLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := database.Open(cmd.Context(), cfg.Database, logger)
			if err != nil {
				return err
			}
			defer db.Close()
			return database.Migrate(db, cfg.Database.DSN, logger)
		},
	}
}

func newKeygenCommand() *cobra.Command {
	var (
		out   string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Write a new RSA session signing key (PKCS#1 PEM)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(out); err == nil && !force {
				return errKeyExists
			}
			key, err := auth.GenerateSigningKey()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o700); err != nil {
				return err
			}
			if err := os.WriteFile(out, auth.EncodeSigningKeyPEM(key), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (kid %s)\n", out, auth.KeyID(&key.PublicKey))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "./data/signing_key.pem", "output path")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing key")
	return cmd
}
