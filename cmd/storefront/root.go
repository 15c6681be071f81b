package main

import (
	"context"
	"log"

	"github.com/fekuna/omnipos-storefront-service/config"
	"github.com/fekuna/omnipos-storefront-service/internal/app"
	"github.com/fekuna/omnipos-storefront-service/pkg/i18n"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type cliEnv struct {
	cfg    *config.Config
	logger logger.ZapLogger
}

func newRootCmd() *cobra.Command {
	rt := &cliEnv{}
	var localesDir []string

	root := &cobra.Command{
		Use:          "storefront",
		Short:        "Storefront data service: categories, best sellers, restock notifications",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			rt.cfg = config.LoadEnv()

			i18n.Init()
			for _, path := range localesDir {
				if err := i18n.Load(path); err != nil {
					log.Printf("Failed to load locales %s: %v", path, err)
				}
			}

			rt.logger = newLogger(rt.cfg)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringSliceVar(&localesDir, "locales", nil, "extra go-i18n message files to load")

	root.AddCommand(
		newServeCmd(rt),
		newReindexCmd(rt),
		newReconcileCmd(rt),
	)
	return root
}

func newLogger(cfg *config.Config) logger.ZapLogger {
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	return logger.NewZapLogger(logConfig)
}

func (rt *cliEnv) open(ctx context.Context) (*app.App, error) {
	return app.New(ctx, rt.cfg, rt.logger)
}
