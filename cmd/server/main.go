package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/rl1809/stock-service/internal/adapter/storage"
	"github.com/rl1809/stock-service/internal/app"
	"github.com/rl1809/stock-service/internal/config"
	"github.com/rl1809/stock-service/internal/obs"
)

func main() {
	cliApp := &cli.App{
		Name:  "stock-service",
		Usage: "inventory and sales API",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "env-file",
				Usage:   "load environment variables from `FILE` before reading config",
				EnvVars: []string{"ENV_FILE"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP and gRPC servers",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations and exit",
				Action: migrate,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("stock-service failed")
	}
}

func loadConfig(c *cli.Context) (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(c.StringSlice("env-file")...)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, obs.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout), nil
}

func serve(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := obs.SetupTracing(ctx, cfg.ServiceName, cfg.OTELEndpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.WithError(err).Warn("tracing shutdown")
		}
	}()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	if err := a.Run(ctx); err != nil {
		return err
	}
	log.Info("connections closed")
	return nil
}

func migrate(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := storage.ConnectSQL(c.Context, cfg.DBDriver, cfg.DBDSN, cfg.DBMaxOpenConns)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := db.Migrate(c.Context)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"driver":  cfg.DBDriver,
		"applied": strings.Join(applied, ","),
	}).Info("database schema up to date")
	return nil
}
