package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
	"gorm.io/gorm"

	"github.com/fms-tools/calendly-insights/config"
	"github.com/fms-tools/calendly-insights/database"
	"github.com/fms-tools/calendly-insights/internal/auth"
	"github.com/fms-tools/calendly-insights/internal/calendly"
	"github.com/fms-tools/calendly-insights/internal/event"
	"github.com/fms-tools/calendly-insights/internal/reports"
	"github.com/fms-tools/calendly-insights/internal/sync"
	"github.com/fms-tools/calendly-insights/internal/synclog"
	"github.com/fms-tools/calendly-insights/routes"
	"github.com/fms-tools/calendly-insights/utils"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := newApp(logger).Run(os.Args); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newApp(logger *slog.Logger) *cli.App {
	return &cli.App{
		Name:  "calendly-insights",
		Usage: "Sync Calendly scheduled events into a local store and serve dashboard reports",
		Commands: []*cli.Command{
			serveCommand(logger),
			syncCommand(logger),
			exportCommand(logger),
			hashPasswordCommand(),
		},
	}
}

type app struct {
	cfg    *config.Config
	db     *gorm.DB
	events event.Repository
	logs   synclog.Repository
	cache  *utils.Cache
	logger *slog.Logger
}

func bootstrap(logger *slog.Logger) (*app, error) {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &app{
		cfg:    cfg,
		db:     db,
		events: event.NewRepository(db),
		logs:   synclog.NewRepository(db),
		cache:  utils.NewCache(cfg, logger),
		logger: logger,
	}, nil
}

func newSyncService(a *app) (*sync.Service, error) {
	token, err := a.cfg.RequireCalendlyToken()
	if err != nil {
		return nil, err
	}
	client := calendly.NewClient(a.cfg.CalendlyBaseURL, token, a.logger)
	fetcher := calendly.NewFetcher(client, a.logger)
	return sync.NewService(fetcher, a.events, a.logs, a.cache, a.logger), nil
}

func serveCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the dashboard API server",
		Action: func(c *cli.Context) error {
			a, err := bootstrap(logger)
			if err != nil {
				return err
			}
			syncSvc, err := newSyncService(a)
			if err != nil {
				return err
			}

			authSvc := auth.NewService(a.cfg)
			eventSvc := event.NewService(a.events, a.logs)
			reportSvc := reports.NewService(a.events, a.cache, logger)
			syncLogSvc := synclog.NewService(a.logs)

			r := gin.New()
			r.Use(gin.Logger(), gin.Recovery())
			routes.Setup(r, a.cfg, routes.Handlers{
				Auth:    auth.NewHandler(authSvc),
				AuthSvc: authSvc,
				Events:  event.NewHandler(eventSvc),
				Reports: reports.NewHandler(reportSvc, reports.NewExporter()),
				Sync:    sync.NewHandler(syncSvc, a.logs, a.cfg.SyncDaysBack),
				SyncLog: synclog.NewHandler(syncLogSvc),
			})

			logger.Info("starting server", "port", a.cfg.Port)
			return r.Run(":" + a.cfg.Port)
		},
	}
}

func syncCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Fetch the organization's events and merge them into the local store",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Usage: "how many days back to sync", Value: 0},
		},
		Action: func(c *cli.Context) error {
			a, err := bootstrap(logger)
			if err != nil {
				return err
			}
			syncSvc, err := newSyncService(a)
			if err != nil {
				return err
			}

			days := c.Int("days")
			if days <= 0 {
				days = a.cfg.SyncDaysBack
			}
			end := time.Now().UTC()
			start := end.AddDate(0, 0, -days)

			if ok := syncSvc.Run(c.Context, start, end); !ok {
				return cli.Exit("sync failed, see sync log for details", 1)
			}
			return nil
		},
	}
}

func exportCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Fetch events live from the API and write them as csv, excel, pdf or json",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Usage: "how many days back to export", Value: 0},
			&cli.StringFlag{Name: "format", Usage: "csv, excel, pdf or json", Value: reports.FormatCSV},
			&cli.StringFlag{Name: "out", Usage: "output file, defaults to a timestamped name"},
		},
		Action: func(c *cli.Context) error {
			// Ad hoc export fetches straight from the API; the local
			// store is neither read nor written.
			cfg := config.Load()
			token, err := cfg.RequireCalendlyToken()
			if err != nil {
				return err
			}
			client := calendly.NewClient(cfg.CalendlyBaseURL, token, logger)
			fetcher := calendly.NewFetcher(client, logger)

			days := c.Int("days")
			if days <= 0 {
				days = cfg.SyncDaysBack
			}
			end := time.Now().UTC()
			start := end.AddDate(0, 0, -days)

			fetched, err := fetcher.FetchAll(c.Context, start, end)
			if err != nil {
				return err
			}

			data, filename, _, err := reports.NewExporter().Export(c.String("format"), event.FromAPIBatch(fetched))
			if err != nil {
				return err
			}

			out := c.String("out")
			if out == "" {
				out = filename
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			logger.Info("export written", "file", filepath.Clean(out), "events", len(fetched))
			return nil
		},
	}
}

func hashPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:  "hash-password",
		Usage: "Generate a bcrypt hash for ADMIN_PASSWORD_HASH",
		Action: func(c *cli.Context) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("hash-password needs an interactive terminal")
			}

			fmt.Fprint(os.Stderr, "Password: ")
			first, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stderr, "Repeat password: ")
			second, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}
			if string(first) != string(second) {
				return fmt.Errorf("passwords do not match")
			}

			hash, err := auth.HashPassword(string(first))
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}
}
