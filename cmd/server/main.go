// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/Annany2002/recipe-backend/api"
	"github.com/Annany2002/recipe-backend/config"
	"github.com/Annany2002/recipe-backend/internal/enrichment"
	"github.com/Annany2002/recipe-backend/internal/logger"
	"github.com/Annany2002/recipe-backend/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var (
	customLog = logger.NewLogger()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().Run(ctx, os.Args); err != nil {
		customLog.Errorf("recipe-backend: %v", err)
		stop()
		os.Exit(1)
	}
}

func portFlag() cli.Flag {
	return &cli.StringFlag{Name: "port", Usage: "HTTP listen port (overrides SERVER_PORT)"}
}

func dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "db-dir", Usage: "directory holding the SQLite file (overrides DATABASE_DIRECTORY)"},
		&cli.StringFlag{Name: "db-file", Usage: "SQLite file name (overrides DATABASE_FILE)"},
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:   "recipe-backend",
		Usage:  "Recipe management REST API",
		Flags:  append([]cli.Flag{portFlag()}, dbFlags()...),
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Flags:  append([]cli.Flag{portFlag()}, dbFlags()...),
				Action: serveAction,
			},
			{
				Name:        "migrate",
				Usage:       "Apply database migrations and exit",
				Description: "Opens the configured SQLite file and applies any pending schema migrations.",
				Flags:       dbFlags(),
				Action:      migrateAction,
			},
		},
	}
}

// loadConfig reads the environment and applies command line overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	applyOverrides(cfg, cmd)
	return cfg, nil
}

func applyOverrides(cfg *config.Config, cmd *cli.Command) {
	if cmd.IsSet("port") {
		cfg.ServerPort = cmd.String("port")
	}
	if cmd.IsSet("db-dir") {
		cfg.DatabaseDir = cmd.String("db-dir")
	}
	if cmd.IsSet("db-file") {
		cfg.DatabaseFile = cmd.String("db-file")
	}
}

func migrateAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := storage.OpenDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return storage.RunMigrations(ctx, db)
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	customLog.Println("Starting Recipe Backend server...")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := storage.ConnectDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		customLog.Println("Closing database connection...")
		if err := db.Close(); err != nil {
			customLog.Printf("Error closing database: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           api.SetupRouter(db, cfg, enrichment.NewClient(cfg)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		customLog.Printf("Server listening on port %s", cfg.ServerPort)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	customLog.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
