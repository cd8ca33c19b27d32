package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"finance-ledger-backend/internal/config"
	"finance-ledger-backend/internal/logger"
	"finance-ledger-backend/internal/models"
	"finance-ledger-backend/internal/repository"
	"finance-ledger-backend/internal/services/importer"
	"finance-ledger-backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	rootCmd := newRootCommand(openApp)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ledgerctl: %v\n", err)
		os.Exit(1)
	}
}

// app holds the dependencies shared by every subcommand.
type app struct {
	db      *gorm.DB
	service *importer.Service
	log     zerolog.Logger
}

type appOpener func(ctx context.Context) (*app, error)

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := config.InitDB(cfg, log)
	if err != nil {
		return nil, err
	}
	store, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, importer.InfrastructureError(err)
	}
	return newApp(db, store, log, cfg.MaxUploadBytes), nil
}

func newApp(db *gorm.DB, store storage.Store, log zerolog.Logger, maxUploadBytes int64) *app {
	svc := importer.NewService(
		db,
		repository.NewImportBatchRepository(db),
		repository.NewLedgerRecordRepository(db),
		store,
		log,
		maxUploadBytes,
	)
	return &app{db: db, service: svc, log: log}
}

func (a *app) migrate() error {
	if err := a.db.AutoMigrate(models.All()...); err != nil {
		return err
	}
	a.log.Info().Int("models", len(models.All())).Msg("schema migrated")
	return nil
}
