package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	web "studio/internal/adapters/http"
	"studio/internal/adapters/http/perf"
	"studio/internal/adapters/storage"
	accountStore "studio/internal/adapters/storage/account"
	assignmentStore "studio/internal/adapters/storage/assignment"
	branchStore "studio/internal/adapters/storage/branch"
	catalogStore "studio/internal/adapters/storage/catalog"
	"studio/internal/adapters/storage/docstore"
	lessonStore "studio/internal/adapters/storage/lesson"
	memberStore "studio/internal/adapters/storage/member"
	outboxStore "studio/internal/adapters/storage/outbox"
	paymentStore "studio/internal/adapters/storage/payment"
	"studio/internal/config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "studio",
		Short:         "Studio admin backend",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd(), newMigrateLegacyCmd(), newImportMembersCmd(), newReportCmd())
	return cmd
}

// setupLogging installs the default slog handler: JSON in production, text elsewhere.
func setupLogging(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// runtime is the opened database with every store built on it.
type runtime struct {
	cfg       config.Config
	db        *sql.DB
	timed     *storage.TimedDB
	collector *perf.Collector
	stores    *web.Stores
	tx        *storage.Transactor
}

// openRuntime loads configuration, opens and initialises the database and builds the stores.
// POST: caller must Close the returned runtime
func openRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg)

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := storage.InitDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timed := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)
	docs := docstore.New(timed)

	return &runtime{
		cfg:       cfg,
		db:        db,
		timed:     timed,
		collector: collector,
		tx:        storage.NewTransactor(timed),
		stores: &web.Stores{
			AccountStore:    accountStore.NewSQLiteStore(docs),
			MemberStore:     memberStore.NewSQLiteStore(docs),
			PackageStore:    catalogStore.NewSQLiteStore(docs),
			AssignmentStore: assignmentStore.NewSQLiteStore(docs),
			PaymentStore:    paymentStore.NewSQLiteStore(docs),
			LessonStore:     lessonStore.NewSQLiteStore(docs),
			BranchStore:     branchStore.NewSQLiteStore(docs),
			OutboxStore:     outboxStore.NewSQLiteStore(docs),
		},
	}, nil
}

func (rt *runtime) Close() error {
	return rt.db.Close()
}
