package cmd

import (
	"context"
	"errors"
	"fmt"

	"area-reconciler/core/area"
	"area-reconciler/core/config"
	"area-reconciler/core/database"
	"area-reconciler/core/fsys"
	"area-reconciler/core/inventory"
	"area-reconciler/core/logger"
	"area-reconciler/core/metrics"
	"area-reconciler/core/reconcile"
	"area-reconciler/core/storage"
	"area-reconciler/feature/relations"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the components every command is built from.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	fs       fsys.FileSystem
	areas    *area.Loader
	files    *inventory.Files
	inv      inventory.Inventory
	db       *gorm.DB
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	cache    *reconcile.ResultCache
}

// newApp loads configuration and wires storage, inventory and cache.
// The database is only connected when the inventory source needs it or
// withDB is set.
func newApp(ctx context.Context, withDB bool) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	var client storage.Client
	if cfg.Files.Backend == fsys.BackendObject {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
	}
	fs, err := fsys.New(ctx, cfg.Files, client, cfg.Storage.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to open file system: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	a := &app{
		cfg:      cfg,
		logger:   l,
		fs:       fs,
		areas:    area.NewLoader(fs, cfg.Files.AreasDir),
		files:    inventory.NewFiles(fs, cfg.Files.WorkDir),
		registry: reg,
		metrics:  m,
		cache:    reconcile.NewResultCache(fs, cfg.Files.CacheDir, l, m),
	}
	a.inv = a.files

	if withDB || cfg.Inventory.Source == inventory.SourceDatabase {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = db
	}

	if cfg.Inventory.Source == inventory.SourceDatabase {
		schema, err := database.CheckSchema(a.db)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect schema: %w", err)
		}
		if !schema.Matched {
			l.Warn("Database schema does not match, run the import command to migrate")
		}
		a.inv = a.rowStore()
	}

	return a, nil
}

func (a *app) rowStore() *database.RowStore {
	return database.NewRowStore(a.db, a.fs, a.cfg.Files.WorkDir)
}

// optionalRowStore returns the row store, or nil without a database.
func (a *app) optionalRowStore() *database.RowStore {
	if a.db == nil {
		return nil
	}
	return a.rowStore()
}

func (a *app) service() *relations.Service {
	return relations.NewService(a.areas, a.inv, a.cache, a.cfg.Reconcile, a.logger, a.metrics)
}

// resolveAreas returns args, or every active area when args is empty and
// all is set.
func (a *app) resolveAreas(ctx context.Context, args []string, all bool) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if !all {
		return nil, errors.New("no area given, pass area names or --all")
	}
	summaries, err := a.service().Areas(ctx, false)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(summaries))
	for _, s := range summaries {
		names = append(names, s.Name)
	}
	return names, nil
}
