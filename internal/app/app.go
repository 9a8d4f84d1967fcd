package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/heartmarshall/jmdict-compounds/internal/adapter/filestore"
	"github.com/heartmarshall/jmdict-compounds/internal/adapter/postgres"
	"github.com/heartmarshall/jmdict-compounds/internal/adapter/postgres/compound"
	"github.com/heartmarshall/jmdict-compounds/internal/app/compounds"
	"github.com/heartmarshall/jmdict-compounds/internal/config"
	"github.com/heartmarshall/jmdict-compounds/pkg/ctxutil"
)

// Compile-time interface assertions.
var (
	_ compounds.Exporter = (*filestore.Writer)(nil)
	_ compounds.Exporter = (*compound.Repo)(nil)
)

// Options carries the command-line surface of the compounds command.
type Options struct {
	// ConfigPath overrides CONFIG_PATH when set.
	ConfigPath string
	// Yes answers the confirmation prompt in advance.
	Yes bool

	Stdin  io.Reader
	Stdout io.Writer
}

// Run is the application entry point. It loads configuration, initializes
// the logger, asks for confirmation and runs the compound pipeline with the
// file exporter and, if a database is configured, the PostgreSQL exporter.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	ctx, runID := ctxutil.NewRun(ctx)
	logger := NewLogger(cfg.Log)
	logger.Info("starting jmdict-compounds",
		slog.String("version", BuildVersion()),
		slog.String("run_id", runID.String()),
		slog.String("log_level", cfg.Log.Level),
	)

	file, err := filestore.New(cfg.Output)
	if err != nil {
		return err
	}

	name := filepath.Base(file.Path())
	confirmed := opts.Yes
	if !confirmed {
		confirmed, err = Confirm(opts.Stdin, opts.Stdout, fmt.Sprintf("Create new %s? [y/n]: ", name))
		if err != nil {
			return fmt.Errorf("confirm: %w", err)
		}
	}
	if !confirmed {
		fmt.Fprintln(opts.Stdout, "Exiting...")
		return nil
	}

	fmt.Fprintf(opts.Stdout, "Creating %s...\n", name)

	exporters, cleanup, err := newExporters(ctx, cfg, logger, file)
	if err != nil {
		return err
	}
	defer cleanup()

	pipeline := compounds.NewPipeline(logger, cfg.Source, exporters...)
	res, err := pipeline.Run(ctx, true)
	if err != nil {
		return fmt.Errorf("build compound dictionary: %w", err)
	}

	fmt.Fprintf(opts.Stdout, "Compound dictionary created and exported to %s\n", file.Path())
	fmt.Fprintf(opts.Stdout, "Compound dictionary contains %d entries.\n", len(res.Table))
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadPath(path)
	}
	return config.Load()
}

// newExporters returns the exporters in the order they run, file first. The
// returned cleanup releases the database pool, if any.
func newExporters(ctx context.Context, cfg *config.Config, logger *slog.Logger, file *filestore.Writer) ([]compounds.Exporter, func(), error) {
	noop := func() {}
	exporters := []compounds.Exporter{file}

	if !cfg.Database.Enabled() {
		logger.Debug("database export disabled")
		return exporters, noop, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, noop, fmt.Errorf("connect to database: %w", err)
	}

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, noop, fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("database ready", slog.Int("migrations_applied", applied))

	repo := compound.New(pool, postgres.NewTxManager(pool), cfg.Database.BatchSize)
	return append(exporters, repo), pool.Close, nil
}
