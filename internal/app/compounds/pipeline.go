// Package compounds builds the kanji compound dictionary: it reads JMdict,
// folds the qualifying entries into a table, patches known upstream errors,
// attaches JLPT levels and hands the result to the configured exporters.
package compounds

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/jmdict-compounds/internal/app/compounds/jmdict"
	"github.com/heartmarshall/jmdict-compounds/internal/app/compounds/kanjidic"
	"github.com/heartmarshall/jmdict-compounds/internal/config"
	"github.com/heartmarshall/jmdict-compounds/internal/domain"
	"github.com/heartmarshall/jmdict-compounds/pkg/ctxutil"
)

// Stage is the position of a pipeline run. A successful run passes through
// every stage from StageReading to StageExported in declaration order.
// Grouping, filtering and extracting are entered as the lazy pull chain is
// assembled; their work then runs interleaved in one loop.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageReading     Stage = "reading"
	StageGrouping    Stage = "grouping"
	StageFiltering   Stage = "filtering"
	StageExtracting  Stage = "extracting"
	StageAggregating Stage = "aggregating"
	StageEnriching   Stage = "enriching"
	StageExported    Stage = "exported"
	StageFailed      Stage = "failed"
)

// Exporter persists a finished compound table.
// Implemented by filestore.Writer and compound.Repo.
type Exporter interface {
	Export(ctx context.Context, table domain.CompoundTable) error
}

// Stats holds counters of a single run.
type Stats struct {
	Lines              int
	Entries            int
	Compounds          int
	Rejected           int
	Duplicates         int
	Corrections        int
	CorrectionsSkipped int
	JLPT               kanjidic.EnrichStats
}

// Result is the outcome of Run.
type Result struct {
	Table domain.CompoundTable
	Stats Stats
	Stage Stage
	// Stages lists every stage entered during the run, in order.
	Stages   []Stage
	Duration time.Duration
}

// Pipeline runs the extraction end to end. It is single-use per Run call and
// not safe for concurrent use.
type Pipeline struct {
	log       *slog.Logger
	cfg       config.SourceConfig
	fx        jmdict.FieldExtractor
	exporters []Exporter
	stage     Stage
	trace     []Stage
}

// NewPipeline creates a new Pipeline. Exporters run in the given order once
// the table is complete.
func NewPipeline(log *slog.Logger, cfg config.SourceConfig, exporters ...Exporter) *Pipeline {
	return &Pipeline{
		log:       log,
		cfg:       cfg,
		fx:        jmdict.RegexpExtractor{},
		exporters: exporters,
		stage:     StageIdle,
	}
}

// WithExtractor replaces the field extractor used for JMdict entries.
func (p *Pipeline) WithExtractor(fx jmdict.FieldExtractor) *Pipeline {
	p.fx = fx
	return p
}

// Stage returns the stage the pipeline is in.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

// Run builds the table and exports it. An unconfirmed run does nothing and
// leaves the pipeline idle. Nothing is exported unless the whole table was
// built and enriched.
func (p *Pipeline) Run(ctx context.Context, confirmed bool) (Result, error) {
	if !confirmed {
		p.log.Info("run not confirmed, nothing to do")
		return Result{Stage: p.stage}, nil
	}

	if runID, ok := ctxutil.RunIDFromCtx(ctx); ok {
		defer p.withLogger(p.log.With(slog.String("run_id", runID.String())))()
	}

	start := time.Now()
	p.trace = nil
	var stats Stats

	table, err := p.build(ctx, &stats)
	if err == nil {
		err = p.export(ctx, table)
	}

	res := Result{Stats: stats, Duration: time.Since(start)}
	if err != nil {
		p.setStage(StageFailed)
		res.Stage, res.Stages = p.stage, p.trace
		return res, err
	}

	p.setStage(StageExported)
	res.Table = table
	res.Stage, res.Stages = p.stage, p.trace
	p.log.Info("pipeline completed",
		slog.Int("compounds", len(table)),
		slog.Int("lines", stats.Lines),
		slog.Int("entries", stats.Entries),
		slog.Int("rejected", stats.Rejected),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("corrections", stats.Corrections),
		slog.Int("jlpt_misses", stats.JLPT.Misses),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

func (p *Pipeline) build(ctx context.Context, stats *Stats) (domain.CompoundTable, error) {
	p.setStage(StageReading)
	f, err := openSource(p.cfg.JMdictPath)
	if err != nil {
		if errors.Is(err, domain.ErrSourceNotFound) {
			p.log.Error("dictionary source not found", slog.String("path", p.cfg.JMdictPath))
		}
		return nil, err
	}
	defer f.Close()

	parser := jmdict.NewParser(p.fx)
	p.setStage(StageGrouping)
	p.setStage(StageFiltering)
	records := parser.Parse(f)
	p.setStage(StageExtracting)

	table := make(domain.CompoundTable)
	for rec, err := range records {
		if err != nil {
			stats.addParser(parser.Stats())
			return nil, fmt.Errorf("parse %s: %w", p.cfg.JMdictPath, err)
		}
		if err := ctx.Err(); err != nil {
			stats.addParser(parser.Stats())
			return nil, err
		}
		if table.Put(rec) {
			stats.Duplicates++
		}
	}
	stats.addParser(parser.Stats())
	p.log.Info("dictionary parsed",
		slog.Int("entries", stats.Entries),
		slog.Int("compounds", stats.Compounds),
		slog.Int("unique", len(table)),
	)

	p.setStage(StageAggregating)
	stats.Corrections, stats.CorrectionsSkipped = applyCorrections(p.log, table)

	p.setStage(StageEnriching)
	ref, err := kanjidic.Load(p.cfg.KanjiDictPath)
	if err != nil {
		if errors.Is(err, domain.ErrSourceNotFound) {
			p.log.Error("kanji reference not found, cannot get jlpt data", slog.String("path", p.cfg.KanjiDictPath))
		}
		return nil, fmt.Errorf("load kanji reference: %w", err)
	}
	stats.JLPT = kanjidic.Enrich(table, ref)
	p.log.Info("jlpt levels attached",
		slog.Int("characters", stats.JLPT.Characters),
		slog.Int("misses", stats.JLPT.Misses),
		slog.Int("unlisted", stats.JLPT.Unlisted),
	)

	return table, nil
}

func (p *Pipeline) export(ctx context.Context, table domain.CompoundTable) error {
	for _, e := range p.exporters {
		if err := e.Export(ctx, table); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	return nil
}

// withLogger swaps the logger for the duration of a run and returns the
// restore func.
func (p *Pipeline) withLogger(l *slog.Logger) func() {
	prev := p.log
	p.log = l
	return func() { p.log = prev }
}

func (p *Pipeline) setStage(s Stage) {
	p.log.Debug("stage", slog.String("from", string(p.stage)), slog.String("to", string(s)))
	p.stage = s
	p.trace = append(p.trace, s)
}

func (s *Stats) addParser(ps jmdict.Stats) {
	s.Lines = ps.Lines
	s.Entries = ps.Entries
	s.Compounds = ps.Compounds
	s.Rejected = ps.Rejected()
}

// openSource opens the JMdict file. A missing file returns an error wrapping
// domain.ErrSourceNotFound.
func openSource(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w: %w", path, domain.ErrSourceNotFound, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
