// Package compound stores the compound dictionary in PostgreSQL. The table
// is a snapshot of the last export: every Export replaces all rows.
package compound

import (
	"context"
	"fmt"
	"maps"
	"slices"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/jmdict-compounds/internal/adapter/postgres"
	"github.com/heartmarshall/jmdict-compounds/internal/config"
	"github.com/heartmarshall/jmdict-compounds/internal/domain"
)

const (
	tableName        = "compounds"
	defaultBatchSize = 500
)

var (
	psql          = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	insertColumns = []string{"id", "headword", "reading", "meaning", "jlpt"}
	selectColumns = []string{"headword", "reading", "meaning", "jlpt"}
)

// row is the scan target for compounds rows.
type row struct {
	Headword string   `db:"headword"`
	Reading  string   `db:"reading"`
	Meaning  []string `db:"meaning"`
	JLPT     []string `db:"jlpt"`
}

// Repo provides compound persistence backed by PostgreSQL.
type Repo struct {
	db        postgres.DB
	txm       *postgres.TxManager
	batchSize int
}

// New creates a new compound repository. Non-positive batch sizes fall back
// to 500 rows per INSERT; larger ones are capped at config.MaxBatchSize.
func New(db postgres.DB, txm *postgres.TxManager, batchSize int) *Repo {
	switch {
	case batchSize <= 0:
		batchSize = defaultBatchSize
	case batchSize > config.MaxBatchSize:
		batchSize = config.MaxBatchSize
	}
	return &Repo{db: db, txm: txm, batchSize: batchSize}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Export replaces the stored table with table in one transaction.
func (r *Repo) Export(ctx context.Context, table domain.CompoundTable) error {
	_, err := r.ReplaceAll(ctx, table)
	return err
}

// ReplaceAll deletes every stored compound and inserts table in batches,
// ordered by headword. Returns the number of inserted rows.
func (r *Repo) ReplaceAll(ctx context.Context, table domain.CompoundTable) (int, error) {
	headwords := slices.Sorted(maps.Keys(table))
	inserted := 0

	err := r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.db)

		query, args, err := psql.Delete(tableName).ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		if _, err := q.Exec(txCtx, query, args...); err != nil {
			return postgres.MapError(err, tableName, "delete")
		}

		for batch := range slices.Chunk(headwords, r.batchSize) {
			n, err := r.insertBatch(txCtx, q, table, batch)
			if err != nil {
				return err
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

func (r *Repo) insertBatch(ctx context.Context, q postgres.Querier, table domain.CompoundTable, headwords []string) (int, error) {
	ins := psql.Insert(tableName).Columns(insertColumns...)
	for _, hw := range headwords {
		c := table[hw]
		ins = ins.Values(uuid.New(), hw, c.Reading, nonNil(c.Meaning), nonNil(c.JLPT))
	}

	query, args, err := ins.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, tableName, headwords[0])
	}
	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// LoadAll reads the stored table back.
func (r *Repo) LoadAll(ctx context.Context) (domain.CompoundTable, error) {
	query, args, err := psql.Select(selectColumns...).From(tableName).OrderBy("headword").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, tableName, "select")
	}

	table := make(domain.CompoundTable, len(rows))
	for _, rw := range rows {
		table[rw.Headword] = &domain.Compound{
			Reading: rw.Reading,
			Meaning: nonNil(rw.Meaning),
			JLPT:    nonNil(rw.JLPT),
		}
	}
	return table, nil
}

// Get returns one stored compound. Returns domain.ErrNotFound if absent.
func (r *Repo) Get(ctx context.Context, headword string) (*domain.Compound, error) {
	query, args, err := psql.Select(selectColumns...).From(tableName).Where(sq.Eq{"headword": headword}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, query, args...); err != nil {
		return nil, postgres.MapError(err, "compound", headword)
	}

	return &domain.Compound{
		Reading: rw.Reading,
		Meaning: nonNil(rw.Meaning),
		JLPT:    nonNil(rw.JLPT),
	}, nil
}

// Count returns the number of stored compounds.
func (r *Repo) Count(ctx context.Context) (int, error) {
	query, args, err := psql.Select("count(*)").From(tableName).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, tableName, "count")
	}
	return n, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
