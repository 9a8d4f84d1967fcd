package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/jmdict-compounds/internal/domain"
)

// ResetCompounds empties the compounds table.
func ResetCompounds(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), `TRUNCATE compounds`); err != nil {
		t.Fatalf("ResetCompounds: %v", err)
	}
}

// SeedCompound inserts a single compound row and returns its id.
func SeedCompound(t *testing.T, pool *pgxpool.Pool, headword string, c domain.Compound) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO compounds (id, headword, reading, meaning, jlpt)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, headword, c.Reading, c.Meaning, c.JLPT,
	)
	if err != nil {
		t.Fatalf("SeedCompound %s: %v", headword, err)
	}
	return id
}
