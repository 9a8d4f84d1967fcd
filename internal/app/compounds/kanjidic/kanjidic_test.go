package kanjidic

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/jmdict-compounds/internal/domain"
)

func testdataPath(t *testing.T, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

func TestLevel_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []Level
		wantErr bool
	}{
		{"strings", `["N5", "N4"]`, []Level{"N5", "N4"}, false},
		{"numbers", `[2, 1]`, []Level{"2", "1"}, false},
		{"blank placeholder", `[" "]`, []Level{" "}, false},
		{"mixed", `["N3", 3]`, []Level{"N3", "3"}, false},
		{"bool rejected", `[true]`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got []Level
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	table, err := Load(testdataPath(t, "kanji_dict.json"))
	require.NoError(t, err)

	assert.Len(t, table, 7)
	assert.Equal(t, []Level{"N5"}, table["日"].JLPT)
	assert.Equal(t, []Level{"4", "3"}, table["東"].JLPT)
	assert.Empty(t, table["春"].JLPT)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "kanji_dict.json"))
	require.ErrorIs(t, err, domain.ErrSourceNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Malformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "kanji_dict.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"日": `), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSourceNotFound)
}

func TestEnrich(t *testing.T) {
	t.Parallel()

	ref, err := Load(testdataPath(t, "kanji_dict.json"))
	require.NoError(t, err)

	table := domain.CompoundTable{}
	for _, hw := range []string{"日本語", "東京", "春塵", "山川"} {
		table.Put(domain.CompactRecord{Headword: hw, Reading: "x", Meanings: []string{"y"}})
	}

	stats := Enrich(table, ref)

	tests := []struct {
		headword string
		want     []string
	}{
		{"日本語", []string{"N5", "N5", "N5"}},
		{"東京", []string{"4", "N4"}},
		{"春塵", []string{Unlisted}},
		{"山川", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.headword, func(t *testing.T) {
			assert.Equal(t, tt.want, table[tt.headword].JLPT)
		})
	}

	assert.Equal(t, EnrichStats{Compounds: 4, Characters: 9, Misses: 3, Unlisted: 1}, stats)
}

func TestEnrich_ReplacesExistingLevels(t *testing.T) {
	t.Parallel()

	table := domain.CompoundTable{
		"日本": {Reading: "にほん", Meaning: []string{"Japan"}, JLPT: []string{"stale"}},
	}
	ref := Table{"日": {JLPT: []Level{"N5"}}, "本": {JLPT: []Level{"N5"}}}

	Enrich(table, ref)

	assert.Equal(t, []string{"N5", "N5"}, table["日本"].JLPT)
	assert.Equal(t, []string{"Japan"}, table["日本"].Meaning)
}
