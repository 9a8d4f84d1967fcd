// Package kanjidic loads the KANJIDIC-derived kanji reference table and uses it
// to attach JLPT levels to compounds.
package kanjidic

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/heartmarshall/jmdict-compounds/internal/domain"
)

// Unlisted replaces the blank level placeholder used by the reference table for
// kanji outside the JLPT lists.
const Unlisted = "not listed in JLPT"

const blankLevel = " "

// Level is a single JLPT level. The reference table stores levels either as
// strings or as numbers; both decode to their textual form.
type Level string

// UnmarshalJSON implements json.Unmarshaler.
func (l *Level) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(b, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("jlpt level: %w", err)
		}
		*l = Level(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("jlpt level %s: %w", b, err)
	}
	*l = Level(n.String())
	return nil
}

// Kanji is one character record of the reference table. Fields other than the
// JLPT levels are ignored.
type Kanji struct {
	JLPT []Level `json:"jlpt"`
}

// Table maps a single kanji to its record. Read-only after Load.
type Table map[string]Kanji

// Load reads the reference table at path. A missing file returns an error
// wrapping domain.ErrSourceNotFound.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w: %w", path, domain.ErrSourceNotFound, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var t Table
	if err := json.NewDecoder(f).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return t, nil
}

// level returns the first JLPT level of char, or false when the character is
// absent or has no levels.
func (t Table) level(char string) (string, bool) {
	k, ok := t[char]
	if !ok || len(k.JLPT) == 0 {
		return "", false
	}
	return string(k.JLPT[0]), true
}

// EnrichStats summarizes one Enrich call.
type EnrichStats struct {
	Compounds  int
	Characters int
	Misses     int
	Unlisted   int
}

// Enrich replaces the JLPT list of every compound with the first level of each
// of its characters, in headword order. Characters without a level are
// skipped, so the list may be shorter than the headword.
func Enrich(table domain.CompoundTable, ref Table) EnrichStats {
	var stats EnrichStats
	for headword, c := range table {
		stats.Compounds++

		levels := make([]string, 0, len(headword)/3)
		for _, r := range headword {
			stats.Characters++

			lvl, ok := ref.level(string(r))
			if !ok {
				stats.Misses++
				continue
			}
			if lvl == blankLevel {
				lvl = Unlisted
				stats.Unlisted++
			}
			levels = append(levels, lvl)
		}
		c.JLPT = levels
	}
	return stats
}
