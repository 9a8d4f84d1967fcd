// Package jmdict streams kanji compounds out of a JMdict_e file.
// Pure function: reader in, domain structs out. No database dependencies.
//
// The file is processed line by line as a lazy chain:
//
//	Lines → Entries → Compounds → Records
//
// Each stage pulls from the previous one on demand, so the whole file is never
// held in memory.
package jmdict

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/heartmarshall/jmdict-compounds/internal/domain"
)

const (
	entryOpen  = "<entry>"
	entryClose = "</entry>"

	// readBufferSize is the bufio.Reader size for the source file (1 MB).
	readBufferSize = 1 << 20
)

// RawEntry is one <entry>…</entry> block, line terminators included.
type RawEntry string

// Stats holds parser statistics for logging.
type Stats struct {
	Lines     int
	Entries   int
	Compounds int
	Records   int
}

// Rejected returns the number of entries dropped by the headword filter.
func (s Stats) Rejected() int {
	return s.Entries - s.Compounds
}

// Parser turns a JMdict_e stream into compact records.
type Parser struct {
	fx    FieldExtractor
	stats Stats
}

// NewParser creates a Parser. A nil extractor selects RegexpExtractor.
func NewParser(fx FieldExtractor) *Parser {
	if fx == nil {
		fx = RegexpExtractor{}
	}
	return &Parser{fx: fx}
}

// Parse returns the lazy record sequence for src. Statistics accumulate as the
// sequence is consumed; read them with Stats once iteration is done.
// The first error ends the sequence.
func (p *Parser) Parse(src io.Reader) iter.Seq2[domain.CompactRecord, error] {
	lines := counted(Lines(src), &p.stats.Lines)
	entries := counted(Entries(lines), &p.stats.Entries)
	compounds := counted(Compounds(entries, p.fx), &p.stats.Compounds)
	return counted(Records(compounds, p.fx), &p.stats.Records)
}

// Stats returns the statistics gathered so far.
func (p *Parser) Stats() Stats {
	return p.stats
}

// Lines yields the lines of r in order, each with its terminator. The last
// line may have none.
func Lines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		br := bufio.NewReaderSize(r, readBufferSize)
		for {
			line, err := br.ReadString('\n')
			if line != "" {
				if !yield(line, nil) {
					return
				}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				yield("", fmt.Errorf("read line: %w", err))
				return
			}
		}
	}
}

// Entries groups lines into entry blocks. A line equal to <entry> opens a
// block and a line equal to </entry> closes and yields it; both markers are
// kept in the block. Lines outside a block are discarded, and a block still
// open at the end of input is dropped.
func Entries(lines iter.Seq2[string, error]) iter.Seq2[RawEntry, error] {
	return func(yield func(RawEntry, error) bool) {
		var buf strings.Builder
		inside := false

		for line, err := range lines {
			if err != nil {
				yield("", err)
				return
			}

			marker := trimEOL(line)
			if marker == entryOpen {
				inside = true
			}
			if !inside {
				continue
			}
			buf.WriteString(line)

			if marker == entryClose {
				inside = false
				entry := RawEntry(buf.String())
				buf.Reset()
				if !yield(entry, nil) {
					return
				}
			}
		}
	}
}

// Compounds keeps the entries whose first headword is a kanji compound
// (see domain.IsKanjiCompound). Entries without a headword are skipped.
func Compounds(entries iter.Seq2[RawEntry, error], fx FieldExtractor) iter.Seq2[RawEntry, error] {
	return func(yield func(RawEntry, error) bool) {
		for e, err := range entries {
			if err != nil {
				yield("", err)
				return
			}

			headword, ok := fx.Headword(e)
			if !ok || !domain.IsKanjiCompound(headword) {
				continue
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// Records extracts a CompactRecord from every entry. A missing field ends the
// sequence with the extractor's error.
func Records(entries iter.Seq2[RawEntry, error], fx FieldExtractor) iter.Seq2[domain.CompactRecord, error] {
	return func(yield func(domain.CompactRecord, error) bool) {
		for e, err := range entries {
			if err != nil {
				yield(domain.CompactRecord{}, err)
				return
			}

			rec, err := fx.Extract(e)
			if err != nil {
				yield(domain.CompactRecord{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// counted increments *n for every value seq yields without error.
func counted[T any](seq iter.Seq2[T, error], n *int) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for v, err := range seq {
			if err == nil {
				*n++
			}
			if !yield(v, err) {
				return
			}
		}
	}
}

// trimEOL strips a trailing "\n" or "\r\n".
func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
