package jmdict

import (
	"regexp"

	"github.com/heartmarshall/jmdict-compounds/internal/domain"
)

// FieldExtractor pulls fields out of a raw entry. It isolates the pipeline
// from how entries are parsed.
type FieldExtractor interface {
	// Headword returns the first <keb> of the entry, if any.
	Headword(e RawEntry) (string, bool)
	// Extract builds the compact record: first <keb>, first <reb>, and the
	// glosses of the first <sense> block only.
	Extract(e RawEntry) (domain.CompactRecord, error)
}

var (
	kebPattern   = regexp.MustCompile(`<keb>(.*?)</keb>`)
	rebPattern   = regexp.MustCompile(`<reb>(.*?)</reb>`)
	sensePattern = regexp.MustCompile(`(?s)<sense>(.*?)</sense>`)
	glossPattern = regexp.MustCompile(`<gloss>(.*?)</gloss>`)
)

// RegexpExtractor is a FieldExtractor based on regular expressions. It
// matches bare tags only: <gloss xml:lang="…"> and friends are not glosses to it.
type RegexpExtractor struct{}

// Headword implements FieldExtractor.
func (RegexpExtractor) Headword(e RawEntry) (string, bool) {
	m := kebPattern.FindStringSubmatch(string(e))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Extract implements FieldExtractor.
func (x RegexpExtractor) Extract(e RawEntry) (domain.CompactRecord, error) {
	headword, ok := x.Headword(e)
	if !ok {
		return domain.CompactRecord{}, domain.NewMissingFieldError("", "keb")
	}

	reb := rebPattern.FindStringSubmatch(string(e))
	if reb == nil {
		return domain.CompactRecord{}, domain.NewMissingFieldError(headword, "reb")
	}

	sense := sensePattern.FindStringSubmatch(string(e))
	if sense == nil {
		return domain.CompactRecord{}, domain.NewMissingFieldError(headword, "sense")
	}

	glosses := glossPattern.FindAllStringSubmatch(sense[1], -1)
	meanings := make([]string, 0, len(glosses))
	for _, g := range glosses {
		meanings = append(meanings, g[1])
	}

	return domain.CompactRecord{
		Headword: headword,
		Reading:  reb[1],
		Meanings: meanings,
	}, nil
}
