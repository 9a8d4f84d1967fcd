package domain

// CompactRecord is the reduced form of one qualifying dictionary entry.
type CompactRecord struct {
	Headword string
	Reading  string
	Meanings []string
}

// Compound is the exported value for one headword.
type Compound struct {
	Reading string   `json:"reading" yaml:"reading"`
	Meaning []string `json:"meaning" yaml:"meaning"`
	JLPT    []string `json:"jlpt"    yaml:"jlpt"`
}

// CompoundTable maps a headword to its compound data.
type CompoundTable map[string]*Compound

// Put inserts rec, replacing any earlier compound with the same headword.
// It reports whether a compound was replaced.
func (t CompoundTable) Put(rec CompactRecord) bool {
	_, replaced := t[rec.Headword]
	t[rec.Headword] = &Compound{
		Reading: rec.Reading,
		Meaning: nonNil(rec.Meanings),
		JLPT:    []string{},
	}
	return replaced
}

// SetMeaning overwrites the meaning list of an existing headword.
// It reports false if the headword is not in the table.
func (t CompoundTable) SetMeaning(headword string, meaning []string) bool {
	c, ok := t[headword]
	if !ok {
		return false
	}
	c.Meaning = nonNil(append([]string(nil), meaning...))
	return true
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
