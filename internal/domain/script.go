package domain

import "unicode/utf8"

// Bounds of the ideograph range accepted as kanji, U+4E00..U+9FAF.
const (
	KanjiFirst rune = '一'
	KanjiLast  rune = '龯'
)

// IsKanji reports whether r lies in [KanjiFirst, KanjiLast].
func IsKanji(r rune) bool {
	return r >= KanjiFirst && r <= KanjiLast
}

// IsKanjiCompound reports whether s is at least two characters long and made
// only of kanji.
func IsKanjiCompound(s string) bool {
	if utf8.RuneCountInString(s) < 2 {
		return false
	}
	for _, r := range s {
		if !IsKanji(r) {
			return false
		}
	}
	return true
}
