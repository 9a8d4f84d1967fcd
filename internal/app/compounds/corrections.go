package compounds

import (
	"log/slog"

	"github.com/heartmarshall/jmdict-compounds/internal/domain"
)

// correction replaces the meaning of an upstream entry known to be broken.
type correction struct {
	headword string
	meaning  []string
}

// corrections is applied after folding, so it wins over source data.
// The trailing U+200B characters are kept as published upstream.
var corrections = []correction{
	{
		headword: "新平民",
		meaning:  []string{"name given to the lowest rank of the Japanese caste system after its abolition\u200b"},
	},
	{
		headword: "春塵",
		meaning: []string{
			"spring dust",
			"frost and snow that's blown like dust in the air by the spring wind\u200b",
		},
	},
	{
		headword: "雲白肉",
		meaning:  []string{"dish of spicy boiled pork", "usu. served with slices of cucumber"},
	},
	{
		headword: "神幸",
		meaning:  []string{"transferring a shintai in a portable shrine"},
	},
}

// applyCorrections patches the table in place. Headwords missing from the
// table are skipped.
func applyCorrections(log *slog.Logger, table domain.CompoundTable) (applied, skipped int) {
	for _, c := range corrections {
		if !table.SetMeaning(c.headword, c.meaning) {
			log.Warn("correction target not in dictionary", slog.String("headword", c.headword))
			skipped++
			continue
		}
		applied++
	}
	return applied, skipped
}
