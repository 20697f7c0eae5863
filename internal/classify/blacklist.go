package classify

import "strings"

// Blacklist is a list of noise markers matched case-insensitively as
// substrings. A match excludes the transaction before categorization and
// before index assignment, so blacklisted rows never occupy an override slot
// and are invisible to every aggregate.
type Blacklist []string

// DefaultBlacklist covers late-fee and revolving-credit noise entries found
// in card and checking exports alike.
func DefaultBlacklist() Blacklist {
	return Blacklist{
		"xgrow",
		"saldo em rotativo",
		"saldo em atraso",
		"juros de dívida",
		"juros de divida",
		"multa de atraso",
		"juros do rotativo",
		"juros de rotativo",
		"iof rotativo",
		"iof de atraso",
	}
}

// Match reports whether the text matches any blacklist marker
func (b Blacklist) Match(text string) bool {
	t := strings.ToLower(text)
	for _, marker := range b {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}
