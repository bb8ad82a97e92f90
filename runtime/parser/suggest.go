package parser

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// suggest returns the candidate closest to word, or "" when none is close.
// A fuzzy subsequence match wins; otherwise the nearest candidate by edit
// distance is taken when it is at most two edits away.
func suggest(word string, candidates []string) string {
	if word == "" || len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(word, candidates)
	if len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", 3
	upper := strings.ToUpper(word)
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(upper, strings.ToUpper(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
