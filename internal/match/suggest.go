package match

import (
	"cmp"
	"slices"
)

// DefaultThreshold is the minimum similarity for a name to be suggested.
const DefaultThreshold = 0.5

// DefaultLimit is the number of suggestions attached to an error.
const DefaultLimit = 3

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit candidates whose similarity to name is at
// least threshold, best first. Ties keep alphabetical order so results are
// deterministic regardless of map iteration order upstream.
func Suggest(name string, candidates []string, threshold float64, limit int) []string {
	if limit <= 0 {
		return nil
	}

	var ranked []scored

	for _, c := range candidates {
		if c == name {
			continue
		}

		if s := Similarity(name, c); s >= threshold {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}

	slices.SortFunc(ranked, func(x, y scored) int {
		if x.score != y.score {
			return cmp.Compare(y.score, x.score)
		}

		return cmp.Compare(x.name, y.name)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.name)
	}

	return out
}
