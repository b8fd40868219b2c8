package errors

import "fmt"

// SuggestName proposes the closest candidate for an unknown name. It returns
// "" unless some candidate is at most two edits away and the edits change
// no more than half of the name.
func SuggestName(unknown string, candidates []string) string {
	limit := min(2, len([]rune(unknown))/2)
	if limit == 0 {
		return ""
	}

	best, bestDist := "", limit+1
	for _, c := range candidates {
		if c == unknown {
			continue
		}
		if d := levenshteinDistance(unknown, c); d < bestDist {
			best, bestDist = c, d
		}
	}

	if best == "" {
		return ""
	}
	return fmt.Sprintf("Did you mean '%s'?", best)
}

// levenshteinDistance counts the single-rune insertions, deletions and
// substitutions needed to turn s1 into s2.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	r1, r2 := []rune(s1), []rune(s2)
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
