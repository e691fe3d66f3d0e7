// Package search provides typo-tolerant name matching over files and folders.
package search

import (
	"strings"
)

// osaDistance computes optimal string alignment distance: Levenshtein plus
// adjacent transposition. Tolerance therefore counts a swapped character pair
// as one edit, which is what typo matching wants.
func osaDistance(a, b []rune) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev2 := make([]int, lb+1)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)

	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)

			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				if t := prev2[j-2] + 1; t < curr[j] {
					curr[j] = t
				}
			}
		}
		prev2, prev, curr = prev, curr, prev2
	}

	return prev[lb]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// score rates how well query matches name. 0 is an exact substring hit;
// larger is worse. The query slides over every window of the name so a match
// at the end of a long name scores the same as one at the start, and the
// result is normalized by query length so tolerance is a fixed edit budget
// rather than a percentage of the name.
func score(query, name string) float64 {
	q := strings.ToLower(query)
	n := strings.ToLower(name)

	if strings.Contains(n, q) {
		return 0
	}

	qr := []rune(q)
	nr := []rune(n)
	qlen := len(qr)
	if qlen == 0 {
		return 0
	}

	if len(nr) <= qlen {
		return float64(osaDistance(qr, nr)) / float64(qlen)
	}

	best := qlen + 1
	for start := 0; start+qlen <= len(nr); start++ {
		d := osaDistance(qr, nr[start:start+qlen])
		if d < best {
			best = d
			if best == 0 {
				break
			}
		}
	}

	return float64(best) / float64(qlen)
}
