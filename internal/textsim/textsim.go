// Package textsim implements the symmetric string-similarity ratio used by
// near-duplicate title detection (Ratcliff/Obershelp, the same metric as
// Python's difflib.SequenceMatcher.ratio, which the archive format was
// originally tuned against).
package textsim

import (
	"regexp"
	"strings"
)

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9 ]`)

// Clean lowercases s and strips everything except ASCII letters, digits,
// and spaces, matching the normalization applied before title comparison.
func Clean(s string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(s), "")
}

// Ratio returns a similarity score in [0,1]: 2*M/(len(a)+len(b)) where M is
// the total length of the matching blocks between a and b. The ratio of two
// empty strings is 1.0; callers comparing possibly-empty titles inherit that
// behavior deliberately (distinct untitled items collapse — see DESIGN.md).
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2 * float64(matchTotal(ra, rb)) / float64(total)
}

// TitleRatio cleans both titles and returns their Ratio.
func TitleRatio(a, b string) float64 {
	return Ratio(Clean(a), Clean(b))
}

// matchTotal sums the lengths of matching blocks: find the longest common
// substring, then recurse on the pieces to its left and right.
func matchTotal(a, b []rune) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size + matchTotal(a[:ai], b[:bi]) + matchTotal(a[ai+size:], b[bi+size:])
}

// longestMatch returns the start offsets and length of the longest common
// substring, preferring the earliest occurrence in a, then in b.
func longestMatch(a, b []rune) (int, int, int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	bestA, bestB, bestSize := 0, 0, 0
	// lengths[j] tracks the run ending at (i, j); rolled row by row.
	lengths := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		prev := 0
		for j := 0; j < len(b); j++ {
			cur := lengths[j+1]
			if a[i] == b[j] {
				run := prev + 1
				lengths[j+1] = run
				if run > bestSize {
					bestSize = run
					bestA = i - run + 1
					bestB = j - run + 1
				}
			} else {
				lengths[j+1] = 0
			}
			prev = cur
		}
	}
	return bestA, bestB, bestSize
}
