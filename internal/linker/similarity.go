package linker

import "strings"

// SimilarityRatio computes the Ratcliff/Obershelp similarity of two strings:
// twice the total length of the matching blocks divided by the combined
// length. Comparison is case-insensitive. Returns a value in [0, 1]; two
// empty strings score 0.
func SimilarityRatio(a, b string) float64 {
	ar := []rune(strings.ToLower(a))
	br := []rune(strings.ToLower(b))

	total := len(ar) + len(br)
	if total == 0 {
		return 0
	}

	matched := matchingBlocksLen(ar, br)
	return 2 * float64(matched) / float64(total)
}

// matchingBlocksLen sums the lengths of the matching blocks: the longest
// common substring, then recursively the pieces to its left and right.
func matchingBlocksLen(a, b []rune) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}

	return size +
		matchingBlocksLen(a[:ai], b[:bi]) +
		matchingBlocksLen(a[ai+size:], b[bi+size:])
}

func longestCommonSubstring(a, b []rune) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// lengths[j] holds the length of the common suffix ending at a[i-1], b[j-1]
	// for the current row.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > size {
					size = curr[j]
					ai = i - size
					bi = j - size
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}

	return ai, bi, size
}
