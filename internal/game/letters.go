// internal/game/letters.go
//
// LetterCounts is the letter-multiset representation shared by the tile pool
// and the claim engine's search budgets: one non-negative count per letter
// a–z.

package game

// LetterCounts counts occurrences of each letter a–z.
type LetterCounts [26]int

// countLetters tallies the lowercase a–z letters of s.
// Assumes s is validated to a–z elsewhere.
func countLetters(s string) LetterCounts {
	var lc LetterCounts
	for i := 0; i < len(s); i++ {
		lc[s[i]-'a']++
	}
	return lc
}

// countRunes tallies a slice of lowercase letter runes.
func countRunes(letters []rune) LetterCounts {
	var lc LetterCounts
	for _, r := range letters {
		lc[r-'a']++
	}
	return lc
}

// Letters expands the multiset back into a sorted slice of letter runes.
func (lc LetterCounts) Letters() []rune {
	var out []rune
	for i, n := range lc {
		for j := 0; j < n; j++ {
			out = append(out, rune('a'+i))
		}
	}
	return out
}

// Empty reports whether every count is zero.
func (lc LetterCounts) Empty() bool {
	for _, n := range lc {
		if n > 0 {
			return false
		}
	}
	return true
}

// Total returns the number of letters in the multiset.
func (lc LetterCounts) Total() int {
	t := 0
	for _, n := range lc {
		t += n
	}
	return t
}

// isAlpha reports whether s consists only of lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return len(s) > 0
}
