// internal/game/score.go
//
// Word scoring. A word is worth its length minus a fixed offset; the offset
// has changed between tunings, so it is configured rather than hard-coded
// (SCORE_OFFSET env, default 2).

package game

// DefaultScoreOffset is the current scoring calibration.
const DefaultScoreOffset = 2

// Scorer maps words and word transitions to integer scores.
type Scorer struct {
	offset int
}

// NewScorer returns a Scorer with the given length offset.
func NewScorer(offset int) Scorer {
	return Scorer{offset: offset}
}

// Word scores a single word: len(word) minus the offset.
func (s Scorer) Word(word string) int {
	return len(word) - s.offset
}

// Diff scores the transition from oldWord to newWord. Used only when a
// player extends a word they already own.
func (s Scorer) Diff(oldWord, newWord string) int {
	return s.Word(newWord) - s.Word(oldWord)
}

// Final sums the scores of a player's owned words. Computed once at game
// end, never tracked incrementally.
func (s Scorer) Final(words []string) int {
	total := 0
	for _, w := range words {
		total += s.Word(w)
	}
	return total
}
