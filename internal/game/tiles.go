// internal/game/tiles.go
//
// TileBag holds the room's letter tiles, split into a hidden draw stack and
// the visible shared pool. The full supply is the standard 98-tile letter
// distribution (no blanks). Reset reshuffles everything back into the hidden
// stack; Draw moves one tile into the pool; Consume removes exact instances
// from the pool when a claim is applied.

package game

import "math/rand"

// tileFrequencies is the per-letter tile count, a–z.
var tileFrequencies = [26]int{
	9,  // a
	2,  // b
	2,  // c
	4,  // d
	12, // e
	2,  // f
	3,  // g
	2,  // h
	9,  // i
	1,  // j
	1,  // k
	4,  // l
	2,  // m
	6,  // n
	8,  // o
	2,  // p
	1,  // q
	6,  // r
	4,  // s
	6,  // t
	4,  // u
	2,  // v
	2,  // w
	1,  // x
	2,  // y
	1,  // z
}

// TileSupply is the total number of tiles in the distribution.
const TileSupply = 98

// TileBag is not safe for concurrent use; the owning room serializes access.
type TileBag struct {
	hidden []rune
	pool   []rune
	rng    *rand.Rand
}

// NewTileBag returns a bag with the full supply shuffled into the hidden
// stack and an empty pool.
func NewTileBag(rng *rand.Rand) *TileBag {
	b := &TileBag{rng: rng}
	b.Reset()
	return b
}

// Reset reshuffles the full distribution into the hidden stack and clears
// the visible pool.
func (b *TileBag) Reset() {
	b.hidden = b.hidden[:0]
	for i, n := range tileFrequencies {
		for j := 0; j < n; j++ {
			b.hidden = append(b.hidden, rune('a'+i))
		}
	}
	b.rng.Shuffle(len(b.hidden), func(i, j int) {
		b.hidden[i], b.hidden[j] = b.hidden[j], b.hidden[i]
	})
	b.pool = b.pool[:0]
}

// Draw removes the top tile from the hidden stack, appends it to the visible
// pool, and returns it. Fails with ErrEmptyBag when no tiles remain.
func (b *TileBag) Draw() (rune, error) {
	if len(b.hidden) == 0 {
		return 0, ErrEmptyBag
	}
	letter := b.hidden[len(b.hidden)-1]
	b.hidden = b.hidden[:len(b.hidden)-1]
	b.pool = append(b.pool, letter)
	return letter, nil
}

// Remaining returns the number of hidden (undrawn) tiles.
func (b *TileBag) Remaining() int { return len(b.hidden) }

// Pool returns a copy of the visible pool in draw order.
func (b *TileBag) Pool() []rune {
	out := make([]rune, len(b.pool))
	copy(out, b.pool)
	return out
}

// PoolCounts returns the visible pool as a letter multiset.
func (b *TileBag) PoolCounts() LetterCounts {
	return countRunes(b.pool)
}

// Consume removes exactly one pool instance of each requested letter.
// The removal is all-or-nothing: if any letter is absent the pool is left
// untouched and ErrInsufficientPool is returned. A claim computed against
// the current pool can never trigger this; it indicates desynchronization.
func (b *TileBag) Consume(letters []rune) error {
	need := countRunes(letters)
	have := countRunes(b.pool)
	for i := range need {
		if need[i] > have[i] {
			return ErrInsufficientPool
		}
	}
	for _, letter := range letters {
		for i, r := range b.pool {
			if r == letter {
				b.pool = append(b.pool[:i], b.pool[i+1:]...)
				break
			}
		}
	}
	return nil
}
