// internal/game/claims.go
//
// Word-claim resolution engine.
//
// Given the visible tile pool and every player's currently-owned words, the
// engine enumerates every dictionary word reachable either from pool letters
// alone (a fresh word) or by consuming pool letters to extend an owned word
// (a self-extension or a steal). Resolve then picks the best-scoring
// realization of one attempted word.
//
// The search is a depth-first walk of the lexicon trie carrying two
// depletable budgets: the required letters of the word being extended, which
// must be fully consumed, and the optional pool letters. A letter available
// in both budgets is always drawn from required first; otherwise a pool
// letter could silently substitute for a letter that must come from the
// extended word.

package game

import "github.com/tilegrab/go-server/internal/lexicon"

// Claim is one realizable word transition. Ephemeral: produced per attempt,
// never persisted.
type Claim struct {
	// Word is the full resulting word.
	Word string
	// PoolLetters is the multiset of pool letters the claim consumes.
	PoolLetters LetterCounts
	// PrevWord is the owned word being extended; empty for a fresh word.
	PrevWord string
	// OwnerID is the player currently owning PrevWord; empty for a fresh word.
	OwnerID string
}

// Engine resolves word attempts against a lexicon. Read-only and safe for
// concurrent use across rooms.
type Engine struct {
	lex    *lexicon.Lexicon
	scorer Scorer
}

// NewEngine returns an Engine backed by the given lexicon.
func NewEngine(lex *lexicon.Lexicon, scorer Scorer) *Engine {
	return &Engine{lex: lex, scorer: scorer}
}

// EnumerateClaims lists every claim realizable from the pool and the owned
// words. Fresh claims come first, then per-player claims in playerOrder,
// then per owned word in that player's word-list order; Resolve's
// tie-breaking depends on this ordering.
func (e *Engine) EnumerateClaims(pool []rune, ownedByPlayer map[string][]string, playerOrder []string) []Claim {
	claims := e.search(pool, "", "")
	for _, id := range playerOrder {
		for _, w := range ownedByPlayer[id] {
			claims = append(claims, e.search(pool, w, id)...)
		}
	}
	return claims
}

// Resolve filters claims matching the attempted word (case-insensitively
// lowercased by the caller) and returns the best-scoring one. A claimant
// extending their own word scores the transition difference; fresh words and
// steals score at full word value. Ties keep the first occurrence. ok is
// false when no claim matches; the attempt is not realizable and should be
// treated as ordinary chat.
func (e *Engine) Resolve(attempted, claimantID string, claims []Claim) (best Claim, ok bool) {
	bestScore := 0
	for _, c := range claims {
		if c.Word != attempted {
			continue
		}
		score := e.scorer.Word(c.Word)
		if c.OwnerID != "" && c.OwnerID == claimantID {
			score = e.scorer.Diff(c.PrevWord, c.Word)
		}
		if !ok || score > bestScore {
			best, bestScore, ok = c, score, true
		}
	}
	return best, ok
}

// search enumerates claims for one regime: existing == "" is the fresh
// regime, otherwise the extension regime over ownerID's word.
func (e *Engine) search(pool []rune, existing, ownerID string) []Claim {
	if len(pool) == 0 {
		// No optional budget means no extension can grow and no fresh word
		// can form.
		return nil
	}
	required := countLetters(existing)
	optional := countRunes(pool)

	var out []Claim
	e.walk(e.lex.Root(), &required, &optional, make([]byte, 0, len(existing)+len(pool)), false, existing, ownerID, &out)
	return out
}

// walk backtracks through the trie. buf spells the path so far; usedOptional
// records whether any pool letter has been consumed on it.
func (e *Engine) walk(n *lexicon.Node, required, optional *LetterCounts, buf []byte, usedOptional bool, existing, ownerID string, out *[]Claim) {
	if n.Terminal() && e.qualifies(required, usedOptional, len(buf), existing) {
		word := string(buf)
		pool := countLetters(word)
		prev := countLetters(existing)
		for i := range pool {
			pool[i] -= prev[i]
		}
		*out = append(*out, Claim{
			Word:        word,
			PoolLetters: pool,
			PrevWord:    existing,
			OwnerID:     ownerID,
		})
	}

	for i := 0; i < 26; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		letter := byte('a' + i)
		switch {
		case required[i] > 0:
			required[i]--
			e.walk(child, required, optional, append(buf, letter), usedOptional, existing, ownerID, out)
			required[i]++
		case optional[i] > 0:
			optional[i]--
			e.walk(child, required, optional, append(buf, letter), true, existing, ownerID, out)
			optional[i]++
		}
	}
}

// qualifies applies the terminal acceptance rules. Fresh regime: any
// complete word. Extension regime: every required letter consumed, at least
// one pool letter consumed, and the result strictly longer than the original:
// a genuine superset with growth, never a same-length anagram or a
// truncation.
func (e *Engine) qualifies(required *LetterCounts, usedOptional bool, length int, existing string) bool {
	if existing == "" {
		return true
	}
	return usedOptional && required.Empty() && length > len(existing)
}
