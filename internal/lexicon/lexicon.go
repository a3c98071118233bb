// internal/lexicon/lexicon.go
//
// Prefix-tree membership index over the game dictionary.
// Responsibilities:
//   - Insert lowercase alphabetic words; no deletions.
//   - Contains: exact dictionary membership (the empty string is trivially
//     contained).
//   - Load: bulk-insert from a newline-delimited source, tolerant of CRLF
//     endings and a missing trailing newline.
//
// Notes:
//   - The structure performs no case normalization; callers must lowercase.
//   - Built once at startup and read-only afterwards, so concurrent lookups
//     need no locking.

package lexicon

import (
	"bufio"
	"io"
	"strings"
)

// Node is a single trie node: one fixed child slot per letter a–z plus a
// terminal flag marking the end of a complete dictionary word.
type Node struct {
	children [26]*Node
	terminal bool
}

// Child returns the child node for letter index i (0='a' .. 25='z'),
// or nil if no word continues with that letter.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Terminal reports whether the path from the root to this node spells a
// complete dictionary word.
func (n *Node) Terminal() bool { return n.terminal }

// Lexicon is the dictionary index. The zero value is not usable; call New.
type Lexicon struct {
	root *Node
	size int
}

// New returns an empty Lexicon.
func New() *Lexicon {
	return &Lexicon{root: &Node{}}
}

// Root exposes the trie root for depth-first traversal by the claim engine.
func (l *Lexicon) Root() *Node { return l.root }

// Size returns the number of words inserted.
func (l *Lexicon) Size() int { return l.size }

// Insert adds a lowercase a–z word. Words containing any other character
// are ignored. Cost is O(len(word)).
func (l *Lexicon) Insert(word string) {
	if !isLower(word) {
		return
	}
	n := l.root
	for i := 0; i < len(word); i++ {
		j := word[i] - 'a'
		if n.children[j] == nil {
			n.children[j] = &Node{}
		}
		n = n.children[j]
	}
	if !n.terminal {
		n.terminal = true
		l.size++
	}
}

// Contains reports whether word is a complete dictionary entry.
// The empty string is trivially contained.
func (l *Lexicon) Contains(word string) bool {
	if word == "" {
		return true
	}
	if !isLower(word) {
		return false
	}
	n := l.root
	for i := 0; i < len(word); i++ {
		n = n.children[word[i]-'a']
		if n == nil {
			return false
		}
	}
	return n.terminal
}

// Load bulk-inserts words from a newline-delimited reader. Lines are
// trimmed and lowercased; lines that are empty or not purely alphabetic
// after trimming are skipped. A final line without a trailing newline is
// still inserted.
func (l *Lexicon) Load(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.TrimSpace(strings.ToLower(sc.Text()))
		if w == "" || !isLower(w) {
			continue
		}
		l.Insert(w)
	}
	return sc.Err()
}

// isLower reports whether s consists only of lowercase ASCII letters.
func isLower(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return len(s) > 0
}
