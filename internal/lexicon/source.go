// internal/lexicon/source.go
//
// Dictionary bootstrap.
//
// Initialization behavior (Open):
//   1. If path is non-empty, load the newline-delimited word list from that
//      file (typically WORDS_FILE=/path/to/sowpods.txt).
//   2. Otherwise fall back to the small embedded list in assets/, which keeps
//      the server playable with no configuration.

package lexicon

import (
	"errors"
	"fmt"
	"os"

	"github.com/tilegrab/go-server/assets"
)

// Open builds a Lexicon from the file at path, or from the embedded
// fallback list when path is empty. Returns an error if the resulting
// dictionary is empty.
func Open(path string) (*Lexicon, error) {
	l := New()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open word list: %w", err)
		}
		defer f.Close()
		if err := l.Load(f); err != nil {
			return nil, fmt.Errorf("read word list %s: %w", path, err)
		}
	} else {
		f, err := assets.Words()
		if err != nil {
			return nil, fmt.Errorf("open embedded word list: %w", err)
		}
		defer f.Close()
		if err := l.Load(f); err != nil {
			return nil, fmt.Errorf("read embedded word list: %w", err)
		}
	}

	if l.Size() == 0 {
		return nil, errors.New("lexicon: word list is empty")
	}
	return l, nil
}
