// assets/embed.go
//
// Embedded fallback dictionary for the word-grab server.
// A full-size lexicon (e.g. SOWPODS) should be supplied via the WORDS_FILE
// environment variable in production; this small list keeps the server
// playable out of the box.

package assets

import (
	"embed"
	"io"
)

//go:embed words.txt
var fs embed.FS

// Words opens the embedded word list, one lowercase word per line.
func Words() (io.ReadCloser, error) {
	return fs.Open("words.txt")
}
