// Package assets embeds the fallback dictionary so the server can run
// without a configured word list.
package assets

import (
	"embed"
	"io"
)

//go:embed words.txt
var FS embed.FS

// DefaultName is the embedded word list file name.
const DefaultName = "words.txt"

// OpenDictionary opens the embedded newline-delimited word list.
func OpenDictionary() (io.ReadCloser, error) {
	return FS.Open(DefaultName)
}
