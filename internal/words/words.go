// apps/go-server/internal/words/words.go
//
// Dictionary of valid words for scoring and word acceptance.
//
// Responsibilities:
//   - Load a newline-delimited word list from a reader, a plain or gzip file,
//     a single entry of a zip archive, or the embedded default list.
//   - Normalise every line (trim + lowercase); blank lines are dropped.
//   - Answer membership queries.
//
// Loading is all-or-nothing: any read or decompression failure returns an
// error wrapping ErrLoad and no Dictionary. A loaded Dictionary is never
// mutated, so it may be shared by any number of goroutines.
//
// Sources:
//   DICTIONARY_FILE=/path/to/sowpods.txt.gz
//   DICTIONARY_ZIP_ENTRY=sowpods.txt   (only when DICTIONARY_FILE is a .zip)

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"github.com/robalobadob/boggle/apps/go-server/assets"
)

// ErrLoad is wrapped by every error returned from the loaders.
var ErrLoad = errors.New("words: load failed")

// Dictionary is an immutable set of lowercase words.
type Dictionary struct {
	words map[string]struct{}
}

// Load reads one word per line from r. Gzip input is detected by its magic
// bytes and decompressed transparently.
func Load(r io.Reader) (*Dictionary, error) {
	return load("reader", r)
}

// LoadFile loads a plain or gzip-compressed word list from path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()
	return load(path, f)
}

// LoadZipEntry loads the word list stored under entry inside the zip archive
// at path. A missing entry is a load error.
func LoadZipEntry(path, entry string) (*Dictionary, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != entry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %s!%s: %w", ErrLoad, path, entry, err)
		}
		defer rc.Close()
		return load(path+"!"+entry, rc)
	}
	return nil, fmt.Errorf("%w: %s: no entry %q", ErrLoad, path, entry)
}

// LoadDefault loads the word list embedded in the binary.
func LoadDefault() (*Dictionary, error) {
	f, err := assets.OpenDictionary()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()
	return load(assets.DefaultName, f)
}

// FromWords builds a Dictionary from an in-memory list, applying the same
// normalisation as the loaders.
func FromWords(list ...string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(list))}
	for _, w := range list {
		d.add(w)
	}
	return d
}

func load(src string, r io.Reader) (*Dictionary, error) {
	br := bufio.NewReader(r)
	var in io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoad, src, err)
		}
		defer gz.Close()
		in = gz
	}

	d := &Dictionary{words: make(map[string]struct{})}
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		d.add(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, src, err)
	}
	if len(d.words) == 0 {
		return nil, fmt.Errorf("%w: %s: no words", ErrLoad, src)
	}
	return d, nil
}

// add normalises w and stores it; empty results are ignored.
func (d *Dictionary) add(w string) {
	w = strings.ToLower(strings.TrimSpace(w))
	if w == "" {
		return
	}
	d.words[w] = struct{}{}
}

// Contains reports whether w is in the dictionary. w is matched exactly;
// callers lowercase before asking.
func (d *Dictionary) Contains(w string) bool {
	if d == nil {
		return false
	}
	_, ok := d.words[w]
	return ok
}

// Size returns the number of distinct words loaded.
func (d *Dictionary) Size() int {
	if d == nil {
		return 0
	}
	return len(d.words)
}
