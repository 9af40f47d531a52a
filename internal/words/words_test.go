package words

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/matryer/is"
)

func TestLoadNormalises(t *testing.T) {
	is := is.New(t)
	d, err := Load(strings.NewReader("  Apple \n\n   \nBANANA\ncarrot\ndog\n"))
	is.NoErr(err)
	is.Equal(d.Size(), 4)
	is.True(d.Contains("apple"))
	is.True(!d.Contains("Apple"))
	is.True(d.Contains("banana"))
	is.True(!d.Contains(""))
}

func TestLoadGzip(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("cat\ndog\nzebra\n"))
	is.NoErr(err)
	is.NoErr(gz.Close())

	d, err := Load(&buf)
	is.NoErr(err)
	is.Equal(d.Size(), 3)
	is.True(d.Contains("zebra"))
}

func TestLoadCorruptGzip(t *testing.T) {
	is := is.New(t)
	_, err := Load(bytes.NewReader([]byte{0x1f, 0x8b, 0x00, 0x01, 0x02}))
	is.True(errors.Is(err, ErrLoad))
}

func TestLoadEmptyIsError(t *testing.T) {
	is := is.New(t)
	d, err := Load(strings.NewReader("\n   \n"))
	is.True(errors.Is(err, ErrLoad))
	is.True(d == nil)
}

func TestLoadFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "test.txt")
	is.NoErr(os.WriteFile(path, []byte("apple\nbanana\ncarrot\ndog\n"), 0o644))

	d, err := LoadFile(path)
	is.NoErr(err)
	is.Equal(d.Size(), 4)
	is.True(d.Contains("carrot"))
}

func TestLoadMissingFile(t *testing.T) {
	is := is.New(t)
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	is.True(errors.Is(err, ErrLoad))
	is.True(errors.Is(err, os.ErrNotExist))
}

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadZipEntry(t *testing.T) {
	is := is.New(t)
	path := writeZip(t, map[string]string{
		"readme.txt":  "not\nwords\n",
		"sowpods.txt": "Quail\nquest\n",
	})

	d, err := LoadZipEntry(path, "sowpods.txt")
	is.NoErr(err)
	is.Equal(d.Size(), 2)
	is.True(d.Contains("quail"))
	is.True(!d.Contains("words"))

	_, err = LoadZipEntry(path, "missing.txt")
	is.True(errors.Is(err, ErrLoad))
}

func TestLoadDefault(t *testing.T) {
	is := is.New(t)
	d, err := LoadDefault()
	is.NoErr(err)
	is.True(d.Size() > 1000)
	is.True(d.Contains("zebra"))
}

func TestFromWords(t *testing.T) {
	is := is.New(t)
	d := FromWords(" Cat", "cat", "", "DOG ")
	is.Equal(d.Size(), 2)
	is.True(d.Contains("cat"))
	is.True(d.Contains("dog"))

	var nilDict *Dictionary
	is.True(!nilDict.Contains("cat"))
}
