package scraper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aluiziolira/go-books-catalog/models"
)

type stubFetcher struct {
	pages map[string][]byte
	errs  map[string]error
	calls []string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if body, ok := f.pages[url]; ok {
		return body, nil
	}
	return nil, &FetchError{URL: url, StatusCode: 404, Err: ErrNotFound{Err: errors.New("Not Found")}}
}

func TestArchiveFilename(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{name: "plain", title: "A Light in the Attic", expected: "A_Light_in_the_Attic.html"},
		{name: "punctuation stripped", title: "It's Only the Himalayas!", expected: "Its_Only_the_Himalayas.html"},
		{name: "trailing space trimmed", title: "Sharp Objects ?", expected: "Sharp_Objects.html"},
		{name: "keeps dash and underscore", title: "Full Moon over Noah's Ark: An Odyssey-to_Mount", expected: "Full_Moon_over_Noahs_Ark_An_Odyssey-to_Mount.html"},
		{name: "unicode letters kept", title: "Voyage à Paris", expected: "Voyage_à_Paris.html"},
		{name: "only punctuation", title: "?!", expected: "untitled.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArchiveFilename(tt.title); got != tt.expected {
				t.Fatalf("ArchiveFilename(%q) = %q, want %q", tt.title, got, tt.expected)
			}
		})
	}
}

func TestArchiveFilenameTruncates(t *testing.T) {
	title := strings.Repeat("abcdefghij", 10)
	got := ArchiveFilename(title)
	stem := strings.TrimSuffix(got, ".html")
	if len([]rune(stem)) != 60 {
		t.Fatalf("stem length=%d, want 60", len([]rune(stem)))
	}
}

func TestFileArchiverWritesPage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "html_backup")
	fetcher := &stubFetcher{pages: map[string][]byte{
		"http://example.test/catalogue/a/index.html": []byte("<html>a</html>"),
	}}

	archiver, err := NewFileArchiver(fetcher, dir)
	if err != nil {
		t.Fatalf("new archiver: %v", err)
	}

	path, err := archiver.Archive(context.Background(), &models.Book{
		Title:           "Book A",
		ProductPageLink: "http://example.test/catalogue/a/index.html",
	})
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if path != filepath.Join(dir, "Book_A.html") {
		t.Fatalf("path=%q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if string(data) != "<html>a</html>" {
		t.Fatalf("archive content=%q", data)
	}
}

func TestFileArchiverPropagatesFetchError(t *testing.T) {
	archiver, err := NewFileArchiver(&stubFetcher{}, t.TempDir())
	if err != nil {
		t.Fatalf("new archiver: %v", err)
	}

	_, err = archiver.Archive(context.Background(), &models.Book{
		Title:           "Gone",
		ProductPageLink: "http://example.test/catalogue/gone/index.html",
	})
	if got := ErrorType(err); got != "not_found" {
		t.Fatalf("error type=%q, want not_found", got)
	}
}

func TestNewFileArchiverRequiresDir(t *testing.T) {
	if _, err := NewFileArchiver(&stubFetcher{}, " "); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
