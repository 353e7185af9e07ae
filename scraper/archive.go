package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/aluiziolira/go-books-catalog/models"
)

const maxArchiveNameRunes = 60

// PageFetcher retrieves the raw body behind a URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Archiver stores a copy of a book's product page. It returns the location written.
type Archiver interface {
	Archive(ctx context.Context, book *models.Book) (string, error)
}

// FileArchiver writes product pages into a local directory.
type FileArchiver struct {
	fetcher PageFetcher
	dir     string
}

// NewFileArchiver creates dir if needed and returns an archiver rooted there.
func NewFileArchiver(fetcher PageFetcher, dir string) (*FileArchiver, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("archive directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory %q: %w", dir, err)
	}
	return &FileArchiver{fetcher: fetcher, dir: dir}, nil
}

// Archive fetches the product page and saves it under a name derived from the title.
func (a *FileArchiver) Archive(ctx context.Context, book *models.Book) (string, error) {
	body, err := a.fetcher.Fetch(ctx, book.ProductPageLink)
	if err != nil {
		return "", err
	}
	target := filepath.Join(a.dir, ArchiveFilename(book.Title))
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return "", fmt.Errorf("write archive %s: %w", target, err)
	}
	return target, nil
}

// ArchiveFilename turns a title into a filesystem-safe name: letters, digits,
// spaces, '-' and '_' survive, the result is cut to 60 characters and spaces
// become underscores.
func ArchiveFilename(title string) string {
	kept := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			return r
		}
		return -1
	}, title)
	kept = strings.TrimRight(kept, " ")

	runes := []rune(kept)
	if len(runes) > maxArchiveNameRunes {
		runes = runes[:maxArchiveNameRunes]
	}
	name := strings.ReplaceAll(string(runes), " ", "_")
	if name == "" {
		name = "untitled"
	}
	return name + ".html"
}
