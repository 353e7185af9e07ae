// Package storage persists book documents as JSON files.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aluiziolira/go-books-catalog/models"
)

// WriteJSON encodes v as indented JSON and replaces path atomically. Parent
// directories are created as needed and non-ASCII text is written as is.
func WriteJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Load reads a JSON array of books. A missing or unreadable document yields
// an empty collection.
func Load(path string) []models.Book {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("cannot read books file", slog.String("path", path), slog.Any("error", err))
		}
		return []models.Book{}
	}

	var books []models.Book
	if err := json.Unmarshal(data, &books); err != nil {
		slog.Warn("ignoring malformed books file", slog.String("path", path), slog.Any("error", err))
		return []models.Book{}
	}
	if books == nil {
		books = []models.Book{}
	}
	return books
}

// Save writes books as a JSON array, replacing any previous content.
func Save(path string, books []models.Book) error {
	if books == nil {
		books = []models.Book{}
	}
	return WriteJSON(path, books)
}
