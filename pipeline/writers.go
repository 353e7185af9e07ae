package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/aluiziolira/go-books-catalog/models"
	"github.com/aluiziolira/go-books-catalog/storage"
)

// Output formats accepted by NewOutputWriter.
const (
	FormatJSON = "json"
	FormatDual = "dual"
)

// OutputWriter receives the enriched books and produces one or more artifacts.
type OutputWriter interface {
	Write(books []models.Book) error
	Close() error
	Validate() error
	Paths() []string
}

// NewOutputWriter returns the writer for format. The dual format adds a CSV
// file next to jsonPath with the same base name.
func NewOutputWriter(format, jsonPath string) (OutputWriter, error) {
	switch format {
	case "", FormatJSON:
		return NewJSONWriter(jsonPath), nil
	case FormatDual:
		return NewDualWriter(CSVPath(jsonPath), jsonPath)
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// CSVPath swaps the extension of path for .csv.
func CSVPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".csv"
}

var csvHeader = []string{"title", "price", "availability", "product_page_link", "star_rating", "publisher_country"}

// CSVWriter writes records to CSV.
type CSVWriter struct {
	path   string
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter initialises a CSV writer and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{
		path:   filename,
		file:   f,
		writer: writer,
	}, nil
}

// Write appends books to the CSV output.
func (cw *CSVWriter) Write(books []models.Book) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, book := range books {
		record := []string{
			book.Title,
			book.Price,
			book.Availability,
			book.ProductPageLink,
			strconv.Itoa(book.StarRating),
			book.PublisherCountry,
		}
		if err := cw.writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content.
func (cw *CSVWriter) Validate() error {
	return nonEmpty(cw.path)
}

func (cw *CSVWriter) Paths() []string {
	return []string{cw.path}
}

// JSONWriter collects books and writes them as one JSON array on Close.
type JSONWriter struct {
	path  string
	books []models.Book
	mu    sync.Mutex
}

// NewJSONWriter initialises the JSON writer.
func NewJSONWriter(filename string) *JSONWriter {
	return &JSONWriter{path: filename, books: []models.Book{}}
}

// Write buffers books for the final document.
func (jw *JSONWriter) Write(books []models.Book) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	jw.books = append(jw.books, books...)
	return nil
}

// Close writes the document, replacing any previous file.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if err := storage.Save(jw.path, jw.books); err != nil {
		return fmt.Errorf("write json document: %w", err)
	}
	return nil
}

// Validate ensures the JSON file has data.
func (jw *JSONWriter) Validate() error {
	return nonEmpty(jw.path)
}

func (jw *JSONWriter) Paths() []string {
	return []string{jw.path}
}

func nonEmpty(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("%s is empty", path)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
