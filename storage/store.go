package storage

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aluiziolira/go-books-catalog/models"
)

var (
	// ErrDuplicateTitle is returned when an insert collides with an existing title.
	ErrDuplicateTitle = errors.New("book with this title already exists")
	// ErrNotFound is returned when no book matches a title.
	ErrNotFound = errors.New("book not found")
)

// BookStore is an in-memory book collection backed by a JSON file. Titles
// are compared case-insensitively. Every mutation is persisted before it
// becomes visible; if persisting fails the collection is left unchanged.
type BookStore struct {
	mu    sync.RWMutex
	path  string
	books []models.Book
	save  func(string, []models.Book) error
}

// Open loads the document at path. A missing or malformed file starts an
// empty store.
func Open(path string) *BookStore {
	return &BookStore{
		path:  path,
		books: Load(path),
		save:  Save,
	}
}

// Path returns the backing file.
func (s *BookStore) Path() string {
	return s.path
}

// Len returns the number of stored books.
func (s *BookStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

// List returns the books in storage order, filtered by publisher country
// when country is non-empty.
func (s *BookStore) List(country string) []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Book, 0, len(s.books))
	for _, book := range s.books {
		if country != "" && !strings.EqualFold(book.PublisherCountry, country) {
			continue
		}
		out = append(out, book)
	}
	return out
}

// Insert appends book unless a book with the same title already exists.
func (s *BookStore) Insert(book models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.books {
		if strings.EqualFold(existing.Title, book.Title) {
			return fmt.Errorf("%w: %q", ErrDuplicateTitle, book.Title)
		}
	}

	next := make([]models.Book, len(s.books), len(s.books)+1)
	copy(next, s.books)
	next = append(next, book)
	if err := s.save(s.path, next); err != nil {
		return fmt.Errorf("persist insert: %w", err)
	}
	s.books = next
	return nil
}

// Delete removes every book whose title matches and reports how many were removed.
func (s *BookStore) Delete(title string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Book, 0, len(s.books))
	for _, book := range s.books {
		if strings.EqualFold(book.Title, title) {
			continue
		}
		next = append(next, book)
	}

	removed := len(s.books) - len(next)
	if removed == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	if err := s.save(s.path, next); err != nil {
		return 0, fmt.Errorf("persist delete: %w", err)
	}
	s.books = next
	return removed, nil
}
