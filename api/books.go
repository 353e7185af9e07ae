package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aluiziolira/go-books-catalog/models"
	"github.com/aluiziolira/go-books-catalog/parser"
	"github.com/aluiziolira/go-books-catalog/storage"
)

const maxBodyBytes = 1 << 20

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	// Surrounding whitespace in the filter is ignored; otherwise the match is a case-insensitive equality.
	country := strings.TrimSpace(r.URL.Query().Get("country"))
	writeJSON(w, http.StatusOK, s.store.List(country))
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	book, err := req.book()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.Insert(book); err != nil {
		if errors.Is(err, storage.ErrDuplicateTitle) {
			writeError(w, http.StatusBadRequest, "Book with this title already exists")
			return
		}
		slog.Error("insert book failed", slog.String("title", book.Title), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to save book")
		return
	}

	s.metrics.SetBooks(s.store.Len())
	slog.Info("added book", slog.String("title", book.Title))
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(title); err == nil {
			title = unescaped
		}
	}

	if _, err := s.store.Delete(title); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Book not found")
			return
		}
		slog.Error("delete book failed", slog.String("title", title), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to save books")
		return
	}

	s.metrics.SetBooks(s.store.Len())
	slog.Info("deleted book", slog.String("title", title))
	w.WriteHeader(http.StatusNoContent)
}

// bookRequest is a POST body. Every field of the record is required.
type bookRequest struct {
	Title            string `json:"title"`
	Price            string `json:"price"`
	Availability     string `json:"availability"`
	ProductPageLink  string `json:"product_page_link"`
	StarRating       *int   `json:"star_rating"`
	PublisherCountry string `json:"publisher_country"`
}

func (req bookRequest) book() (models.Book, error) {
	if req.StarRating == nil {
		return models.Book{}, errors.New("book missing star_rating")
	}
	book := models.Book{
		Title:            strings.TrimSpace(req.Title),
		Price:            strings.TrimSpace(req.Price),
		Availability:     strings.TrimSpace(req.Availability),
		ProductPageLink:  strings.TrimSpace(req.ProductPageLink),
		StarRating:       *req.StarRating,
		PublisherCountry: strings.TrimSpace(req.PublisherCountry),
	}
	if err := parser.ValidateBook(&book); err != nil {
		return models.Book{}, err
	}
	if book.PublisherCountry == "" {
		return models.Book{}, fmt.Errorf("book missing publisher_country for %s", book.Title)
	}
	return book, nil
}
