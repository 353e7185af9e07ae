package parser

import (
	"testing"

	"github.com/aluiziolira/go-books-catalog/models"
)

func TestValidateBook(t *testing.T) {
	valid := func() *models.Book {
		return &models.Book{
			Title:           "Test Book",
			Price:           "£10.00",
			Availability:    "In stock",
			ProductPageLink: "http://example.com/catalogue/test-book_1/index.html",
			StarRating:      5,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*models.Book)
		wantErr bool
	}{
		{
			name:    "valid book",
			mutate:  func(*models.Book) {},
			wantErr: false,
		},
		{
			name:    "missing title",
			mutate:  func(b *models.Book) { b.Title = " " },
			wantErr: true,
		},
		{
			name:    "missing price",
			mutate:  func(b *models.Book) { b.Price = "" },
			wantErr: true,
		},
		{
			name:    "missing availability",
			mutate:  func(b *models.Book) { b.Availability = "" },
			wantErr: true,
		},
		{
			name:    "relative link",
			mutate:  func(b *models.Book) { b.ProductPageLink = "../../test-book_1/index.html" },
			wantErr: true,
		},
		{
			name:    "rating out of range",
			mutate:  func(b *models.Book) { b.StarRating = 6 },
			wantErr: true,
		},
		{
			name:    "zero rating allowed",
			mutate:  func(b *models.Book) { b.StarRating = 0 },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := valid()
			tt.mutate(book)
			err := ValidateBook(book)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBook() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := ValidateBook(nil); err == nil {
		t.Errorf("ValidateBook(nil) should fail")
	}
}

func TestRatingToNumeric(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "One", input: "One", expected: 1},
		{name: "Two", input: "Two", expected: 2},
		{name: "Three", input: "Three", expected: 3},
		{name: "Four", input: "Four", expected: 4},
		{name: "Five", input: "Five", expected: 5},
		{name: "Zero", input: "Zero", expected: 0},
		{name: "invalid rating", input: "Invalid", expected: 0},
		{name: "empty string", input: "", expected: 0},
		{name: "lowercase", input: "three", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RatingToNumeric(tt.input)
			if result != tt.expected {
				t.Errorf("RatingToNumeric(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRatingLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "star-rating Three", expected: "Three"},
		{input: "Four star-rating", expected: "Four"},
		{input: "star-rating", expected: ""},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		if got := RatingLabel(tt.input); got != tt.expected {
			t.Errorf("RatingLabel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeAvailability(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "with whitespace",
			input:    "  In stock (22 available)  ",
			expected: "In stock (22 available)",
		},
		{
			name:     "markup indentation",
			input:    "\n\n    \n        In stock\n    \n",
			expected: "In stock",
		},
		{
			name:     "no whitespace",
			input:    "In stock",
			expected: "In stock",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeAvailability(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeAvailability(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
