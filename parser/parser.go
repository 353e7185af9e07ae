package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/aluiziolira/go-books-catalog/models"
)

// ValidateBook ensures the scraper captured the required fields.
func ValidateBook(b *models.Book) error {
	if b == nil {
		return fmt.Errorf("book is nil")
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("book missing title")
	}
	if strings.TrimSpace(b.Price) == "" {
		return fmt.Errorf("book missing price for %s", b.Title)
	}
	if strings.TrimSpace(b.Availability) == "" {
		return fmt.Errorf("book missing availability for %s", b.Title)
	}
	link, err := url.Parse(b.ProductPageLink)
	if err != nil || !link.IsAbs() {
		return fmt.Errorf("book link %q is not absolute for %s", b.ProductPageLink, b.Title)
	}
	if b.StarRating < 0 || b.StarRating > 5 {
		return fmt.Errorf("book rating %d out of range for %s", b.StarRating, b.Title)
	}
	return nil
}

// NormalizeAvailability trims spacing from the availability text.
func NormalizeAvailability(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// RatingToNumeric converts the textual rating to a numeric scale.
// Unknown labels map to 0.
func RatingToNumeric(rating string) int {
	switch strings.TrimSpace(rating) {
	case "One":
		return 1
	case "Two":
		return 2
	case "Three":
		return 3
	case "Four":
		return 4
	case "Five":
		return 5
	default:
		return 0
	}
}

// RatingLabel picks the rating word out of a star-rating class attribute,
// e.g. "star-rating Three" yields "Three".
func RatingLabel(class string) string {
	for _, part := range strings.Fields(class) {
		if part != "star-rating" {
			return part
		}
	}
	return ""
}
