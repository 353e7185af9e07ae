package pipeline

import (
	"fmt"
	"testing"

	"github.com/aluiziolira/go-books-catalog/models"
)

// sequenceRand replays fixed draws modulo n.
type sequenceRand struct {
	draws []int
	next  int
}

func (r *sequenceRand) IntN(n int) int {
	v := r.draws[r.next%len(r.draws)]
	r.next++
	return v % n
}

func sampleBooks(n int) []models.Book {
	books := make([]models.Book, n)
	for i := range books {
		books[i] = models.Book{
			Title:           fmt.Sprintf("Book %d", i+1),
			Price:           "£1.00",
			Availability:    "In stock",
			ProductPageLink: fmt.Sprintf("http://example.test/book-%d", i+1),
			StarRating:      i % 6,
		}
	}
	return books
}

func TestAssignCountriesUsesInjectedRand(t *testing.T) {
	books := sampleBooks(4)
	countries := []string{"Vietnam", "Japan", "Peru"}

	got := AssignCountries(books, countries, &sequenceRand{draws: []int{2, 0, 1, 2}})

	want := []string{"Peru", "Vietnam", "Japan", "Peru"}
	for i, book := range got {
		if book.PublisherCountry != want[i] {
			t.Fatalf("book[%d] country=%q, want %q", i, book.PublisherCountry, want[i])
		}
		if book.Title != books[i].Title || book.StarRating != books[i].StarRating {
			t.Fatalf("book[%d] fields changed: %+v", i, book)
		}
	}
	for i, book := range books {
		if book.PublisherCountry != "" {
			t.Fatalf("input book[%d] mutated: %+v", i, book)
		}
	}
}

func TestAssignCountriesEmptyListUsesUnknown(t *testing.T) {
	got := AssignCountries(sampleBooks(5), nil, &sequenceRand{draws: []int{0}})
	for i, book := range got {
		if book.PublisherCountry != models.UnknownCountry {
			t.Fatalf("book[%d] country=%q, want Unknown", i, book.PublisherCountry)
		}
	}
}

func TestAssignCountriesCoversListUniformly(t *testing.T) {
	countries := []string{"Vietnam", "Japan", "Peru", "Chile", "Norway"}
	const n = 10000

	got := AssignCountries(sampleBooks(n), countries, DefaultRand)

	counts := make(map[string]int)
	for _, book := range got {
		counts[book.PublisherCountry]++
	}
	if len(counts) != len(countries) {
		t.Fatalf("covered %d countries, want %d: %v", len(counts), len(countries), counts)
	}
	expected := n / len(countries)
	for country, count := range counts {
		if count < expected*8/10 || count > expected*12/10 {
			t.Fatalf("%s drawn %d times, expected about %d", country, count, expected)
		}
	}
}

func TestAssignCountriesNilRandFallsBack(t *testing.T) {
	got := AssignCountries(sampleBooks(3), []string{"Japan"}, nil)
	for _, book := range got {
		if book.PublisherCountry != "Japan" {
			t.Fatalf("country=%q, want Japan", book.PublisherCountry)
		}
	}
}
