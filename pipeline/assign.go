package pipeline

import (
	"math/rand/v2"

	"github.com/aluiziolira/go-books-catalog/models"
)

// Rand picks an index in [0, n).
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from the process-wide generator.
var DefaultRand Rand = globalRand{}

// AssignCountries returns copies of books, each with a publisher country drawn
// uniformly from countries, or UnknownCountry when the list is empty. Input
// books are not modified.
func AssignCountries(books []models.Book, countries []string, rnd Rand) []models.Book {
	if rnd == nil {
		rnd = DefaultRand
	}

	out := make([]models.Book, len(books))
	for i, book := range books {
		country := models.UnknownCountry
		if len(countries) > 0 {
			country = countries[rnd.IntN(len(countries))]
		}
		out[i] = book.WithCountry(country)
	}
	return out
}
