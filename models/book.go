// Package models defines data structures for the scraper and the books API.
package models

import "time"

// UnknownCountry is assigned when no reference country list is available.
const UnknownCountry = "Unknown"

// Book is one catalogue entry. PublisherCountry stays empty until country
// assignment, which keeps it out of the raw artifact.
type Book struct {
	Title            string `json:"title"`
	Price            string `json:"price"`
	Availability     string `json:"availability"`
	ProductPageLink  string `json:"product_page_link"`
	StarRating       int    `json:"star_rating"`
	PublisherCountry string `json:"publisher_country,omitempty"`
}

// WithCountry returns a copy of b carrying the given publisher country.
func (b Book) WithCountry(country string) Book {
	b.PublisherCountry = country
	return b
}

// ScraperResult holds the overall result of a scraping operation
type ScraperResult struct {
	Books           []*Book
	StartTime       time.Time
	EndTime         time.Time
	TotalCount      int
	PageCount       int
	InvalidCount    int
	ArchivedCount   int
	ArchiveFailures int
	FailedURLs      []string
	ErrorsByType    map[string]int
}
