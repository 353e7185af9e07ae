// Package parser extracts book records from catalogue listing pages.
package parser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-books-catalog/models"
)

const (
	productSelector = "article.product_pod"
	nextSelector    = "li.next > a"
)

// Listing is the outcome of parsing one catalogue page.
type Listing struct {
	Books []*models.Book
	// NextURL is empty on the last page.
	NextURL string
	// Rejected holds one error per product entry that could not be extracted.
	Rejected []error
}

// ParseListing extracts every product entry on the page and resolves the
// next-page link against pageURL.
func ParseListing(markup []byte, pageURL string) (*Listing, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("page url %q must be absolute", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse listing markup: %w", err)
	}

	listing := &Listing{}
	doc.Find(productSelector).Each(func(i int, s *goquery.Selection) {
		book, err := extractBook(s, base)
		if err != nil {
			listing.Rejected = append(listing.Rejected, fmt.Errorf("entry %d: %w", i+1, err))
			return
		}
		listing.Books = append(listing.Books, book)
	})

	if href, ok := doc.Find(nextSelector).First().Attr("href"); ok && strings.TrimSpace(href) != "" {
		next, err := resolve(base, href)
		if err != nil {
			return nil, fmt.Errorf("resolve next link: %w", err)
		}
		listing.NextURL = next
	}

	return listing, nil
}

func extractBook(s *goquery.Selection, base *url.URL) (*models.Book, error) {
	anchor := s.Find("h3 a").First()
	if anchor.Length() == 0 {
		return nil, fmt.Errorf("missing title link")
	}

	title := strings.TrimSpace(anchor.AttrOr("title", ""))
	if title == "" {
		title = strings.TrimSpace(anchor.Text())
	}

	href := strings.TrimSpace(anchor.AttrOr("href", ""))
	if href == "" {
		return nil, fmt.Errorf("missing product link for %q", title)
	}
	link, err := resolve(base, href)
	if err != nil {
		return nil, fmt.Errorf("resolve product link for %q: %w", title, err)
	}

	book := &models.Book{
		Title:           title,
		Price:           strings.TrimSpace(s.Find(".price_color").First().Text()),
		Availability:    NormalizeAvailability(s.Find(".availability").First().Text()),
		ProductPageLink: link,
		StarRating:      RatingToNumeric(RatingLabel(s.Find("p.star-rating").First().AttrOr("class", ""))),
	}
	if err := ValidateBook(book); err != nil {
		return nil, err
	}
	return book, nil
}

func resolve(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
