package parser

import (
	"fmt"
	"net/url"
	"strings"
	"testing"
)

const pageURL = "http://example.test/catalogue/category/books/travel_2/index.html"

func productPod(title, href, price, rating string) string {
	return fmt.Sprintf(`<article class="product_pod">
  <div class="image_container"><a href="%[2]s"><img src="../../media/cache/x.jpg" alt="%[1]s" class="thumbnail"></a></div>
  <p class="star-rating %[4]s"><i class="icon-star"></i></p>
  <h3><a href="%[2]s" title="%[1]s">%[1]s</a></h3>
  <div class="product_price">
    <p class="price_color">%[3]s</p>
    <p class="instock availability">
        <i class="icon-ok"></i>
        In stock
    </p>
  </div>
</article>`, title, href, price, rating)
}

func listingPage(next string, pods ...string) []byte {
	var b strings.Builder
	b.WriteString(`<html><body><section><ol class="row">`)
	for _, pod := range pods {
		b.WriteString("<li>" + pod + "</li>")
	}
	b.WriteString(`</ol><div><ul class="pager"><li class="current">Page 1</li>`)
	if next != "" {
		fmt.Fprintf(&b, `<li class="next"><a href="%s">next</a></li>`, next)
	}
	b.WriteString(`</ul></div></section></body></html>`)
	return []byte(b.String())
}

func TestParseListingExtractsEveryEntry(t *testing.T) {
	pods := make([]string, 0, 20)
	for i := 1; i <= 20; i++ {
		pods = append(pods, productPod(
			fmt.Sprintf("Book %d", i),
			fmt.Sprintf("../../../book-%d_%d/index.html", i, i),
			fmt.Sprintf("£%d.50", i),
			"Two",
		))
	}

	listing, err := ParseListing(listingPage("page-2.html", pods...), pageURL)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(listing.Books) != 20 {
		t.Fatalf("books=%d, want 20 (rejected=%v)", len(listing.Books), listing.Rejected)
	}
	for i, book := range listing.Books {
		if book.Title == "" {
			t.Fatalf("book %d has empty title", i)
		}
		link, err := url.Parse(book.ProductPageLink)
		if err != nil || !link.IsAbs() {
			t.Fatalf("book %d link %q not absolute", i, book.ProductPageLink)
		}
		if book.PublisherCountry != "" {
			t.Fatalf("book %d should not carry a country yet", i)
		}
	}

	first := listing.Books[0]
	if first.ProductPageLink != "http://example.test/catalogue/book-1_1/index.html" {
		t.Fatalf("link=%q", first.ProductPageLink)
	}
	if first.Price != "£1.50" {
		t.Fatalf("price=%q, want currency preserved", first.Price)
	}
	if first.Availability != "In stock" {
		t.Fatalf("availability=%q", first.Availability)
	}
	if first.StarRating != 2 {
		t.Fatalf("rating=%d, want 2", first.StarRating)
	}
	if listing.NextURL != "http://example.test/catalogue/category/books/travel_2/page-2.html" {
		t.Fatalf("next=%q", listing.NextURL)
	}
}

func TestParseListingRatingLabels(t *testing.T) {
	labels := map[string]int{"One": 1, "Two": 2, "Three": 3, "Four": 4, "Five": 5, "Six": 0, "": 0}
	for label, want := range labels {
		page := listingPage("", productPod("Rated", "rated/index.html", "£1.00", label))
		listing, err := ParseListing(page, pageURL)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if len(listing.Books) != 1 {
			t.Fatalf("label %q: books=%d", label, len(listing.Books))
		}
		if got := listing.Books[0].StarRating; got != want {
			t.Fatalf("label %q: rating=%d, want %d", label, got, want)
		}
	}
}

func TestParseListingMissingRatingElement(t *testing.T) {
	page := []byte(`<html><body>
<article class="product_pod">
  <h3><a href="plain/index.html" title="Plain">Plain</a></h3>
  <p class="price_color">£3.00</p>
  <p class="availability">In stock</p>
</article></body></html>`)

	listing, err := ParseListing(page, pageURL)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(listing.Books) != 1 || listing.Books[0].StarRating != 0 {
		t.Fatalf("expected one book rated 0, got %+v", listing.Books)
	}
}

func TestParseListingLastPage(t *testing.T) {
	listing, err := ParseListing(listingPage("", productPod("Only", "only/index.html", "£2.00", "One")), pageURL)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if listing.NextURL != "" {
		t.Fatalf("next=%q, want empty", listing.NextURL)
	}
}

func TestParseListingSkipsMalformedEntries(t *testing.T) {
	noTitle := `<article class="product_pod"><p class="price_color">£1.00</p></article>`
	noPrice := `<article class="product_pod"><h3><a href="x/index.html" title="No Price">No Price</a></h3><p class="availability">In stock</p></article>`
	good := productPod("Good", "good/index.html", "£9.99", "Five")

	listing, err := ParseListing(listingPage("", noTitle, good, noPrice), pageURL)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(listing.Books) != 1 || listing.Books[0].Title != "Good" {
		t.Fatalf("books=%+v, want only Good", listing.Books)
	}
	if len(listing.Rejected) != 2 {
		t.Fatalf("rejected=%d, want 2", len(listing.Rejected))
	}
	if !strings.Contains(listing.Rejected[0].Error(), "entry 1") {
		t.Fatalf("rejected[0]=%v", listing.Rejected[0])
	}
}

func TestParseListingNonASCIITitle(t *testing.T) {
	page := listingPage("", productPod("Voyage à Paris", "voyage/index.html", "£12.00", "Three"))
	listing, err := ParseListing(page, pageURL)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := listing.Books[0].Title; got != "Voyage à Paris" {
		t.Fatalf("title=%q", got)
	}
}

func TestParseListingRejectsRelativePageURL(t *testing.T) {
	if _, err := ParseListing(listingPage(""), "catalogue/index.html"); err == nil {
		t.Fatalf("expected error for relative page url")
	}
}
