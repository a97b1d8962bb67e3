// Package crawler walks a course catalog in two phases: unit listing feeds first,
// then one detail lookup per distinct course identifier.
package crawler

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"catalog-crawl/internal/domain"
	"catalog-crawl/internal/httpx"
)

// Fetcher retrieves and parses one page. *httpx.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (*goquery.Document, error)
}

// AllTerms is the term filter matching every semester.
const AllTerms = "*"

// DefaultPageLimit caps how many listing pages are read per unit.
const DefaultPageLimit = 200

// Endpoints locates the two kinds of catalog pages.
type Endpoints struct {
	// BaseURL hosts the listing feeds: {BaseURL}/academics/{unit}/courses/{page}.
	BaseURL string
	// SearchURL is the course search form target used for detail lookups.
	SearchURL string
}

// ListingURL is page p (0-based) of a unit's course feed.
func (e Endpoints) ListingURL(unitCode string, page int) string {
	return fmt.Sprintf("%s/academics/%s/courses/%d", strings.TrimRight(e.BaseURL, "/"), url.PathEscape(unitCode), page)
}

// DetailURL is the search result page for one identifier in one term.
// The query is assembled by hand: '+' separators and the '*' wildcard must reach
// the server verbatim.
func (e Endpoints) DetailURL(id domain.CourseIdentifier, term string) string {
	if term != AllTerms {
		term = url.QueryEscape(term)
	}
	return e.SearchURL + "?page=w0&pagesize=10&adv=1&search_adv_all=" + IdentifierQuery(id) + "&yearsem_adv=" + term
}

var identifierShape = regexp.MustCompile(`^([a-z]{3})([a-z]{2})(\w+)$`)

// IdentifierQuery renders an identifier the way the search form expects it:
// "cascs111" becomes "cas+cs+111". Identifiers of any other shape are sent escaped as-is.
func IdentifierQuery(id domain.CourseIdentifier) string {
	m := identifierShape.FindStringSubmatch(string(id))
	if m == nil {
		return url.QueryEscape(string(id))
	}
	return m[1] + "+" + m[2] + "+" + m[3]
}

// CurrentTerm is the semester the catalog most likely lists for now:
// fall after June, spring otherwise.
func CurrentTerm(now time.Time) string {
	if now.Month() > time.June {
		return fmt.Sprintf("%d-FALL", now.Year())
	}
	return fmt.Sprintf("%d-SPRG", now.Year())
}

// fetch wraps one GET in the retry policy.
func fetch(ctx context.Context, f Fetcher, retry httpx.RetryConfig, rawURL string) (*goquery.Document, error) {
	var doc *goquery.Document
	err := httpx.Do(ctx, retry, func(ctx context.Context) error {
		d, err := f.Get(ctx, rawURL)
		if err != nil {
			return err
		}
		doc = d
		return nil
	})
	return doc, err
}
