package crawler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"catalog-crawl/internal/httpx"
)

// fakeCatalog serves listing feeds and search results from memory.
type fakeCatalog struct {
	t *testing.T

	mu sync.Mutex
	// feeds maps unit code to its pages of course lines. Pages past the end are empty.
	feeds map[string][][]string
	// details maps "query|term" (query as decoded by net/url) to a result page.
	details map[string]string
	// failures maps a request key to the number of 503s to answer before serving it.
	failures map[string]int
	hits     map[string]int

	srv *httptest.Server
}

func newFakeCatalog(t *testing.T) *fakeCatalog {
	t.Helper()
	c := &fakeCatalog{
		t:        t,
		feeds:    map[string][][]string{},
		details:  map[string]string{},
		failures: map[string]int{},
		hits:     map[string]int{},
	}
	c.srv = httptest.NewServer(http.HandlerFunc(c.serve))
	t.Cleanup(c.srv.Close)
	return c
}

func (c *fakeCatalog) endpoints() Endpoints {
	return Endpoints{BaseURL: c.srv.URL, SearchURL: c.srv.URL + "/search"}
}

func (c *fakeCatalog) serve(w http.ResponseWriter, r *http.Request) {
	key := requestKey(r)

	c.mu.Lock()
	c.hits[key]++
	fail := c.failures[key] > 0
	if fail {
		c.failures[key]--
	}
	c.mu.Unlock()

	if fail {
		w.Header().Set("Retry-After", "0")
		http.Error(w, "try again", http.StatusServiceUnavailable)
		return
	}

	if r.URL.Path == "/search" {
		q := r.URL.Query()
		page, ok := c.details[q.Get("search_adv_all")+"|"+q.Get("yearsem_adv")]
		if !ok {
			page = noResultsPage
		}
		_, _ = w.Write([]byte(page))
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[0] != "academics" || parts[2] != "courses" {
		http.NotFound(w, r)
		return
	}
	n, err := strconv.Atoi(parts[3])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	var lines []string
	if pages := c.feeds[parts[1]]; n < len(pages) {
		lines = pages[n]
	}
	_, _ = w.Write([]byte(listingPage(lines...)))
}

func requestKey(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return r.URL.Path
	}
	return r.URL.Path + "?" + r.URL.RawQuery
}

func (c *fakeCatalog) hitCount(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits[path]
}

func (c *fakeCatalog) searchHits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, v := range c.hits {
		if strings.HasPrefix(k, "/search") {
			n += v
		}
	}
	return n
}

// listingPage renders a course feed. Entries are newline separated, as on the live site.
func listingPage(lines ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><h1>Courses</h1>\n<ul class=\"course-feed\">\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "<li><a href=\"#\"><strong>%s</strong></a></li>\n", l)
	}
	b.WriteString("</ul>\n</body></html>")
	return b.String()
}

func resultPage(prereq, coreq, description, credit string, tags ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>\n<ul class=\"coursearch-result-hub-list\">\n")
	for _, t := range tags {
		fmt.Fprintf(&b, "<li>%s</li>\n", t)
	}
	b.WriteString("</ul>\n<div class=\"coursearch-result-content-description\">")
	fmt.Fprintf(&b, "Prereq:\n%s\nCoreq:\n%s\n\n%s\n%s\n</div>\n</body></html>", prereq, coreq, description, credit)
	return b.String()
}

const noResultsPage = `<html><body><p class="coursearch-noresults">No courses found.</p></body></html>`

func testRetry() httpx.RetryConfig {
	cfg := httpx.DefaultRetryConfig()
	cfg.MaxAttempts = 3
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	return cfg
}

func fixedClock(year int, month time.Month) func() time.Time {
	return func() time.Time { return time.Date(year, month, 15, 12, 0, 0, 0, time.UTC) }
}
