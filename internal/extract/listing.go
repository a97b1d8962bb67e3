package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"catalog-crawl/internal/domain"
)

const courseFeedSelector = "ul.course-feed"

// ParseListing reads the course identifiers of one listing page.
// end is true when the page carries no course feed, or an empty one: the unit has no more pages.
//
// Entries are read the way the feed is laid out: every child node of the feed is a marker
// and the course line is its next sibling. Blank siblings are layout whitespace.
func ParseListing(doc *goquery.Document) (ids []domain.CourseIdentifier, end bool) {
	feed := doc.Find(courseFeedSelector).First()
	if feed.Length() == 0 || strings.TrimSpace(feed.Text()) == "" {
		return nil, true
	}

	for _, n := range feed.Contents().Nodes {
		sib := n.NextSibling
		if sib == nil {
			continue
		}
		text := goquery.NewDocumentFromNode(sib).Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		code, _, _ := strings.Cut(text, ":")
		id := domain.NewCourseIdentifier(code)
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	return ids, false
}
