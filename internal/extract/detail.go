package extract

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	hubListSelector     = "ul.coursearch-result-hub-list"
	descriptionSelector = "div.coursearch-result-content-description"

	// DefaultUniversityToken is the boilerplate suffix the catalog appends to pathway tags.
	DefaultUniversityToken = "BU"
)

// Line offsets inside the description container. The search result template renders
// labels and values on alternating lines:
//
//	0: "Prereq" heading   1: prerequisite text
//	2: "Coreq" heading    3: corequisite text
//	4: blank              5: description
//	6: credit line
//
// A template that deviates is reported as ErrMalformedDetail rather than guessed at.
const (
	prereqLine      = 1
	coreqLine       = 3
	descriptionLine = 5
	creditLine      = 6
	minDetailLines  = creditLine + 1
)

var (
	// ErrNotFound means the query did not resolve to a course.
	ErrNotFound = errors.New("extract: course not found")

	// ErrMalformedDetail is a result page with too few description lines. It matches ErrNotFound.
	ErrMalformedDetail = fmt.Errorf("%w: malformed detail page", ErrNotFound)
)

var markupTag = regexp.MustCompile(`<[^>]+>`)

// RawDetail is the uncleaned field set of one detail page.
type RawDetail struct {
	Prerequisite    string
	Corequisite     string
	Description     string
	Credit          string
	RequirementTags []string
}

// ParseDetail reads one course search result page. universityToken is where pathway tags
// get cut; an empty token disables the cut.
func ParseDetail(doc *goquery.Document, universityToken string) (RawDetail, error) {
	var raw RawDetail

	if hub := doc.Find(hubListSelector).First(); hub.Length() > 0 {
		markup, err := goquery.OuterHtml(hub)
		if err == nil {
			raw.RequirementTags = SplitTagList(markup, universityToken)
		}
	}

	desc := doc.Find(descriptionSelector).First()
	if desc.Length() == 0 {
		return RawDetail{}, ErrNotFound
	}

	lines := splitLines(desc.Text())
	if len(lines) < minDetailLines {
		return RawDetail{}, fmt.Errorf("%w: %d lines", ErrMalformedDetail, len(lines))
	}

	raw.Prerequisite = lines[prereqLine]
	raw.Corequisite = lines[coreqLine]
	raw.Description = lines[descriptionLine]
	raw.Credit = lines[creditLine]
	return raw, nil
}

// SplitTagList turns the markup of a tag list into tag labels. The list is cut on "<li>",
// every tag is stripped with a blunt pattern and entities are decoded; empty entries are dropped.
// When the last entry mentions a pathway, everything from universityToken on is removed.
func SplitTagList(markup, universityToken string) []string {
	var tags []string
	for _, part := range strings.Split(markup, "<li>") {
		tag := strings.TrimSpace(html.UnescapeString(markupTag.ReplaceAllString(part, "")))
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	if n := len(tags); n > 0 && universityToken != "" {
		last := tags[n-1]
		if strings.Contains(strings.ToLower(last), "pathway") {
			last, _, _ = strings.Cut(last, universityToken)
			last = strings.TrimSpace(last)
			if last == "" {
				tags = tags[:n-1]
			} else {
				tags[n-1] = last
			}
		}
	}
	return tags
}

// splitLines splits on any line break without producing a trailing empty line.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
