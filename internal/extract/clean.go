package extract

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"catalog-crawl/internal/domain"
)

const (
	PrereqLabel = "Prereq:"
	CoreqLabel  = "Coreq:"

	// hubSequencePlaceholder is what the catalog shows when a course has no real tags.
	hubSequencePlaceholder = "Part of a Hub sequence"
)

// CollapseWhitespace merges runs of two or more spaces into one until none are left.
func CollapseWhitespace(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}

// StripLabel removes every occurrence of the label token from s, not only the first:
// catalog pages sometimes repeat "Prereq:" inside the field. Removal repeats until the
// label no longer occurs, so stripping an already stripped string is a no-op.
func StripLabel(s, label string) string {
	if label == "" {
		return s
	}
	for strings.Contains(s, label) {
		s = strings.ReplaceAll(s, label, "")
	}
	return s
}

// ExtractNumericCredit reads a credit line. Anything mentioning "var" is variable credit;
// otherwise every ASCII digit is concatenated and the rest ignored ("4 credits" -> 4).
// ok is false when there is nothing usable.
func ExtractNumericCredit(s string) (domain.Credit, bool) {
	if strings.Contains(strings.ToLower(s), "var") {
		return domain.VariableCredit(), true
	}

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return domain.Credit{}, false
	}

	n, err := strconv.Atoi(b.String())
	if err != nil {
		// more digits than an int holds
		return domain.Credit{}, false
	}
	return domain.FixedCredit(n), true
}

// NormalizeField trims v and reports absent values as nil: empty strings and
// one-character leftovers of markup stripping.
func NormalizeField(v string) *string {
	if v == "" {
		return nil
	}
	s := strings.TrimSpace(v)
	if utf8.RuneCountInString(s) <= 1 {
		return nil
	}
	return &s
}

// NormalizeTags returns nil for an empty tag list or the placeholder-only list.
// Entries are kept as they are.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	if len(tags) == 1 && tags[0] == hubSequencePlaceholder {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// Clean turns a raw detail field set into a CourseRecord.
func Clean(id domain.CourseIdentifier, raw RawDetail) domain.CourseRecord {
	rec := domain.CourseRecord{
		Identifier:      id,
		Prerequisite:    NormalizeField(StripLabel(raw.Prerequisite, PrereqLabel)),
		Corequisite:     NormalizeField(StripLabel(raw.Corequisite, CoreqLabel)),
		Description:     NormalizeField(CollapseWhitespace(raw.Description)),
		RequirementTags: NormalizeTags(raw.RequirementTags),
	}
	if c, ok := ExtractNumericCredit(raw.Credit); ok {
		rec.Credit = &c
	}
	return rec
}
