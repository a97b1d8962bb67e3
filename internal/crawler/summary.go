package crawler

import (
	"time"

	"catalog-crawl/internal/domain"
)

// DiagnosticKind names a non-fatal problem met during a run.
type DiagnosticKind string

const (
	UnitIncomplete   DiagnosticKind = "unit-incomplete"
	PageLimitReached DiagnosticKind = "page-limit-reached"
	CourseFailed     DiagnosticKind = "course-failed"
)

// Diagnostic is one non-fatal problem. Subject is a unit code or a course identifier.
type Diagnostic struct {
	Kind    DiagnosticKind
	Subject string
	Err     error
}

// Summary describes a finished (or aborted) run.
type Summary struct {
	Units            int
	UnitsIncomplete  int
	UnitsPageLimited int
	Pages            int

	IdentifiersSeen int
	Duplicates      int
	Unique          int

	Resolved         int
	ResolvedFallback int
	NotFound         int
	Failed           int

	Records  int
	Duration time.Duration

	Diagnostics []Diagnostic
}

// Dedup merges unit results into one identifier list, keeping the first
// occurrence in unit order and page order.
func Dedup(results []UnitResult) (ids []domain.CourseIdentifier, duplicates int) {
	seen := make(map[domain.CourseIdentifier]struct{})
	for _, r := range results {
		for _, id := range r.Identifiers {
			if _, ok := seen[id]; ok {
				duplicates++
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids, duplicates
}

func (s *Summary) addUnit(r UnitResult) {
	s.Units++
	s.Pages += r.Pages
	s.IdentifiersSeen += len(r.Identifiers)
	if r.Err != nil {
		s.UnitsIncomplete++
		s.Diagnostics = append(s.Diagnostics, Diagnostic{Kind: UnitIncomplete, Subject: r.Unit.Code, Err: r.Err})
	}
	if r.PageLimitReached {
		s.UnitsPageLimited++
		s.Diagnostics = append(s.Diagnostics, Diagnostic{Kind: PageLimitReached, Subject: r.Unit.Code})
	}
}

func (s *Summary) addCourse(r CourseResult) {
	switch r.Outcome {
	case Resolved:
		s.Resolved++
	case ResolvedFallback:
		s.ResolvedFallback++
	case NotFound:
		s.NotFound++
	case Failed:
		s.Failed++
		s.Diagnostics = append(s.Diagnostics, Diagnostic{Kind: CourseFailed, Subject: r.Identifier.String(), Err: r.Err})
	}
}
