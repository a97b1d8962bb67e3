// Package export delivers the records of a finished crawl to files, databases
// and warehouses.
package export

import (
	"context"
	"fmt"
	"strings"

	"catalog-crawl/internal/domain"
)

// Sink receives every record of one crawl in a single call.
type Sink interface {
	Write(ctx context.Context, records []domain.CourseRecord) error
}

// FileSink is a Sink that produces one local file.
type FileSink interface {
	Sink
	Path() string
}

// Column order of every tabular export. Keep it EXACT: downstream loads match by position.
var header = []string{
	"identifier",
	"prerequisite",
	"corequisite",
	"description",
	"credit",
	"requirement_tags",
}

const tagSeparator = " | "

func toRow(r domain.CourseRecord) []string {
	return []string{
		r.Identifier.String(),
		domain.Deref(r.Prerequisite),
		domain.Deref(r.Corequisite),
		domain.Deref(r.Description),
		creditString(r.Credit),
		joinTags(r.RequirementTags),
	}
}

func creditString(c *domain.Credit) string {
	if c == nil {
		return ""
	}
	return c.String()
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		// keep one tag per slot
		t = strings.ReplaceAll(t, "\n", " ")
		t = strings.ReplaceAll(t, "\r", " ")
		clean = append(clean, t)
	}
	return strings.Join(clean, tagSeparator)
}

// New picks a sink by name. Database and warehouse sinks are built by their own
// constructors since they need connections.
func New(kind, path string) (FileSink, error) {
	switch strings.ToLower(kind) {
	case "csv":
		return CSVSink{File: path}, nil
	case "json":
		return JSONSink{File: path}, nil
	case "xlsx":
		return XLSXSink{File: path}, nil
	default:
		return nil, fmt.Errorf("export: unknown file sink %q", kind)
	}
}
