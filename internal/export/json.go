package export

import (
	"context"
	"encoding/json"
	"io"

	"catalog-crawl/internal/domain"
)

// jsonCourse is one value of the identifier-keyed JSON export.
// Absent fields are null; credit is a number or "var".
type jsonCourse struct {
	Prereq      *string  `json:"prereq"`
	Coreq       *string  `json:"coreq"`
	Description *string  `json:"description"`
	Credit      any      `json:"credit"`
	HubCredit   []string `json:"hub_credit"`
}

// WriteJSON writes one indented object mapping identifier to course fields.
// encoding/json sorts map keys, so output is stable across runs.
func WriteJSON(w io.Writer, records []domain.CourseRecord) error {
	out := make(map[string]jsonCourse, len(records))
	for _, r := range records {
		out[r.Identifier.String()] = jsonCourse{
			Prereq:      r.Prerequisite,
			Coreq:       r.Corequisite,
			Description: r.Description,
			Credit:      jsonCredit(r.Credit),
			HubCredit:   r.RequirementTags,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(out)
}

func jsonCredit(c *domain.Credit) any {
	switch {
	case c == nil:
		return nil
	case c.IsVariable():
		return c.String()
	default:
		return c.Count
	}
}

// JSONSink writes records to a JSON file, replacing it.
type JSONSink struct {
	File string
}

func (s JSONSink) Path() string { return s.File }

func (s JSONSink) Write(_ context.Context, records []domain.CourseRecord) error {
	return writeFile(s.File, func(w io.Writer) error { return WriteJSON(w, records) })
}
