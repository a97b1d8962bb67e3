package domain

import (
	"strconv"
	"strings"
)

// CourseIdentifier is the normalized key of a course inside one crawl:
// unit + department + number, lowercased, with all whitespace removed.
type CourseIdentifier string

// NewCourseIdentifier normalizes a raw listing token ("CAS CS 111") into an identifier ("cascs111").
func NewCourseIdentifier(raw string) CourseIdentifier {
	return CourseIdentifier(strings.ToLower(strings.Join(strings.Fields(raw), "")))
}

func (id CourseIdentifier) String() string { return string(id) }

// CreditKind tells a fixed credit count apart from the "variable credit" sentinel.
type CreditKind int

const (
	CreditCount CreditKind = iota
	CreditVariable
)

// Credit is the parsed credit value of a course. A missing credit is a nil *Credit.
type Credit struct {
	Kind  CreditKind
	Count int
}

// VariableCredit is the sentinel for courses whose credit line says "var".
func VariableCredit() Credit { return Credit{Kind: CreditVariable} }

// FixedCredit returns a count credit.
func FixedCredit(n int) Credit { return Credit{Kind: CreditCount, Count: n} }

func (c Credit) IsVariable() bool { return c.Kind == CreditVariable }

// String renders the credit the way exports store it: the count, or "var".
func (c Credit) String() string {
	if c.IsVariable() {
		return "var"
	}
	return strconv.Itoa(c.Count)
}

// CourseRecord is the canonical output unit of a crawl.
// Optional fields are nil when absent; an empty string or empty slice is never stored.
type CourseRecord struct {
	Identifier      CourseIdentifier
	Prerequisite    *string
	Corequisite     *string
	Description     *string
	Credit          *Credit
	RequirementTags []string
}

// CourseRecords sorts records by identifier.
type CourseRecords []CourseRecord

func (r CourseRecords) Len() int           { return len(r) }
func (r CourseRecords) Less(i, j int) bool { return r[i].Identifier < r[j].Identifier }
func (r CourseRecords) Swap(i, j int)      { r[i], r[j] = r[j], r[i] }

// Deref returns the pointed-to string or "" for nil. Meant for exporters.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
