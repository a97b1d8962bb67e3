package domain

import (
	"fmt"
	"sort"
	"strings"
)

// AcademicUnit is a school or college with its own course-listing feed.
type AcademicUnit struct {
	Code string
	Name string
}

// UnitTable is the read-only code -> display name reference table.
// Build it once at startup and pass it where it is needed.
type UnitTable struct {
	units  []AcademicUnit
	byCode map[string]AcademicUnit
}

// NewUnitTable copies units into an immutable table. Codes are lowercased; duplicates are rejected.
func NewUnitTable(units []AcademicUnit) (UnitTable, error) {
	t := UnitTable{
		units:  make([]AcademicUnit, 0, len(units)),
		byCode: make(map[string]AcademicUnit, len(units)),
	}
	for _, u := range units {
		code := strings.ToLower(strings.TrimSpace(u.Code))
		if code == "" {
			return UnitTable{}, fmt.Errorf("unit table: empty code for %q", u.Name)
		}
		if _, dup := t.byCode[code]; dup {
			return UnitTable{}, fmt.Errorf("unit table: duplicate code %q", code)
		}
		u.Code = code
		t.units = append(t.units, u)
		t.byCode[code] = u
	}
	return t, nil
}

// Units returns the units in table order. The slice is a copy.
func (t UnitTable) Units() []AcademicUnit {
	out := make([]AcademicUnit, len(t.units))
	copy(out, t.units)
	return out
}

func (t UnitTable) Len() int { return len(t.units) }

// Lookup finds a unit by code (case-insensitive).
func (t UnitTable) Lookup(code string) (AcademicUnit, bool) {
	u, ok := t.byCode[strings.ToLower(strings.TrimSpace(code))]
	return u, ok
}

// DisplayName returns the unit name, or the code itself for unknown codes.
func (t UnitTable) DisplayName(code string) string {
	if u, ok := t.Lookup(code); ok {
		return u.Name
	}
	return code
}

// Subset returns a table restricted to codes, in the order given.
// Unknown codes are reported together in one error.
func (t UnitTable) Subset(codes []string) (UnitTable, error) {
	if len(codes) == 0 {
		return t, nil
	}
	var picked []AcademicUnit
	var unknown []string
	for _, c := range codes {
		u, ok := t.Lookup(c)
		if !ok {
			unknown = append(unknown, c)
			continue
		}
		picked = append(picked, u)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return UnitTable{}, fmt.Errorf("unknown unit codes: %s", strings.Join(unknown, ", "))
	}
	return NewUnitTable(picked)
}

// DefaultUnits is the academic-unit table of the catalog the crawler was written against.
func DefaultUnits() []AcademicUnit {
	return []AcademicUnit{
		{Code: "khc", Name: "Kilachand Honors College"},
		{Code: "busm", Name: "Chobanian & Avedisian School of Medicine"},
		{Code: "cas", Name: "College of Arts and Sciences"},
		{Code: "com", Name: "College of Communication"},
		{Code: "eng", Name: "College of Engineering"},
		{Code: "cfa", Name: "College of Fine Arts"},
		{Code: "cgs", Name: "College of General Studies"},
		{Code: "sar", Name: "College of Health & Rehabilitation Sciences: Sargent College"},
		{Code: "cds", Name: "Faculty of Computing & Data Sciences"},
		{Code: "gms", Name: "Graduate Medical Sciences"},
		{Code: "grs", Name: "Graduate School of Arts & Sciences"},
		{Code: "sdm", Name: "Henry M. Goldman School of Dental Medicine"},
		{Code: "met", Name: "Metropolitan College"},
		{Code: "questrom", Name: "Questrom School of Business"},
		{Code: "sha", Name: "School of Hospitality Administration"},
		{Code: "law", Name: "School of Law"},
		{Code: "sph", Name: "School of Public Health"},
		{Code: "ssw", Name: "School of Social Work"},
		{Code: "sth", Name: "School of Theology"},
		{Code: "wheelock", Name: "Wheelock College of Education & Human Development"},
	}
}
