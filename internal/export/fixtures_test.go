package export

import "catalog-crawl/internal/domain"

func strPtr(s string) *string { return &s }

func creditPtr(c domain.Credit) *domain.Credit { return &c }

// sampleRecords covers a full record, a variable-credit record and a bare one.
func sampleRecords() []domain.CourseRecord {
	return []domain.CourseRecord{
		{
			Identifier:      "cascs111",
			Prerequisite:    strPtr("CAS CS 101"),
			Description:     strPtr("Introduction to computer science, with \"quotes\"."),
			Credit:          creditPtr(domain.FixedCredit(4)),
			RequirementTags: []string{"Quantitative Reasoning II", "Creativity/Innovation"},
		},
		{
			Identifier:  "cascs112",
			Corequisite: strPtr("CAS MA 123"),
			Credit:      creditPtr(domain.VariableCredit()),
		},
		{Identifier: "engek125"},
	}
}
