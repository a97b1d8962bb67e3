package domain

import (
	"sort"
	"testing"
)

func TestNewCourseIdentifier(t *testing.T) {
	testCases := []struct {
		input    string
		expected CourseIdentifier
	}{
		{"CAS CS 111", "cascs111"},
		{"  ENG EK 125 ", "engek125"},
		{"cs111", "cs111"},
		{"", ""},
	}

	for _, tc := range testCases {
		result := NewCourseIdentifier(tc.input)
		if result != tc.expected {
			t.Errorf("NewCourseIdentifier(%q) = %q, want %q", tc.input, result, tc.expected)
		}
	}
}

func TestCreditString(t *testing.T) {
	if got := FixedCredit(4).String(); got != "4" {
		t.Errorf("Expected '4', got %q", got)
	}
	if got := VariableCredit().String(); got != "var" {
		t.Errorf("Expected 'var', got %q", got)
	}
	if !VariableCredit().IsVariable() {
		t.Error("Expected VariableCredit to report IsVariable")
	}
	if FixedCredit(0).IsVariable() {
		t.Error("Expected FixedCredit not to report IsVariable")
	}
}

func TestCourseRecordsSort(t *testing.T) {
	recs := CourseRecords{{Identifier: "engek125"}, {Identifier: "cascs111"}, {Identifier: "cascs112"}}
	sort.Sort(recs)

	expected := []CourseIdentifier{"cascs111", "cascs112", "engek125"}
	for i, r := range recs {
		if r.Identifier != expected[i] {
			t.Errorf("Expected %s at index %d, got %s", expected[i], i, r.Identifier)
		}
	}
}

func TestDeref(t *testing.T) {
	s := "text"
	if Deref(&s) != "text" {
		t.Errorf("Expected 'text', got %q", Deref(&s))
	}
	if Deref(nil) != "" {
		t.Errorf("Expected empty string for nil, got %q", Deref(nil))
	}
}
