package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-crawl/internal/domain"
)

func TestCollapseWhitespace(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"one two", "one two"},
		{"one  two", "one two"},
		{"one     two   three", "one two three"},
		{"  leading and trailing  ", " leading and trailing "},
		{"tabs\t\tstay", "tabs\t\tstay"},
	}

	for _, tc := range testCases {
		result := CollapseWhitespace(tc.input)
		if result != tc.expected {
			t.Errorf("CollapseWhitespace(%q) = %q, want %q", tc.input, result, tc.expected)
		}
	}
}

func FuzzCollapseWhitespace(f *testing.F) {
	for _, seed := range []string{"", " ", "  ", "a   b", "     x     y     ", "a \t  b"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		once := CollapseWhitespace(s)
		if strings.Contains(once, "  ") {
			t.Fatalf("CollapseWhitespace(%q) = %q still has a double space", s, once)
		}
		if twice := CollapseWhitespace(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}

func TestStripLabel(t *testing.T) {
	testCases := []struct {
		input    string
		label    string
		expected string
	}{
		{"Prereq: CAS CS 111", PrereqLabel, " CAS CS 111"},
		{"CAS CS 111", PrereqLabel, "CAS CS 111"},
		{"Coreq: CAS MA 123", CoreqLabel, " CAS MA 123"},
		{"Prereq:", PrereqLabel, ""},
		{"PrePrereq:req: x", PrereqLabel, " x"},
		{"Prereq: CAS CS 111; Prereq: CAS CS 112", PrereqLabel, " CAS CS 111;  CAS CS 112"},
		{"anything", "", "anything"},
	}

	for _, tc := range testCases {
		result := StripLabel(tc.input, tc.label)
		if result != tc.expected {
			t.Errorf("StripLabel(%q, %q) = %q, want %q", tc.input, tc.label, result, tc.expected)
		}
		if again := StripLabel(result, tc.label); again != result {
			t.Errorf("StripLabel not idempotent for %q: %q -> %q", tc.input, result, again)
		}
	}
}

func TestExtractNumericCredit(t *testing.T) {
	c, ok := ExtractNumericCredit("4 credits")
	require.True(t, ok)
	assert.Equal(t, "4", c.String())
	assert.Equal(t, domain.FixedCredit(4), c)

	c, ok = ExtractNumericCredit("Variable, 1-4 cr")
	require.True(t, ok)
	assert.True(t, c.IsVariable())

	c, ok = ExtractNumericCredit("VAR")
	require.True(t, ok)
	assert.True(t, c.IsVariable())

	_, ok = ExtractNumericCredit("")
	assert.False(t, ok)

	_, ok = ExtractNumericCredit("credits")
	assert.False(t, ok)

	c, ok = ExtractNumericCredit("[4 cr.]*")
	require.True(t, ok)
	assert.Equal(t, 4, c.Count)

	_, ok = ExtractNumericCredit(strings.Repeat("9", 40))
	assert.False(t, ok, "overflowing digit runs are treated as absent")
}

func TestExtractNumericCreditIdempotentOnRendering(t *testing.T) {
	for _, in := range []string{"4 credits", "var", "12", "Variable"} {
		c, ok := ExtractNumericCredit(in)
		require.True(t, ok, in)
		again, ok := ExtractNumericCredit(c.String())
		require.True(t, ok, in)
		assert.Equal(t, c, again, in)
	}
}

func TestNormalizeField(t *testing.T) {
	assert.Nil(t, NormalizeField(""))
	assert.Nil(t, NormalizeField("   "))
	assert.Nil(t, NormalizeField(" . "))
	assert.Nil(t, NormalizeField("x"))
	assert.Nil(t, NormalizeField("  x  "))

	got := NormalizeField("  xy  ")
	require.NotNil(t, got)
	assert.Equal(t, "xy", *got)

	got = NormalizeField("é!")
	require.NotNil(t, got)
	assert.Equal(t, "é!", *got)
}

func TestNormalizeFieldIdempotent(t *testing.T) {
	for _, in := range []string{"", " a ", "  ab  ", "\tCAS CS 111\n", "x"} {
		once := NormalizeField(in)
		if once == nil {
			continue
		}
		twice := NormalizeField(*once)
		require.NotNil(t, twice, in)
		assert.Equal(t, *once, *twice, in)
	}
}

func TestNormalizeTags(t *testing.T) {
	assert.Nil(t, NormalizeTags(nil))
	assert.Nil(t, NormalizeTags([]string{}))
	assert.Nil(t, NormalizeTags([]string{"Part of a Hub sequence"}))

	tags := []string{"Critical Thinking", "x"}
	got := NormalizeTags(tags)
	assert.Equal(t, []string{"Critical Thinking", "x"}, got, "single-character tags are not dropped")

	got[0] = "changed"
	assert.Equal(t, "Critical Thinking", tags[0], "input slice is not aliased")

	assert.Equal(t,
		[]string{"Part of a Hub sequence", "Writing"},
		NormalizeTags([]string{"Part of a Hub sequence", "Writing"}))
}

func TestClean(t *testing.T) {
	raw := RawDetail{
		Prerequisite:    "Prereq: CAS CS 111",
		Corequisite:     "Coreq:",
		Description:     "  Intro   to    algorithms.  ",
		Credit:          "4 credits",
		RequirementTags: []string{"Quantitative Reasoning I"},
	}

	rec := Clean("cascs112", raw)

	assert.Equal(t, domain.CourseIdentifier("cascs112"), rec.Identifier)
	require.NotNil(t, rec.Prerequisite)
	assert.Equal(t, "CAS CS 111", *rec.Prerequisite)
	assert.Nil(t, rec.Corequisite)
	require.NotNil(t, rec.Description)
	assert.Equal(t, "Intro to algorithms.", *rec.Description)
	require.NotNil(t, rec.Credit)
	assert.Equal(t, "4", rec.Credit.String())
	assert.Equal(t, []string{"Quantitative Reasoning I"}, rec.RequirementTags)
}

func TestCleanAllAbsent(t *testing.T) {
	rec := Clean("cascs999", RawDetail{
		Prerequisite:    "Prereq: ",
		Corequisite:     "",
		Description:     " ",
		Credit:          "n/a",
		RequirementTags: []string{"Part of a Hub sequence"},
	})

	assert.Nil(t, rec.Prerequisite)
	assert.Nil(t, rec.Corequisite)
	assert.Nil(t, rec.Description)
	assert.Nil(t, rec.Credit)
	assert.Nil(t, rec.RequirementTags)
}
