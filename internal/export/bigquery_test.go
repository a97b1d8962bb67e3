package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encodeRows(&buf, sampleRecords()))

	var lines []map[string]any
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.NoError(t, sc.Err())
	require.Len(t, lines, 3)

	assert.Equal(t, "cascs111", lines[0]["identifier"])
	assert.Equal(t, "CAS CS 101", lines[0]["prerequisite"])
	assert.Nil(t, lines[0]["corequisite"])
	assert.Equal(t, "4", lines[0]["credit"])
	assert.Equal(t, []any{"Quantitative Reasoning II", "Creativity/Innovation"}, lines[0]["requirement_tags"])

	assert.Equal(t, "var", lines[1]["credit"])
	assert.Equal(t, []any{}, lines[2]["requirement_tags"], "repeated fields are never null")
}

func TestBigQuerySchemaMatchesRows(t *testing.T) {
	names := make([]string, len(bigQuerySchema))
	for i, f := range bigQuerySchema {
		names[i] = f.Name
	}
	assert.Equal(t, header, names, "warehouse columns follow the tabular export")
	assert.True(t, bigQuerySchema[0].Required)
	assert.True(t, bigQuerySchema[5].Repeated)
	for _, f := range bigQuerySchema {
		assert.Equal(t, bigquery.StringFieldType, f.Type, f.Name)
	}
}
