package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	assert.True(t, strings.HasPrefix(buf.String(), "identifier,prerequisite,corequisite,description,credit,requirement_tags\r\n"))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{
		"cascs111", "CAS CS 101", "", "Introduction to computer science, with \"quotes\".", "4",
		"Quantitative Reasoning II | Creativity/Innovation",
	}, rows[1])
	assert.Equal(t, []string{"cascs112", "", "CAS MA 123", "", "var", ""}, rows[2])
	assert.Equal(t, []string{"engek125", "", "", "", "", ""}, rows[3])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "identifier,prerequisite,corequisite,description,credit,requirement_tags\r\n", buf.String())
}

func TestJoinTagsFlattensNewlines(t *testing.T) {
	assert.Equal(t, "", joinTags(nil))
	assert.Equal(t, "a b | c", joinTags([]string{"a\nb", "c"}))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRecords()))

	var got map[string]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)

	assert.Equal(t, "CAS CS 101", got["cascs111"]["prereq"])
	assert.Nil(t, got["cascs111"]["coreq"])
	assert.Equal(t, float64(4), got["cascs111"]["credit"])
	assert.Equal(t, []any{"Quantitative Reasoning II", "Creativity/Innovation"}, got["cascs111"]["hub_credit"])

	assert.Equal(t, "var", got["cascs112"]["credit"])
	assert.Nil(t, got["engek125"]["credit"])
	assert.Nil(t, got["engek125"]["hub_credit"])
	assert.Contains(t, got["engek125"], "description", "absent fields are written as null")

	assert.True(t, strings.Contains(buf.String(), "\n    \"cascs111\""), "indented output")
}

func TestFileSinks(t *testing.T) {
	dir := t.TempDir()

	for _, kind := range []string{"csv", "json", "xlsx"} {
		t.Run(kind, func(t *testing.T) {
			path := filepath.Join(dir, "courses."+kind)
			sink, err := New(kind, path)
			require.NoError(t, err)
			assert.Equal(t, path, sink.Path())

			require.NoError(t, sink.Write(context.Background(), sampleRecords()))
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestNewUnknownSink(t *testing.T) {
	_, err := New("parquet", "out.parquet")
	assert.Error(t, err)
}

func TestFileSinkCreateError(t *testing.T) {
	sink := CSVSink{File: filepath.Join(t.TempDir(), "missing", "courses.csv")}
	err := sink.Write(context.Background(), sampleRecords())
	assert.ErrorContains(t, err, "export: create")
}

func TestUploadSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.csv")

	var uploaded []string
	sink := UploadSink{
		File: CSVSink{File: path},
		Upload: func(_ context.Context, localPath, remoteName string) error {
			_, err := os.Stat(localPath)
			require.NoError(t, err, "file exists before upload")
			uploaded = append(uploaded, localPath+"->"+remoteName)
			return nil
		},
	}

	require.NoError(t, sink.Write(context.Background(), sampleRecords()))
	assert.Equal(t, []string{path + "->courses.csv"}, uploaded)
	assert.Equal(t, path, sink.Path())
}

func TestUploadSinkErrors(t *testing.T) {
	boom := errors.New("connection refused")
	called := false

	failingUpload := UploadSink{
		File: CSVSink{File: filepath.Join(t.TempDir(), "courses.csv")},
		Upload: func(context.Context, string, string) error {
			called = true
			return boom
		},
	}
	err := failingUpload.Write(context.Background(), sampleRecords())
	assert.ErrorIs(t, err, boom)
	assert.True(t, called)

	called = false
	failingWrite := UploadSink{
		File: CSVSink{File: filepath.Join(t.TempDir(), "nope", "courses.csv")},
		Upload: func(context.Context, string, string) error {
			called = true
			return nil
		},
	}
	assert.Error(t, failingWrite.Write(context.Background(), sampleRecords()))
	assert.False(t, called, "nothing is uploaded when the local write fails")
}
