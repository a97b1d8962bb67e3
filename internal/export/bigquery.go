package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"catalog-crawl/internal/domain"
)

// NewBigQueryClient opens a client for project. An empty credentialsFile falls
// back to application default credentials.
func NewBigQueryClient(ctx context.Context, project, credentialsFile string) (*bigquery.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	c, err := bigquery.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("export: bigquery client: %w", err)
	}
	return c, nil
}

var bigQuerySchema = bigquery.Schema{
	{Name: "identifier", Type: bigquery.StringFieldType, Required: true},
	{Name: "prerequisite", Type: bigquery.StringFieldType},
	{Name: "corequisite", Type: bigquery.StringFieldType},
	{Name: "description", Type: bigquery.StringFieldType},
	{Name: "credit", Type: bigquery.StringFieldType},
	{Name: "requirement_tags", Type: bigquery.StringFieldType, Repeated: true},
}

type bigQueryRow struct {
	Identifier      string              `json:"identifier"`
	Prerequisite    bigquery.NullString `json:"prerequisite"`
	Corequisite     bigquery.NullString `json:"corequisite"`
	Description     bigquery.NullString `json:"description"`
	Credit          bigquery.NullString `json:"credit"`
	RequirementTags []string            `json:"requirement_tags"`
}

func toBigQueryRow(r domain.CourseRecord) bigQueryRow {
	tags := r.RequirementTags
	if tags == nil {
		tags = []string{}
	}
	return bigQueryRow{
		Identifier:      r.Identifier.String(),
		Prerequisite:    bqString(domain.Deref(r.Prerequisite)),
		Corequisite:     bqString(domain.Deref(r.Corequisite)),
		Description:     bqString(domain.Deref(r.Description)),
		Credit:          bqString(creditString(r.Credit)),
		RequirementTags: tags,
	}
}

func bqString(s string) bigquery.NullString {
	return bigquery.NullString{StringVal: s, Valid: s != ""}
}

// encodeRows writes newline-delimited JSON, one row per record.
func encodeRows(w io.Writer, records []domain.CourseRecord) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(toBigQueryRow(r)); err != nil {
			return fmt.Errorf("encode %s: %w", r.Identifier, err)
		}
	}
	return nil
}

// BigQuerySink loads records into Dataset.Table with one load job that
// truncates the table, so every run replaces the previous snapshot.
type BigQuerySink struct {
	Client  *bigquery.Client
	Dataset string
	Table   string
}

func (s BigQuerySink) Write(ctx context.Context, records []domain.CourseRecord) error {
	var buf bytes.Buffer
	if err := encodeRows(&buf, records); err != nil {
		return fmt.Errorf("export: bigquery rows: %w", err)
	}

	src := bigquery.NewReaderSource(&buf)
	src.SourceFormat = bigquery.JSON
	src.Schema = bigQuerySchema

	loader := s.Client.Dataset(s.Dataset).Table(s.Table).LoaderFrom(src)
	loader.WriteDisposition = bigquery.WriteTruncate
	loader.CreateDisposition = bigquery.CreateIfNeeded

	job, err := loader.Run(ctx)
	if err != nil {
		return fmt.Errorf("export: bigquery load %s.%s: %w", s.Dataset, s.Table, err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("export: bigquery wait %s: %w", job.ID(), err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("export: bigquery job %s: %w", job.ID(), err)
	}
	return nil
}
