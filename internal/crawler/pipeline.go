package crawler

import (
	"context"
	"fmt"
	"time"

	"catalog-crawl/internal/concurrency"
	"catalog-crawl/internal/domain"
	"catalog-crawl/internal/extract"
	"catalog-crawl/internal/httpx"
	"catalog-crawl/internal/logger"
)

// Sink receives the records of a completed run, once.
type Sink interface {
	Write(ctx context.Context, records []domain.CourseRecord) error
}

// Config tunes a Pipeline. Zero values pick the defaults.
type Config struct {
	Endpoints       Endpoints
	UniversityToken string

	UnitWorkers   int
	CourseWorkers int
	PageLimit     int
	Retry         httpx.RetryConfig

	// Now is the clock for the fallback term.
	Now func() time.Time
}

// Pipeline runs both crawl phases over a unit table.
type Pipeline struct {
	units  domain.UnitTable
	cfg    Config
	branch *BranchCrawler
	course *CourseCrawler
	log    logger.Logger
}

func NewPipeline(f Fetcher, units domain.UnitTable, cfg Config, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.UniversityToken == "" {
		cfg.UniversityToken = extract.DefaultUniversityToken
	}
	if cfg.UnitWorkers <= 0 {
		cfg.UnitWorkers = 8
	}
	if cfg.CourseWorkers <= 0 {
		cfg.CourseWorkers = 16
	}
	return &Pipeline{
		units:  units,
		cfg:    cfg,
		branch: NewBranchCrawler(f, cfg.Endpoints, cfg.PageLimit, cfg.Retry, log),
		course: NewCourseCrawler(f, cfg.Endpoints, cfg.UniversityToken, cfg.Retry, cfg.Now, log),
		log:    log,
	}
}

// Collect crawls every unit, then every distinct identifier, and returns the
// resolved records in first-seen identifier order. A cancelled context aborts
// the run with ctx.Err(); no partial record set is returned then.
func (p *Pipeline) Collect(ctx context.Context) ([]domain.CourseRecord, Summary, error) {
	start := time.Now()
	var sum Summary

	units := p.units.Units()
	unitResults, _ := concurrency.ProcessParallel(ctx, units,
		concurrency.ParallelOptions{MaxWorkers: p.cfg.UnitWorkers},
		func(ctx context.Context, _ int, u domain.AcademicUnit) (UnitResult, error) {
			return p.branch.Crawl(ctx, u), nil
		})
	if err := ctx.Err(); err != nil {
		return nil, p.finish(sum, start), err
	}

	for _, r := range unitResults {
		sum.addUnit(r)
	}
	ids, dups := Dedup(unitResults)
	sum.Duplicates = dups
	sum.Unique = len(ids)
	p.log.Info("listing phase done",
		logger.Int("units", sum.Units),
		logger.Int("identifiers", sum.Unique),
		logger.Int("duplicates", dups))

	courseResults := make([]CourseResult, len(ids))
	concurrency.ForEach(ctx, ids,
		concurrency.ParallelOptions{MaxWorkers: p.cfg.CourseWorkers, Progress: p.progress},
		func(ctx context.Context, i int, id domain.CourseIdentifier) error {
			courseResults[i] = p.course.Crawl(ctx, id)
			return nil
		})
	if err := ctx.Err(); err != nil {
		return nil, p.finish(sum, start), err
	}

	records := make([]domain.CourseRecord, 0, len(ids))
	for _, r := range courseResults {
		sum.addCourse(r)
		if r.Record != nil {
			records = append(records, *r.Record)
		}
	}
	sum.Records = len(records)
	return records, p.finish(sum, start), nil
}

// Run collects the records and hands them to sink. The sink is not called when
// the run is cancelled; a sink error is returned with the summary intact.
func (p *Pipeline) Run(ctx context.Context, sink Sink) (Summary, error) {
	records, sum, err := p.Collect(ctx)
	if err != nil {
		return sum, err
	}
	if err := sink.Write(ctx, records); err != nil {
		return sum, fmt.Errorf("write %d records: %w", len(records), err)
	}
	p.log.Info("run complete",
		logger.Int("records", sum.Records),
		logger.Int("not_found", sum.NotFound),
		logger.Int("failed", sum.Failed),
		logger.Duration("took", sum.Duration))
	return sum, nil
}

func (p *Pipeline) finish(sum Summary, start time.Time) Summary {
	sum.Duration = time.Since(start)
	return sum
}

const progressEvery = 100

func (p *Pipeline) progress(done, total int) {
	if done%progressEvery == 0 || done == total {
		p.log.Info("courses fetched", logger.Int("done", done), logger.Int("total", total))
	}
}
