package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-crawl/internal/domain"
	"catalog-crawl/internal/extract"
	"catalog-crawl/internal/httpx"
	"catalog-crawl/internal/logger"
)

// Outcome classifies how a detail lookup ended.
type Outcome int

const (
	// Resolved by the all-terms query.
	Resolved Outcome = iota
	// ResolvedFallback needed the current-term query.
	ResolvedFallback
	// NotFound by either query. The course is dropped.
	NotFound
	// Failed with a transport error after retries.
	Failed
	// Cancelled before an answer came back.
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case ResolvedFallback:
		return "resolved (fallback)"
	case NotFound:
		return "not found"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// CourseResult is the answer for one identifier. Record is set only for
// Resolved and ResolvedFallback.
type CourseResult struct {
	Identifier domain.CourseIdentifier
	Outcome    Outcome
	Record     *domain.CourseRecord
	Err        error
}

// CourseCrawler resolves one identifier into a cleaned CourseRecord.
type CourseCrawler struct {
	fetcher   Fetcher
	endpoints Endpoints
	token     string
	retry     httpx.RetryConfig
	now       func() time.Time
	log       logger.Logger
}

// NewCourseCrawler builds a crawler. token is the university name cut from pathway
// tags; now picks the fallback term and defaults to time.Now.
func NewCourseCrawler(f Fetcher, e Endpoints, token string, retry httpx.RetryConfig, now func() time.Time, log logger.Logger) *CourseCrawler {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &CourseCrawler{fetcher: f, endpoints: e, token: token, retry: retry, now: now, log: log}
}

// Crawl looks id up across all terms, then once more in the current term if the
// first query found nothing.
func (c *CourseCrawler) Crawl(ctx context.Context, id domain.CourseIdentifier) CourseResult {
	res := CourseResult{Identifier: id}

	raw, err := c.lookup(ctx, id, AllTerms)
	outcome := Resolved
	if errors.Is(err, extract.ErrNotFound) {
		term := CurrentTerm(c.now())
		c.log.Debug("retrying in current term", logger.String("course", id.String()), logger.String("term", term))
		raw, err = c.lookup(ctx, id, term)
		outcome = ResolvedFallback
	}

	switch {
	case err == nil:
		rec := extract.Clean(id, raw)
		res.Outcome = outcome
		res.Record = &rec
		c.log.Debug("fetched course", logger.String("course", id.String()))
	case ctx.Err() != nil:
		res.Outcome = Cancelled
		res.Err = ctx.Err()
	case errors.Is(err, extract.ErrNotFound):
		res.Outcome = NotFound
		res.Err = err
		c.log.Debug("course not found", logger.String("course", id.String()))
	default:
		res.Outcome = Failed
		res.Err = fmt.Errorf("course %s: %w", id, err)
		c.log.Warn("course failed", logger.String("course", id.String()), logger.Error(err))
	}
	return res
}

func (c *CourseCrawler) lookup(ctx context.Context, id domain.CourseIdentifier, term string) (extract.RawDetail, error) {
	doc, err := fetch(ctx, c.fetcher, c.retry, c.endpoints.DetailURL(id, term))
	if err != nil {
		return extract.RawDetail{}, err
	}
	return extract.ParseDetail(doc, c.token)
}
