package crawler

import (
	"context"
	"fmt"

	"catalog-crawl/internal/domain"
	"catalog-crawl/internal/extract"
	"catalog-crawl/internal/httpx"
	"catalog-crawl/internal/logger"
)

// UnitResult is everything one unit's feed yielded.
type UnitResult struct {
	Unit        domain.AcademicUnit
	Identifiers []domain.CourseIdentifier
	// Pages is the number of listing pages fetched, including the terminating one.
	Pages int
	// PageLimitReached is set when the feed was still producing entries at the ceiling.
	PageLimitReached bool
	// Err is the fetch failure that cut the unit short, if any. Identifiers
	// gathered before it are kept.
	Err error
}

// Complete reports whether the feed was read to its end.
func (r UnitResult) Complete() bool {
	return r.Err == nil && !r.PageLimitReached
}

// BranchCrawler walks the paginated listing feed of a single unit.
type BranchCrawler struct {
	fetcher   Fetcher
	endpoints Endpoints
	pageLimit int
	retry     httpx.RetryConfig
	log       logger.Logger
}

func NewBranchCrawler(f Fetcher, e Endpoints, pageLimit int, retry httpx.RetryConfig, log logger.Logger) *BranchCrawler {
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &BranchCrawler{fetcher: f, endpoints: e, pageLimit: pageLimit, retry: retry, log: log}
}

// Crawl reads pages 0, 1, 2, ... in order until a page without course entries.
// Pages are sequential: the page count is only known once a page comes back empty.
func (b *BranchCrawler) Crawl(ctx context.Context, unit domain.AcademicUnit) UnitResult {
	res := UnitResult{Unit: unit}
	log := b.log.With(logger.String("unit", unit.Code))

	for page := 0; ; page++ {
		if page >= b.pageLimit {
			res.PageLimitReached = true
			log.Warn("page limit reached", logger.Int("limit", b.pageLimit), logger.Int("identifiers", len(res.Identifiers)))
			return res
		}

		doc, err := fetch(ctx, b.fetcher, b.retry, b.endpoints.ListingURL(unit.Code, page))
		if err != nil {
			res.Err = fmt.Errorf("unit %s page %d: %w", unit.Code, page, err)
			if ctx.Err() == nil {
				log.Warn("unit incomplete", logger.Int("page", page), logger.Error(err))
			}
			return res
		}
		res.Pages++

		ids, end := extract.ParseListing(doc)
		if end {
			log.Info("fetched unit",
				logger.String("name", unit.Name),
				logger.Int("pages", res.Pages),
				logger.Int("identifiers", len(res.Identifiers)))
			return res
		}
		res.Identifiers = append(res.Identifiers, ids...)
	}
}
