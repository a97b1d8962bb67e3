package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"catalog-crawl/internal/config"
	"catalog-crawl/internal/crawler"
	"catalog-crawl/internal/domain"
	"catalog-crawl/internal/export"
	"catalog-crawl/internal/httpx"
	"catalog-crawl/internal/logger"
	"catalog-crawl/internal/sftpclient"
)

type options struct {
	units         string
	sink          string
	out           string
	sftp          bool
	unitWorkers   int
	courseWorkers int
	pageLimit     int
	rps           float64
	logLevel      string
	timeout       time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "crawlcatalog",
		Short:        "Crawls the course catalog and exports one record per course.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyFlags(cmd, opts, &cfg)
			return run(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.units, "units", "", "comma separated unit codes to crawl (default: all)")
	f.StringVar(&opts.sink, "sink", "json", "output: csv, json, xlsx, sql or bigquery")
	f.StringVar(&opts.out, "out", "", "output file for csv/json/xlsx (default: data.json, courses.csv, courses.xlsx)")
	f.BoolVar(&opts.sftp, "sftp", false, "upload the output file via SFTP")
	f.IntVar(&opts.unitWorkers, "unit-workers", 0, "parallel unit crawls (env CRAWL_UNIT_WORKERS)")
	f.IntVar(&opts.courseWorkers, "course-workers", 0, "parallel course lookups (env CRAWL_COURSE_WORKERS)")
	f.IntVar(&opts.pageLimit, "page-limit", 0, "max listing pages per unit (env CRAWL_PAGE_LIMIT)")
	f.Float64Var(&opts.rps, "rps", 0, "requests per second per host, 0 disables pacing (env CRAWL_RPS)")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	f.DurationVar(&opts.timeout, "timeout", 0, "abort the whole run after this long (0 = no limit)")

	cmd.AddCommand(newUnitsCmd())
	return cmd
}

// applyFlags lets explicitly set flags win over the environment.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("unit-workers") {
		cfg.UnitWorkers = opts.unitWorkers
	}
	if f.Changed("course-workers") {
		cfg.CourseWorkers = opts.courseWorkers
	}
	if f.Changed("page-limit") {
		cfg.PageLimit = opts.pageLimit
	}
	if f.Changed("rps") {
		cfg.RPS = opts.rps
	}
	if f.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
}

func run(ctx context.Context, w io.Writer, cfg config.Config, opts *options) error {
	log, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	units, err := selectUnits(opts.units)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	sink, closeSink, err := buildSink(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer closeSink()

	client := httpx.NewClient(httpx.ClientConfig{
		ConnectTimeout: cfg.ConnectTimeout,
		TotalTimeout:   cfg.TotalTimeout,
		UserAgent:      cfg.UserAgent,
		Pacer:          httpx.NewPacer(cfg.RPS, cfg.Burst),
	})
	retry := httpx.DefaultRetryConfig()
	retry.MaxAttempts = cfg.MaxAttempts

	p := crawler.NewPipeline(client, units, crawler.Config{
		Endpoints:       crawler.Endpoints{BaseURL: cfg.CatalogBaseURL, SearchURL: cfg.CatalogSearchURL},
		UniversityToken: cfg.UniversityToken,
		UnitWorkers:     cfg.UnitWorkers,
		CourseWorkers:   cfg.CourseWorkers,
		PageLimit:       cfg.PageLimit,
		Retry:           retry,
	}, log)

	log.Info("crawl started", logger.Int("units", units.Len()), logger.String("sink", opts.sink))
	sum, runErr := p.Run(ctx, sink)
	renderSummary(w, sum, units)
	if runErr != nil {
		log.Error("crawl failed", logger.Error(runErr))
		return runErr
	}
	return nil
}

func selectUnits(codes string) (domain.UnitTable, error) {
	all, err := domain.NewUnitTable(domain.DefaultUnits())
	if err != nil {
		return domain.UnitTable{}, err
	}
	return all.Subset(splitCSV(codes))
}

var defaultOut = map[string]string{
	"csv":  "courses.csv",
	"json": "data.json",
	"xlsx": "courses.xlsx",
}

// buildSink returns the sink for opts.sink and a func releasing its resources.
func buildSink(ctx context.Context, cfg config.Config, opts *options) (crawler.Sink, func(), error) {
	noop := func() {}
	kind := strings.ToLower(strings.TrimSpace(opts.sink))

	switch kind {
	case "csv", "json", "xlsx":
		out := opts.out
		if out == "" {
			out = defaultOut[kind]
		}
		// asegura dir de salida
		if dir := filepath.Dir(out); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, noop, err
			}
		}
		fs, err := export.New(kind, out)
		if err != nil {
			return nil, noop, err
		}
		if !opts.sftp {
			return fs, noop, nil
		}
		if !cfg.HasSFTP() {
			return nil, noop, fmt.Errorf("--sftp needs SFTP_HOST and SFTP_USER")
		}
		return export.UploadSink{File: fs, Upload: export.SFTPUploader(sftpConfig(cfg))}, noop, nil

	case "sql":
		if opts.sftp {
			return nil, noop, fmt.Errorf("--sftp only applies to file sinks")
		}
		db, err := export.OpenSQL(ctx, cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			return nil, noop, err
		}
		return export.SQLSink{DB: db, Table: cfg.SQLTable}, func() { db.Close() }, nil

	case "bigquery":
		if opts.sftp {
			return nil, noop, fmt.Errorf("--sftp only applies to file sinks")
		}
		if cfg.BigQueryProject == "" || cfg.BigQueryDataset == "" {
			return nil, noop, fmt.Errorf("bigquery sink needs BIGQUERY_PROJECT and BIGQUERY_DATASET")
		}
		client, err := export.NewBigQueryClient(ctx, cfg.BigQueryProject, cfg.BigQueryCredentialsFile)
		if err != nil {
			return nil, noop, err
		}
		sink := export.BigQuerySink{Client: client, Dataset: cfg.BigQueryDataset, Table: cfg.BigQueryTable}
		return sink, func() { client.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown sink %q", opts.sink)
	}
}

func sftpConfig(cfg config.Config) sftpclient.Config {
	return sftpclient.Config{
		Host:                  cfg.SFTPHost,
		Port:                  cfg.SFTPPort,
		User:                  cfg.SFTPUser,
		Pass:                  cfg.SFTPPass,
		RemoteDir:             cfg.SFTPDir,
		KnownHostsFile:        cfg.SFTPKnownHosts,
		InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
