package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dealmungchi/barebonecrawler/internal/barebone"
	"github.com/dealmungchi/barebonecrawler/internal/crawler"
	"github.com/dealmungchi/barebonecrawler/logger"
	apperrors "github.com/dealmungchi/barebonecrawler/pkg/errors"
	"github.com/dealmungchi/barebonecrawler/services/publisher"
	"github.com/dealmungchi/barebonecrawler/services/store"

	"github.com/robfig/cron/v3"
)

// Options configures a worker
type Options struct {
	// AdminURL is the shop root used for edit links
	AdminURL string
	// ExportDir receives a CSV copy of every written tab; empty disables it
	ExportDir string
	// Schedule is a cron spec with a seconds field
	Schedule string
}

// Worker runs the crawl, build, match and write pass
type Worker struct {
	ctx       context.Context
	crawlers  crawler.Crawlers
	store     store.TableStore
	publisher publisher.Publisher
	opts      Options
	now       func() time.Time
	log       *logger.Logger
}

// NewWorker creates a new worker. pub may be nil to skip publishing.
func NewWorker(
	ctx context.Context,
	crawlers crawler.Crawlers,
	st store.TableStore,
	pub publisher.Publisher,
	opts Options,
) *Worker {
	return &Worker{
		ctx:       ctx,
		crawlers:  crawlers,
		store:     st,
		publisher: pub,
		opts:      opts,
		now:       time.Now,
		log:       logger.ForWorker(),
	}
}

// Report summarizes one pass
type Report struct {
	ForumTab       string
	ComparisonTab  string
	ForumRecords   int
	ForumSkipped   int
	CatalogRecords int
	CatalogSkipped int
	Matched        int
	Published      int
	DeletedTabs    []string
	Exports        []string
	Errors         []error
}

func (r *Report) fail(err error) {
	r.Errors = append(r.Errors, err)
}

// Start runs a pass right away and then on the schedule until the context
// is cancelled.
func (w *Worker) Start() error {
	cl := cronLogger{w.log}
	c := cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl)))
	if _, err := c.AddFunc(w.opts.Schedule, func() { w.RunOnce() }); err != nil {
		return apperrors.NewConfiguration(fmt.Sprintf("invalid schedule %q", w.opts.Schedule), err)
	}

	w.RunOnce()

	c.Start()
	w.log.Info().Str("schedule", w.opts.Schedule).Msg("Waiting for next scheduled run")
	<-w.ctx.Done()
	<-c.Stop().Done()
	return nil
}

// cronLogger routes cron's own messages to the worker logger
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// crawlResult is the outcome of one crawler
type crawlResult struct {
	listings []barebone.RawListing
	err      error
}

// RunOnce crawls both sources in parallel, then writes the forum tab, the
// comparison tab and removes stale tabs. A failing step is logged and the
// remaining steps still run.
func (w *Worker) RunOnce() Report {
	start := time.Now()
	day := w.now()
	report := Report{
		ForumTab:      store.ForumTabName(day),
		ComparisonTab: store.ComparisonTabName(day),
	}

	var forum, catalog crawlResult
	var wg sync.WaitGroup
	for _, job := range []struct {
		c   crawler.Crawler
		out *crawlResult
	}{{w.crawlers.Forum, &forum}, {w.crawlers.Catalog, &catalog}} {
		if job.c == nil {
			continue
		}
		wg.Add(1)
		go func(c crawler.Crawler, out *crawlResult) {
			defer wg.Done()
			out.listings, out.err = c.FetchListings(w.ctx)
			if out.err != nil {
				logger.ForCrawler(c.GetName()).Error().Err(out.err).Msg("Crawl failed")
				return
			}
			logger.ForCrawler(c.GetName()).Info().Int("listings", len(out.listings)).Msg("Crawl finished")
		}(job.c, job.out)
	}
	wg.Wait()

	if w.crawlers.Forum != nil {
		if forum.err != nil {
			report.fail(forum.err)
		} else {
			w.processForum(&report, forum.listings)
		}
	}
	if w.crawlers.Catalog != nil {
		if catalog.err != nil {
			report.fail(catalog.err)
		} else {
			w.processCatalog(&report, catalog.listings)
		}
	}

	deleted, err := store.DeleteStaleTabs(w.ctx, w.store, day)
	report.DeletedTabs = deleted
	if err != nil {
		w.log.Error().Err(err).Msg("Stale tab cleanup failed")
		report.fail(err)
	}

	if w.publisher != nil {
		if err := w.publisher.TrimStreams(); err != nil {
			w.log.Error().Err(err).Msg("Stream trimming failed")
			report.fail(err)
		}
	}

	w.log.Info().
		Int("forum_records", report.ForumRecords).
		Int("catalog_records", report.CatalogRecords).
		Int("matched", report.Matched).
		Int("published", report.Published).
		Int("errors", len(report.Errors)).
		Dur("elapsed", time.Since(start)).
		Msg("Run finished")
	return report
}

// build runs a builder and logs what it dropped
func (w *Worker) build(b *barebone.Builder, source barebone.Source, listings []barebone.RawListing) barebone.BuildResult {
	result := b.Build(listings)
	log := logger.ForPipeline(string(source))
	for _, s := range result.Skipped {
		log.Debug().Str("reason", string(s.Reason)).Str("line", s.Listing.Text).Msg("Skipped listing")
	}
	log.Info().
		Int("listings", len(listings)).
		Int("records", len(result.Records)).
		Int("skipped", len(result.Skipped)).
		Msg("Built records")
	return result
}

func (w *Worker) processForum(report *Report, listings []barebone.RawListing) {
	result := w.build(barebone.NewForumBuilder(), barebone.SourceForum, listings)
	records := barebone.Dedupe(result.Records)
	report.ForumRecords = len(records)
	report.ForumSkipped = len(result.Skipped)

	header, rows := barebone.RecordTable(records)
	w.writeTab(report, store.Table{Name: report.ForumTab, Header: header, Rows: rows})
	publish(w, report, string(barebone.SourceForum), records)
}

func (w *Worker) processCatalog(report *Report, listings []barebone.RawListing) {
	result := w.build(barebone.NewCatalogBuilder(), barebone.SourceCatalog, listings)
	report.CatalogRecords = len(result.Records)
	report.CatalogSkipped = len(result.Skipped)

	ix, err := store.LoadIndex(w.ctx, w.store, report.ForumTab)
	if err != nil {
		w.log.Error().Err(err).Str("tab", report.ForumTab).Msg("Cannot load forum prices")
		report.fail(err)
		return
	}

	matches := barebone.Compare(ix, result.Records)
	for _, m := range matches {
		if m.Status != barebone.Unmatched {
			report.Matched++
		}
	}

	header, rows := barebone.ComparisonTable(matches, w.opts.AdminURL)
	w.writeTab(report, store.Table{Name: report.ComparisonTab, Header: header, Rows: rows})
	publish(w, report, string(barebone.SourceCatalog), comparisonMessages(matches))
}

func (w *Worker) writeTab(report *Report, t store.Table) {
	if err := w.store.ReplaceTab(w.ctx, t); err != nil {
		w.log.Error().Err(err).Str("tab", t.Name).Msg("Failed to write tab")
		report.fail(err)
		return
	}
	w.log.Info().Str("tab", t.Name).Int("rows", len(t.Rows)).Msg("Wrote tab")

	if w.opts.ExportDir == "" {
		return
	}
	path, err := store.ExportCSV(w.opts.ExportDir, t)
	if err != nil {
		w.log.Error().Err(err).Str("tab", t.Name).Msg("CSV export failed")
		report.fail(err)
		return
	}
	report.Exports = append(report.Exports, path)
}

// publish sends items to the stream when a publisher is configured
func publish[T any](w *Worker, report *Report, key string, items []T) {
	if w.publisher == nil || len(items) == 0 {
		return
	}
	n, err := publisher.PublishAll(w.publisher, key, items)
	report.Published += n
	if err != nil {
		w.log.Error().Err(err).Str("key", key).Int("published", n).Msg("Publishing stopped")
		report.fail(err)
	}
}

// ComparisonMessage is the published form of a comparison row
type ComparisonMessage struct {
	Name       string `json:"name"`
	PostTitle  string `json:"post_title,omitempty"`
	PostID     string `json:"post_id,omitempty"`
	Link       string `json:"link,omitempty"`
	Hidden     bool   `json:"hidden,omitempty"`
	Price      int64  `json:"price"`
	Matched    bool   `json:"matched"`
	Status     string `json:"status"`
	OtherPrice int64  `json:"other_price,omitempty"`
	Difference int64  `json:"difference"`
}

func comparisonMessages(matches []barebone.Match) []ComparisonMessage {
	msgs := make([]ComparisonMessage, 0, len(matches))
	for _, m := range matches {
		msgs = append(msgs, ComparisonMessage{
			Name:       m.Record.Name,
			PostTitle:  m.Record.PostTitle,
			PostID:     m.Record.PostID,
			Link:       m.Record.Link,
			Hidden:     m.Record.Hidden,
			Price:      m.Record.FinalPrice,
			Matched:    m.Status != barebone.Unmatched,
			Status:     m.Status.String(),
			OtherPrice: m.OtherPrice,
			Difference: m.Difference,
		})
	}
	return msgs
}
