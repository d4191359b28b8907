// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ingest runs the scrape-extract-persist batch. One overview fetch
// yields the course rows per configured section, then the per-course work
// fans out over a bounded worker pool. Courses fail individually; the batch
// always runs to completion and reports counts.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"studiegids/internal/cache"
	"studiegids/internal/models"
	"studiegids/internal/scrape"
	"studiegids/internal/storage"
	"studiegids/internal/store"
)

// DefaultWorkers bounds concurrent course fetches when no limit is
// configured.
const DefaultWorkers = 4

// Config tells a batch where to look and what to stamp on scraped rows.
type Config struct {
	// OverviewURL is the page listing all course codes per section.
	OverviewURL string

	// Sections are the overview heading labels to harvest rows from.
	Sections []string

	// Programme and Language are stamped on every scraped course.
	Programme string
	Language  string

	// Workers bounds the per-course fan-out. Zero means DefaultWorkers.
	Workers int
}

// Report summarizes a finished batch.
type Report struct {
	Scraped int `json:"scraped"`
	Failed  int `json:"failed"`
}

// Pipeline wires the fetcher to the catalog store, with optional raw-HTML
// archiving and catalog cache invalidation.
type Pipeline struct {
	fetcher *scrape.Fetcher
	courses *store.CourseStore
	archive *storage.Client
	catalog *cache.CatalogCache
	cfg     Config
}

// New creates a pipeline. The archive and catalog cache may be nil.
func New(fetcher *scrape.Fetcher, courses *store.CourseStore, archive *storage.Client, catalog *cache.CatalogCache, cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &Pipeline{
		fetcher: fetcher,
		courses: courses,
		archive: archive,
		catalog: catalog,
		cfg:     cfg,
	}
}

// Run executes one full batch: overview fetch, row extraction per section,
// bounded parallel per-course scraping, persistence. A course that fails to
// fetch or persist counts toward Failed and never aborts the rest; only a
// failed overview fetch or a cancelled context ends the batch early. The
// catalog cache is dropped after any batch that scraped at least one course.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	start := time.Now()

	page, err := p.fetcher.FetchURL(ctx, p.cfg.OverviewURL)
	if err != nil {
		return Report{}, fmt.Errorf("fetch overview: %w", err)
	}

	rows := p.collectRows(page)
	slog.Info("overview extracted", "url", page.URL, "sections", len(p.cfg.Sections), "courses", len(rows))

	var scraped, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for _, row := range rows {
		g.Go(func() error {
			if err := p.scrapeCourse(gctx, row); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Warn("course skipped", "code", row.ZCode, "error", err)
				failed.Add(1)
				return nil
			}
			scraped.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{Scraped: int(scraped.Load()), Failed: int(failed.Load())}, err
	}

	if scraped.Load() > 0 {
		p.catalog.Invalidate(ctx)
	}

	report := Report{Scraped: int(scraped.Load()), Failed: int(failed.Load())}
	slog.Info("ingest batch finished",
		"scraped", report.Scraped, "failed", report.Failed, "duration", time.Since(start))
	return report, nil
}

// collectRows extracts the visible course rows of every configured section,
// keeping the first occurrence when a course is listed under more than one
// heading.
func (p *Pipeline) collectRows(page *scrape.Page) []scrape.CourseRow {
	var rows []scrape.CourseRow
	seen := make(map[string]bool)
	for _, section := range p.cfg.Sections {
		extracted := scrape.ExtractCourseRows(page.Doc, section)
		if len(extracted) == 0 {
			slog.Warn("no course rows under section", "section", section)
		}
		for _, row := range extracted {
			if seen[row.ZCode] {
				continue
			}
			seen[row.ZCode] = true
			rows = append(rows, row)
		}
	}
	return rows
}

// scrapeCourse fetches one course page, archives the raw markup when an
// archive is configured, extracts the detail fields and persists the result.
func (p *Pipeline) scrapeCourse(ctx context.Context, row scrape.CourseRow) error {
	page, err := p.fetcher.Fetch(ctx, row.ZCode)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", row.ZCode, err)
	}

	if key, err := p.archive.ArchiveSnapshot(ctx, row.ZCode, time.Now(), page.Raw); err != nil {
		// Archiving is best effort; the scraped data still lands in the DB.
		slog.Warn("snapshot archive failed", "code", row.ZCode, "error", err)
	} else if key != "" {
		slog.Debug("snapshot archived", "code", row.ZCode, "key", key)
	}

	detail := scrape.ExtractDetail(page.Doc)

	course := &models.Course{
		ZCode:              row.ZCode,
		CourseName:         row.CourseName,
		Phase:              row.Phase,
		PhaseIsMandatory:   row.PhaseIsMandatory,
		Semester:           row.Semester,
		LearningContentsNL: detail.LearningContents,
		Programme:          p.cfg.Programme,
		Language:           p.cfg.Language,
		Status:             models.CourseStatusApproved,
		ScrapedFrom:        &page.URL,
	}
	if err := p.courses.Upsert(ctx, course, detail.Objectives); err != nil {
		return fmt.Errorf("persist %s: %w", row.ZCode, err)
	}

	slog.Info("course scraped", "code", row.ZCode, "name", row.CourseName, "url", page.URL)
	return nil
}
