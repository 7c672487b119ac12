// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the background jobs: promoting scheduled entries
// to published when their publish time passes, and pruning old events.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/hcms-go/internal/cache"
	"github.com/olegiv/hcms-go/internal/model"
	"github.com/olegiv/hcms-go/internal/store"
)

// EventRetention is how long event log rows are kept.
const EventRetention = 90 * 24 * time.Hour

// Scheduler drives the cron jobs over the store.
type Scheduler struct {
	st     *store.Store
	caches *cache.Manager
	cron   *cron.Cron
	logger *slog.Logger
	spec   string
}

// New creates a scheduler. The spec is a cron expression (or @every
// shorthand) controlling how often due entries are checked. The cache
// manager may be nil; entry count invalidation is then skipped.
func New(db *sql.DB, caches *cache.Manager, logger *slog.Logger, spec string) *Scheduler {
	return &Scheduler{
		st:     store.New(db),
		caches: caches,
		cron:   cron.New(),
		logger: logger,
		spec:   spec,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		if err := s.publishDueEntries(); err != nil {
			s.logger.Error("failed to publish due entries", "error", err)
		}
	}); err != nil {
		return err
	}

	// Event pruning is cheap and daily.
	if _, err := s.cron.AddFunc("@daily", func() {
		if err := s.pruneEvents(); err != nil {
			s.logger.Error("failed to prune events", "error", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()), "spec", s.spec)
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// publishDueEntries promotes scheduled entries whose publish time has
// passed and records one event per run that promoted anything.
func (s *Scheduler) publishDueEntries() error {
	ctx := context.Background()
	now := time.Now().UTC()

	ids, err := s.st.Entries.PublishDue(ctx, now)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	s.logger.Info("published scheduled entries", "count", len(ids))

	// Invalidate the per-site status counts for affected sites.
	if s.caches != nil {
		for siteID := range s.affectedSites(ctx, ids) {
			s.caches.InvalidateEntryCounts(ctx, siteID)
		}
	}

	_, err = s.st.Events.Create(ctx, store.CreateEventInput{
		Level:    model.EventLevelInfo,
		Category: model.EventCategoryScheduler,
		Message:  "scheduled entries published",
		Metadata: map[string]any{
			"count":        len(ids),
			"entry_ids":    ids,
			"published_at": now.Format(time.RFC3339),
		},
	})
	return err
}

// affectedSites resolves the distinct site ids of the promoted entries.
func (s *Scheduler) affectedSites(ctx context.Context, ids []int64) map[int64]struct{} {
	sites := make(map[int64]struct{})
	for _, id := range ids {
		entry, err := s.st.Entries.FindByID(ctx, id, store.ScopeLive)
		if err != nil {
			s.logger.Warn("failed to load promoted entry", "entry_id", id, "error", err)
			continue
		}
		sites[entry.SiteID] = struct{}{}
	}
	return sites
}

// pruneEvents deletes event rows older than the retention window.
func (s *Scheduler) pruneEvents() error {
	ctx := context.Background()
	n, err := s.st.Events.DeleteOlderThan(ctx, time.Now().UTC().Add(-EventRetention))
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info("pruned old events", "count", n)
	}
	return nil
}
