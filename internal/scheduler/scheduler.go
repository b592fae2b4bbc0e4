// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler promotes scheduled content. Editors set a future
// publishedAt on pages and announcements and every minute the cron job flips
// the due rows to published.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/victorianmonkey/vmsite/internal/store"
)

// Scheduler runs the publish job on a cron schedule.
type Scheduler struct {
	queries *store.Queries
	cron    *cron.Cron
	logger  *slog.Logger
}

// New creates a scheduler backed by the given query layer.
func New(queries *store.Queries, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		queries: queries,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start registers the publish job and starts the cron runner.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.PublishDue(context.Background()); err != nil {
			s.logger.Error("failed to publish scheduled content", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop stops the cron runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PublishDue publishes every page and announcement whose scheduled time has
// passed. It is also called once at startup so content due while the server
// was down goes live immediately.
func (s *Scheduler) PublishDue(ctx context.Context) error {
	now := time.Now().UTC()

	pages, err := s.queries.PublishDuePages(ctx, now)
	if err != nil {
		return err
	}
	if pages > 0 {
		s.logger.Info("published scheduled pages", "count", pages)
	}

	announcements, err := s.queries.PublishDueAnnouncements(ctx, now)
	if err != nil {
		return err
	}
	if announcements > 0 {
		s.logger.Info("published scheduled announcements", "count", announcements)
	}

	return nil
}
