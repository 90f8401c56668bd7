/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package scheduler

import (
	"context"
	"time"

	"chatrr-engagement-go/internal/models"
	"chatrr-engagement-go/internal/stats"
	"chatrr-engagement-go/internal/store"

	"go.uber.org/zap"
)

const (
	JobLedgerMaintenance = "ledger-maintenance"
	JobEngagementReport  = "engagement-report"

	reportSize    = 10
	jobRunTimeout = 5 * time.Minute
)

// Maintainer is the part of the store the maintenance job needs
type Maintainer interface {
	RunMaintenance(ctx context.Context) error
}

// RegisterJobs schedules the maintenance and report jobs from configuration
func RegisterJobs(ctx context.Context, s *Scheduler, cfg models.SchedulerConfig, maintainer Maintainer, profiles store.ProfileStore) error {
	if err := s.AddJob(JobLedgerMaintenance, cfg.MaintenanceCron, MaintenanceJob(ctx, maintainer)); err != nil {
		return err
	}
	return s.AddJob(JobEngagementReport, cfg.ReportCron, ReportJob(ctx, profiles))
}

// MaintenanceJob refreshes planner statistics and compacts the database
func MaintenanceJob(ctx context.Context, maintainer Maintainer) func() {
	return func() {
		runCtx, cancel := context.WithTimeout(ctx, jobRunTimeout)
		defer cancel()

		start := time.Now()
		if err := maintainer.RunMaintenance(runCtx); err != nil {
			zap.L().Error("Ledger maintenance failed", zap.Error(err))
			return
		}
		zap.L().Info("Ledger maintenance finished", zap.Duration("took", time.Since(start)))
	}
}

// ReportJob logs the most chatted-with profiles and their weekly growth
func ReportJob(ctx context.Context, profiles store.ProfileStore) func() {
	return func() {
		runCtx, cancel := context.WithTimeout(ctx, jobRunTimeout)
		defer cancel()

		if _, err := EngagementReport(runCtx, profiles); err != nil {
			zap.L().Error("Engagement report failed", zap.Error(err))
		}
	}
}

// ReportLine is one profile in the engagement report
type ReportLine struct {
	ProfileId         string
	Username          string
	ChatsReceived     int64
	CurrentWeekChats  int64
	PreviousWeekChats int64
	Growth            string
}

// EngagementReport returns and logs the top profiles by chats received
func EngagementReport(ctx context.Context, profiles store.ProfileStore) ([]ReportLine, error) {
	rows, total, err := profiles.QueryProfiles(ctx, store.ProfileQueryParams{
		Filter: store.FilterChatsReceived,
		Limit:  reportSize,
	})
	if err != nil {
		return nil, err
	}

	lines := make([]ReportLine, len(rows))
	for i, p := range rows {
		lines[i] = ReportLine{
			ProfileId:         p.Id,
			Username:          p.Username,
			ChatsReceived:     p.ChatsReceived,
			CurrentWeekChats:  p.CurrentWeekChats,
			PreviousWeekChats: p.PreviousWeekChats,
			Growth:            stats.FormatGrowth(stats.WeeklyGrowth(p.CurrentWeekChats, p.PreviousWeekChats)),
		}
		zap.L().Info("Engagement",
			zap.Int("rank", i+1),
			zap.String("username", p.Username),
			zap.Int64("chats_received", p.ChatsReceived),
			zap.Int64("current_week_chats", p.CurrentWeekChats),
			zap.Int64("previous_week_chats", p.PreviousWeekChats),
			zap.String("growth", lines[i].Growth))
	}

	zap.L().Info("Engagement report complete", zap.Int64("profiles", total), zap.Int("reported", len(lines)))
	return lines, nil
}
