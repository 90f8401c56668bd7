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
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Scheduler runs named cron jobs in the stats time zone
type Scheduler struct {
	scheduler gocron.Scheduler
}

func New(loc *time.Location, clock clockwork.Clock) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}

	opts := []gocron.SchedulerOption{
		gocron.WithLocation(loc),
		gocron.WithLogger(zapLogger{}),
	}
	if clock != nil {
		opts = append(opts, gocron.WithClock(clock))
	}

	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// AddJob schedules job under a cron expression. An empty expression leaves the job disabled.
func (s *Scheduler) AddJob(name, cronExpr string, job func()) error {
	if cronExpr == "" {
		zap.L().Info("Job disabled", zap.String("name", name))
		return nil
	}

	_, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(job),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		zap.L().Error("Failed to add job",
			zap.String("name", name),
			zap.String("cron", cronExpr),
			zap.Error(err))
		return fmt.Errorf("failed to schedule job %q: %w", name, err)
	}

	zap.L().Info("Job scheduled", zap.String("name", name), zap.String("cron", cronExpr))
	return nil
}

// JobNames lists the scheduled jobs
func (s *Scheduler) JobNames() []string {
	jobs := s.scheduler.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
	zap.L().Info("Scheduler started", zap.Int("jobs", len(s.scheduler.Jobs())))
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown scheduler: %w", err)
	}
	zap.L().Info("Scheduler stopped")
	return nil
}

// zapLogger routes gocron's key/value logs to the global zap logger
type zapLogger struct{}

func (zapLogger) Debug(msg string, args ...any) { zap.L().Sugar().Debugw(msg, args...) }
func (zapLogger) Error(msg string, args ...any) { zap.L().Sugar().Errorw(msg, args...) }
func (zapLogger) Info(msg string, args ...any)  { zap.L().Sugar().Infow(msg, args...) }
func (zapLogger) Warn(msg string, args ...any)  { zap.L().Sugar().Warnw(msg, args...) }
