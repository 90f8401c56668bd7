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

package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"chatrr-engagement-go/internal/api"
	"chatrr-engagement-go/internal/config"
	"chatrr-engagement-go/internal/database"
	"chatrr-engagement-go/internal/ingest"
	"chatrr-engagement-go/internal/models"
	"chatrr-engagement-go/internal/stats"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// init loads environment variables from .env file if it exists
func init() {
	// A missing .env is fine; variables may come from the shell or the container
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService  *database.Service
	Calendar   stats.Calendar
	Clock      clockwork.Clock
	Aggregator *stats.Aggregator
	History    *stats.HistoryView
	Dispatcher *ingest.Dispatcher
	Engagement *api.EngagementService
}

// InitializeLogger installs a production zap logger at the given level ("" means info)
func InitializeLogger(level string) (*zap.Logger, func()) {
	zapCfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			log.Printf("Unknown log level %q, using info\n", level)
		} else {
			zapCfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// LoadConfig loads configuration with a default logger installed, so configuration errors
// are reported, then reinstalls the logger at the configured level
func LoadConfig() (*models.Config, func()) {
	_, bootCleanup := InitializeLogger("")
	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}
	bootCleanup()

	_, cleanup := InitializeLogger(cfg.Log.Level)
	return cfg, cleanup
}

// NewCalendar builds the stats calendar from configuration
func NewCalendar(cfg models.StatsConfig) (stats.Calendar, error) {
	weekday, err := stats.ParseWeekday(cfg.RolloverWeekday)
	if err != nil {
		return stats.Calendar{}, err
	}
	return stats.NewCalendar(cfg.Timezone, weekday)
}

// InitializeServices opens the database and wires the accounting pipeline and API services
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	calendar, err := NewCalendar(cfg.Stats)
	if err != nil {
		return nil, err
	}

	dbService, err := database.NewService(ctx, cfg.Database, cfg.DB)
	if err != nil {
		return nil, err
	}

	clock := clockwork.NewRealClock()
	aggregator := stats.NewAggregator(dbService, dbService, calendar,
		stats.WithClock(clock),
		stats.WithMaxRetries(cfg.Stats.MaxUpdateRetries))
	history := stats.NewHistoryView(dbService, calendar)
	dispatcher := ingest.NewDispatcher(aggregator, cfg.Ingest)

	zap.L().Info("Stats calendar configured",
		zap.String("timezone", calendar.Location().String()),
		zap.String("rollover_weekday", calendar.RolloverWeekday().String()),
		zap.Bool("async_ingest", cfg.Ingest.Async))

	return &Services{
		DbService:  dbService,
		Calendar:   calendar,
		Clock:      clock,
		Aggregator: aggregator,
		History:    history,
		Dispatcher: dispatcher,
		Engagement: api.NewEngagementService(dbService, history, dispatcher, clock),
	}, nil
}

// InitializeDatabaseOnly opens just the database, for tools that do not serve traffic
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return dbService, nil
}

func (cs *Services) Close() {
	if cs.Dispatcher != nil {
		cs.Dispatcher.Stop()
	}
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
