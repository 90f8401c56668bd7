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

package config

import (
	"errors"
	"fmt"
	"strings"

	"chatrr-engagement-go/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from defaults, an optional config.yaml in the working
// directory, and environment variables (DATABASE_PATH, SERVER_ADDR, STATS_TIMEZONE, ...)
func Load() (*models.Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*models.Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &models.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Stats.RolloverWeekday = strings.ToLower(strings.TrimSpace(cfg.Stats.RolloverWeekday))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("db.max_open_conns", DefaultDBMaxOpenConns)
	v.SetDefault("db.max_idle_conns", DefaultDBMaxIdleConns)
	v.SetDefault("db.conn_max_lifetime", DefaultDBConnMaxLifetime)
	v.SetDefault("db.conn_max_idle_time", DefaultDBConnMaxIdleTime)
	v.SetDefault("db.ping_timeout", DefaultDBPingTimeout)

	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	v.SetDefault("server.write_timeout", DefaultServerWriteTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultServerShutdownTimeout)
	v.SetDefault("server.h2c", false)

	v.SetDefault("stats.timezone", DefaultStatsTimezone)
	v.SetDefault("stats.rollover_weekday", DefaultStatsRolloverWeekday)
	v.SetDefault("stats.max_update_retries", DefaultStatsMaxUpdateRetries)

	v.SetDefault("ingest.async", false)
	v.SetDefault("ingest.queue_size", DefaultIngestQueueSize)

	v.SetDefault("scheduler.maintenance_cron", DefaultMaintenanceCron)
	v.SetDefault("scheduler.report_cron", DefaultReportCron)

	v.SetDefault("log.level", DefaultLogLevel)
}
