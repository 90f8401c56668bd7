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

package models

import "time"

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	DB        PoolConfig      `mapstructure:"db" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Stats     StatsConfig     `mapstructure:"stats" validate:"required"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

// DatabaseConfig holds the SQLite file location
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// PoolConfig holds database connection settings
type PoolConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"gte=0"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout" validate:"gt=0"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	H2C             bool          `mapstructure:"h2c"`
}

// StatsConfig controls the calendar used for chat accounting
type StatsConfig struct {
	Timezone         string `mapstructure:"timezone" validate:"required"`
	RolloverWeekday  string `mapstructure:"rollover_weekday" validate:"required,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	MaxUpdateRetries int    `mapstructure:"max_update_retries" validate:"gte=0,lte=20"`
}

// IngestConfig controls how message-delivered events reach the aggregator
type IngestConfig struct {
	Async     bool `mapstructure:"async"`
	QueueSize int  `mapstructure:"queue_size" validate:"gte=0"`
}

// SchedulerConfig holds cron expressions for background jobs. Empty disables a job.
type SchedulerConfig struct {
	MaintenanceCron string `mapstructure:"maintenance_cron"`
	ReportCron      string `mapstructure:"report_cron"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}
