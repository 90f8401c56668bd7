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

import "time"

const (
	DefaultDatabasePath = "chatrr.db"

	DefaultDBMaxOpenConns    = 25
	DefaultDBMaxIdleConns    = 5
	DefaultDBConnMaxLifetime = 5 * time.Minute
	DefaultDBConnMaxIdleTime = 30 * time.Second
	DefaultDBPingTimeout     = 5 * time.Second

	DefaultServerAddr            = ":5000"
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 15 * time.Second
	DefaultServerShutdownTimeout = 10 * time.Second

	DefaultStatsTimezone         = "Local"
	DefaultStatsRolloverWeekday  = "sunday"
	DefaultStatsMaxUpdateRetries = 3

	DefaultIngestQueueSize = 256

	DefaultMaintenanceCron = "0 4 * * *"
	DefaultReportCron      = "0 0 * * *"

	DefaultLogLevel = "info"
)
