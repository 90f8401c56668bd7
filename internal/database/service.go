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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"chatrr-engagement-go/internal/models"
	"chatrr-engagement-go/internal/store"
	"chatrr-engagement-go/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	sqlite "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.EngagementStore.
var _ store.EngagementStore = (*Service)(nil)

type Service struct {
	db *sqlx.DB
}

func NewService(ctx context.Context, dbCfg models.DatabaseConfig, poolCfg models.PoolConfig) (*Service, error) {
	if dbCfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if poolCfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", poolCfg.MaxOpenConns)
	}
	if poolCfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", poolCfg.MaxIdleConns)
	}
	if poolCfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", poolCfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", dbCfg.Path))
	db, err := sqlx.Open("sqlite3", buildDSN(dbCfg.Path))
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	db.SetMaxOpenConns(poolCfg.MaxOpenConns)
	db.SetMaxIdleConns(poolCfg.MaxIdleConns)
	db.SetConnMaxLifetime(poolCfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(poolCfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, poolCfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if err := ApplyMigrations(db.DB); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return &Service{db: db}, nil
}

// buildDSN appends the driver options used for every connection.
func buildDSN(path string) string {
	opts := "_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on"
	if strings.Contains(path, "?") {
		return path + "&" + opts
	}
	return path + "?" + opts
}

// ApplyMigrations runs the embedded schema migrations against db.
func ApplyMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("database connection is nil, cannot apply migrations")
	}

	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create embed source driver: %w", err)
	}

	dbDriver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite3 migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			zap.L().Debug("No database migrations to apply")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	zap.L().Info("Database migrations applied")
	return nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", store.ErrPersistence, err)
	}
	return nil
}

// RunMaintenance refreshes query planner statistics and compacts the file.
func (s *Service) RunMaintenance(ctx context.Context) error {
	zap.L().Info("Running database maintenance")

	if _, err := s.db.ExecContext(ctx, queryOptimize); err != nil {
		return fmt.Errorf("%w: optimize: %w", store.ErrPersistence, err)
	}
	if _, err := s.db.ExecContext(ctx, queryVacuum); err != nil {
		return fmt.Errorf("%w: vacuum: %w", store.ErrPersistence, err)
	}

	zap.L().Info("Database maintenance completed")
	return nil
}

func closeQuietly(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		zap.L().Warn("Failed to close database after init failure", zap.Error(err))
	}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite.ErrConstraintPrimaryKey
	}
	return false
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", store.ErrPersistence, op, err)
}
