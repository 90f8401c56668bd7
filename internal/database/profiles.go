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
	"time"

	"chatrr-engagement-go/internal/models"
	"chatrr-engagement-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Service) CreateProfile(ctx context.Context, params store.CreateProfileParams) (*models.Profile, error) {
	profileId := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, queryInsertProfile,
		profileId, params.UserId, params.Name, params.Bio, params.Avatar, params.ChatPrice, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: user %s", store.ErrDuplicateProfile, params.UserId)
		}
		zap.L().Error("Failed to insert profile", zap.String("user_id", params.UserId), zap.Error(err))
		return nil, persistenceError("insert profile", err)
	}

	zap.L().Info("Created profile",
		zap.String("profile_id", profileId),
		zap.String("user_id", params.UserId),
		zap.String("chat_price", params.ChatPrice.String()))

	return s.GetProfileById(ctx, profileId)
}

func (s *Service) UpdateProfileDetails(ctx context.Context, params store.UpdateProfileDetailsParams) (*models.Profile, error) {
	result, err := s.db.ExecContext(ctx, queryUpdateProfileDetails,
		params.Name, params.Bio, params.Avatar, params.ChatPrice, time.Now().UTC(), params.UserId)
	if err != nil {
		zap.L().Error("Failed to update profile", zap.String("user_id", params.UserId), zap.Error(err))
		return nil, persistenceError("update profile", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, persistenceError("check rows affected", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%w: profile for user %s", store.ErrNotFound, params.UserId)
	}

	profile, err := s.GetProfileByUserId(ctx, params.UserId)
	if err != nil {
		return nil, err
	}
	return &profile.Profile, nil
}

func (s *Service) GetProfileById(ctx context.Context, profileId string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.GetContext(ctx, &profile, queryGetProfileById, profileId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile %s", store.ErrNotFound, profileId)
		}
		zap.L().Error("Failed to query profile", zap.String("profile_id", profileId), zap.Error(err))
		return nil, persistenceError("query profile", err)
	}
	return &profile, nil
}

func (s *Service) GetProfileByUserId(ctx context.Context, userId string) (*models.ProfileWithUser, error) {
	var profile models.ProfileWithUser
	if err := s.db.GetContext(ctx, &profile, queryGetProfileByUserId, userId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile for user %s", store.ErrNotFound, userId)
		}
		zap.L().Error("Failed to query profile by user", zap.String("user_id", userId), zap.Error(err))
		return nil, persistenceError("query profile by user", err)
	}
	return &profile, nil
}

// UpdateProfileCounters writes new counter values with optimistic locking on version
func (s *Service) UpdateProfileCounters(ctx context.Context, profileId string, expectedVersion int64, counters store.ProfileCounters) error {
	result, err := s.db.ExecContext(ctx, queryUpdateProfileCounters,
		counters.Earnings, counters.ChatsReceived, counters.CurrentWeekChats, counters.PreviousWeekChats,
		time.Now().UTC(), profileId, expectedVersion)
	if err != nil {
		zap.L().Error("Failed to update profile counters", zap.String("profile_id", profileId), zap.Error(err))
		return persistenceError("update profile counters", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return persistenceError("check rows affected", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("counter update failed - %w", store.ErrConcurrentModification)
	}

	zap.L().Debug("Updated profile counters",
		zap.String("profile_id", profileId),
		zap.Int64("version", expectedVersion+1),
		zap.Int64("chats_received", counters.ChatsReceived),
		zap.Int64("current_week_chats", counters.CurrentWeekChats),
		zap.Int64("previous_week_chats", counters.PreviousWeekChats))
	return nil
}

// QueryProfiles returns one page of profiles plus the total number of matches
func (s *Service) QueryProfiles(ctx context.Context, params store.ProfileQueryParams) ([]models.ProfileWithUser, int64, error) {
	where, args := buildProfileWhere(params)

	var total int64
	if err := s.db.GetContext(ctx, &total, queryCountProfilesBase+where, args...); err != nil {
		zap.L().Error("Failed to count profiles", zap.Error(err))
		return nil, 0, persistenceError("count profiles", err)
	}

	query := queryProfilesBase + where + profileOrderBy(params.Filter) + "\n\t\tLIMIT ? OFFSET ?"
	pageArgs := append(append([]interface{}{}, args...), params.Limit, params.Offset)

	profiles := []models.ProfileWithUser{}
	if err := s.db.SelectContext(ctx, &profiles, query, pageArgs...); err != nil {
		zap.L().Error("Failed to query profiles", zap.Error(err))
		return nil, 0, persistenceError("query profiles", err)
	}

	zap.L().Debug("Queried profiles",
		zap.String("search", params.Search),
		zap.String("filter", string(params.Filter)),
		zap.Int("returned", len(profiles)),
		zap.Int64("total", total))
	return profiles, total, nil
}

func buildProfileWhere(params store.ProfileQueryParams) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if params.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(params.Search)) + "%"
		clauses = append(clauses, `(LOWER(p.name) LIKE ? ESCAPE '\' OR LOWER(u.username) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if params.Filter == store.FilterOnline {
		clauses = append(clauses, "p.is_active = 1")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "\n\t\tWHERE " + strings.Join(clauses, " AND "), args
}

func profileOrderBy(filter store.ProfileFilter) string {
	switch filter {
	case store.FilterEarnings:
		return "\n\t\tORDER BY CAST(p.earnings AS REAL) DESC, p.created_at DESC, p.id ASC"
	case store.FilterChatsReceived:
		return "\n\t\tORDER BY p.chats_received DESC, p.created_at DESC, p.id ASC"
	default:
		return "\n\t\tORDER BY p.created_at DESC, p.id ASC"
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
