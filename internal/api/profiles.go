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

package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chatrr-engagement-go/internal/models"
	"chatrr-engagement-go/internal/stats"
	"chatrr-engagement-go/internal/store"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// UpsertProfileParams is the body of a profile create or update.
// Omitted optional fields keep their stored value on update.
type UpsertProfileParams struct {
	Name      string           `json:"name" validate:"required,max=50"`
	Bio       *string          `json:"bio,omitempty" validate:"omitempty,max=500"`
	Avatar    *string          `json:"avatar,omitempty" validate:"omitempty,max=200"`
	ChatPrice *decimal.Decimal `json:"chatPrice,omitempty" validate:"omitempty,gte=0,lte=1000"`
}

// ProfileQuery is a directory search request
type ProfileQuery struct {
	Search string
	Filter string
	Page   int
	Limit  int
}

type ProfileService struct {
	users    store.UserStore
	profiles store.ProfileStore
	history  *stats.HistoryView
	clock    clockwork.Clock
}

func NewProfileService(users store.UserStore, profiles store.ProfileStore, history *stats.HistoryView, clock clockwork.Clock) *ProfileService {
	return &ProfileService{
		users:    users,
		profiles: profiles,
		history:  history,
		clock:    clock,
	}
}

// Upsert creates the caller's profile or updates it. The bool reports whether a profile was created.
func (s *ProfileService) Upsert(ctx context.Context, userId string, params UpsertProfileParams) (*models.ProfileView, bool, error) {
	if userId == "" {
		return nil, false, fmt.Errorf("%w: user id is required", store.ErrValidation)
	}

	params.Name = strings.TrimSpace(params.Name)
	if err := validateParams(params); err != nil {
		return nil, false, err
	}

	if _, err := s.users.GetUserById(ctx, userId); err != nil {
		return nil, false, err
	}

	existing, err := s.profiles.GetProfileByUserId(ctx, userId)
	switch {
	case errors.Is(err, store.ErrNotFound):
		created, err := s.create(ctx, userId, params)
		if errors.Is(err, store.ErrDuplicateProfile) {
			// Lost a create race with another request from the same user
			zap.L().Info("Profile created concurrently, updating instead", zap.String("user_id", userId))
			existing, err = s.profiles.GetProfileByUserId(ctx, userId)
			if err != nil {
				return nil, false, err
			}
			view, err := s.update(ctx, existing, params)
			return view, false, err
		}
		return created, err == nil, err
	case err != nil:
		zap.L().Error("Failed to look up profile", zap.String("user_id", userId), zap.Error(err))
		return nil, false, err
	}

	view, err := s.update(ctx, existing, params)
	return view, false, err
}

func (s *ProfileService) create(ctx context.Context, userId string, params UpsertProfileParams) (*models.ProfileView, error) {
	create := store.CreateProfileParams{
		UserId:    userId,
		Name:      params.Name,
		ChatPrice: decimal.Zero,
	}
	if params.Bio != nil {
		create.Bio = *params.Bio
	}
	if params.Avatar != nil {
		create.Avatar = *params.Avatar
	}
	if params.ChatPrice != nil {
		create.ChatPrice = *params.ChatPrice
	}

	if _, err := s.profiles.CreateProfile(ctx, create); err != nil {
		return nil, err
	}
	return s.ByUser(ctx, userId)
}

func (s *ProfileService) update(ctx context.Context, existing *models.ProfileWithUser, params UpsertProfileParams) (*models.ProfileView, error) {
	update := store.UpdateProfileDetailsParams{
		UserId:    existing.UserId,
		Name:      params.Name,
		Bio:       existing.Bio,
		Avatar:    existing.Avatar,
		ChatPrice: existing.ChatPrice,
	}
	if params.Bio != nil && *params.Bio != "" {
		update.Bio = *params.Bio
	}
	if params.Avatar != nil && *params.Avatar != "" {
		update.Avatar = *params.Avatar
	}
	if params.ChatPrice != nil {
		update.ChatPrice = *params.ChatPrice
	}

	if _, err := s.profiles.UpdateProfileDetails(ctx, update); err != nil {
		return nil, err
	}
	return s.ByUser(ctx, existing.UserId)
}

// Mine returns the caller's own profile
func (s *ProfileService) Mine(ctx context.Context, userId string) (*models.ProfileView, error) {
	if userId == "" {
		return nil, fmt.Errorf("%w: user id is required", store.ErrValidation)
	}
	return s.ByUser(ctx, userId)
}

func (s *ProfileService) ByUser(ctx context.Context, userId string) (*models.ProfileView, error) {
	profile, err := s.profiles.GetProfileByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	view := profileWithUserView(profile)
	return &view, nil
}

func (s *ProfileService) ById(ctx context.Context, profileId string) (*models.ProfileView, error) {
	profile, err := s.profiles.GetProfileById(ctx, profileId)
	if err != nil {
		return nil, err
	}
	return s.ByUser(ctx, profile.UserId)
}

// ChatHistory returns the last seven days of chats for an existing profile, ending today
func (s *ProfileService) ChatHistory(ctx context.Context, profileId string) ([]models.ChatPoint, error) {
	if _, err := s.profiles.GetProfileById(ctx, profileId); err != nil {
		return nil, err
	}

	points, err := s.history.Last7Days(ctx, profileId, s.clock.Now())
	if err != nil {
		zap.L().Error("Failed to build chat history", zap.String("profile_id", profileId), zap.Error(err))
		return nil, err
	}
	return points, nil
}

// Query searches, filters, sorts and paginates the profile directory
func (s *ProfileService) Query(ctx context.Context, query ProfileQuery) (*models.ProfilesPage, error) {
	filter := store.ProfileFilter(query.Filter)
	if filter == "" {
		filter = store.FilterAll
	}
	if !filter.Valid() {
		return nil, fmt.Errorf("%w: unknown filter %q", store.ErrValidation, query.Filter)
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	rows, total, err := s.profiles.QueryProfiles(ctx, store.ProfileQueryParams{
		Search: strings.TrimSpace(query.Search),
		Filter: filter,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	views := make([]models.ProfileView, len(rows))
	for i := range rows {
		views[i] = profileWithUserView(&rows[i])
	}

	return &models.ProfilesPage{
		Profiles: views,
		Pagination: models.Pagination{
			Total: total,
			Page:  page,
			Pages: int((total + int64(limit) - 1) / int64(limit)),
		},
	}, nil
}
