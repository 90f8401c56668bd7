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
	"time"

	"chatrr-engagement-go/internal/models"
	"chatrr-engagement-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Service) CreateUser(ctx context.Context, username, twitter string) (*models.User, error) {
	user := &models.User{
		Id:        uuid.New().String(),
		Username:  username,
		Twitter:   twitter,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, queryInsertUser, user.Id, user.Username, user.Twitter, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username %q is taken", store.ErrValidation, username)
		}
		zap.L().Error("Failed to insert user", zap.String("username", username), zap.Error(err))
		return nil, persistenceError("insert user", err)
	}

	zap.L().Info("Created user", zap.String("user_id", user.Id), zap.String("username", user.Username))
	return user, nil
}

func (s *Service) GetUserById(ctx context.Context, userId string) (*models.User, error) {
	zap.L().Debug("Querying user by ID", zap.String("user_id", userId))

	var user models.User
	if err := s.db.GetContext(ctx, &user, queryGetUserById, userId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, userId)
		}
		zap.L().Error("Failed to query user by ID", zap.String("user_id", userId), zap.Error(err))
		return nil, persistenceError("query user by id", err)
	}
	return &user, nil
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	zap.L().Debug("Querying user by username", zap.String("username", username))

	var user models.User
	if err := s.db.GetContext(ctx, &user, queryGetUserByUsername, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %q", store.ErrNotFound, username)
		}
		zap.L().Error("Failed to query user by username", zap.String("username", username), zap.Error(err))
		return nil, persistenceError("query user by username", err)
	}
	return &user, nil
}
