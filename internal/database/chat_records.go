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
	"time"

	"chatrr-engagement-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IncrementChatRecord atomically creates the (profile, day) ledger row at 1 or adds one to it
func (s *Service) IncrementChatRecord(ctx context.Context, profileId, day string) (*models.ChatRecord, error) {
	now := time.Now().UTC()

	if _, err := s.db.ExecContext(ctx, queryUpsertChatRecord, uuid.New().String(), profileId, day, now, now); err != nil {
		zap.L().Error("Failed to upsert chat record",
			zap.String("profile_id", profileId),
			zap.String("day", day),
			zap.Error(err))
		return nil, persistenceError("upsert chat record", err)
	}

	var record models.ChatRecord
	if err := s.db.GetContext(ctx, &record, queryGetChatRecord, profileId, day); err != nil {
		return nil, persistenceError("read chat record", err)
	}

	zap.L().Info("Recorded chat",
		zap.String("profile_id", profileId),
		zap.String("day", day),
		zap.Int64("count", record.Count))
	return &record, nil
}

// GetChatRecords returns the ledger rows of a profile whose day falls in [fromDay, toDay]
func (s *Service) GetChatRecords(ctx context.Context, profileId, fromDay, toDay string) ([]models.ChatRecord, error) {
	zap.L().Debug("Getting chat records",
		zap.String("profile_id", profileId),
		zap.String("from", fromDay),
		zap.String("to", toDay))

	records := []models.ChatRecord{}
	if err := s.db.SelectContext(ctx, &records, queryGetChatRecordsInRange, profileId, fromDay, toDay); err != nil {
		zap.L().Error("Failed to get chat records", zap.String("profile_id", profileId), zap.Error(err))
		return nil, persistenceError("query chat records", err)
	}
	return records, nil
}
