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

func (s *Service) CreateMessage(ctx context.Context, params store.CreateMessageParams) (*models.Message, error) {
	message := &models.Message{
		Id:          uuid.New().String(),
		SenderId:    params.SenderId,
		RecipientId: params.RecipientId,
		Subject:     params.Subject,
		Content:     params.Content,
		ReplyTo:     sql.NullString{String: params.ReplyTo, Valid: params.ReplyTo != ""},
		CreatedAt:   time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, queryInsertMessage,
		message.Id, message.SenderId, message.RecipientId, message.Subject, message.Content,
		message.ReplyTo, message.CreatedAt)
	if err != nil {
		zap.L().Error("Failed to insert message",
			zap.String("sender_id", params.SenderId),
			zap.String("recipient_id", params.RecipientId),
			zap.Error(err))
		return nil, persistenceError("insert message", err)
	}

	zap.L().Info("Message stored",
		zap.String("message_id", message.Id),
		zap.String("sender_id", message.SenderId),
		zap.String("recipient_id", message.RecipientId))
	return message, nil
}

func (s *Service) GetMessage(ctx context.Context, messageId string) (*models.MessageWithUsers, error) {
	var message models.MessageWithUsers
	if err := s.db.GetContext(ctx, &message, queryGetMessage, messageId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: message %s", store.ErrNotFound, messageId)
		}
		zap.L().Error("Failed to query message", zap.String("message_id", messageId), zap.Error(err))
		return nil, persistenceError("query message", err)
	}
	return &message, nil
}

func (s *Service) ListInbox(ctx context.Context, recipientId string) ([]models.MessageWithUsers, error) {
	return s.listMessages(ctx, queryListInbox, recipientId)
}

func (s *Service) ListSent(ctx context.Context, senderId string) ([]models.MessageWithUsers, error) {
	return s.listMessages(ctx, queryListSent, senderId)
}

func (s *Service) listMessages(ctx context.Context, query, userId string) ([]models.MessageWithUsers, error) {
	messages := []models.MessageWithUsers{}
	if err := s.db.SelectContext(ctx, &messages, query, userId); err != nil {
		zap.L().Error("Failed to list messages", zap.String("user_id", userId), zap.Error(err))
		return nil, persistenceError("list messages", err)
	}
	return messages, nil
}

func (s *Service) MarkMessageRead(ctx context.Context, messageId string) error {
	if _, err := s.db.ExecContext(ctx, queryMarkMessageRead, messageId); err != nil {
		return persistenceError("mark message read", err)
	}
	return nil
}

func (s *Service) DeleteMessage(ctx context.Context, messageId string) error {
	result, err := s.db.ExecContext(ctx, queryDeleteMessage, messageId)
	if err != nil {
		return persistenceError("delete message", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return persistenceError("check rows affected", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: message %s", store.ErrNotFound, messageId)
	}
	return nil
}

func (s *Service) CountUnread(ctx context.Context, recipientId string) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, queryCountUnread, recipientId); err != nil {
		return 0, persistenceError("count unread messages", err)
	}
	return count, nil
}
