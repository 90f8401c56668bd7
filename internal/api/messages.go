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

	"chatrr-engagement-go/internal/ingest"
	"chatrr-engagement-go/internal/models"
	"chatrr-engagement-go/internal/store"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// SendMessageParams is the body of a new message
type SendMessageParams struct {
	RecipientId string `json:"recipientId" validate:"required"`
	Subject     string `json:"subject" validate:"required,max=100"`
	Content     string `json:"content" validate:"required,max=2000"`
	ReplyTo     string `json:"replyTo,omitempty"`
}

// ChatEventSink receives a MessageDelivered event after each stored message to a profile owner
type ChatEventSink interface {
	Deliver(ctx context.Context, event ingest.MessageDelivered) error
}

type MessageService struct {
	users    store.UserStore
	profiles store.ProfileStore
	messages store.MessageStore
	events   ChatEventSink
	clock    clockwork.Clock
}

func NewMessageService(users store.UserStore, profiles store.ProfileStore, messages store.MessageStore, dispatcher *ingest.Dispatcher, clock clockwork.Clock) *MessageService {
	s := &MessageService{
		users:    users,
		profiles: profiles,
		messages: messages,
		clock:    clock,
	}
	if dispatcher != nil {
		s.events = dispatcher
	}
	return s
}

// Send stores a message and then accounts for it on the recipient's profile.
// Accounting failures are logged and never fail the send.
func (s *MessageService) Send(ctx context.Context, senderId string, params SendMessageParams) (*models.MessageView, error) {
	if senderId == "" {
		return nil, fmt.Errorf("%w: sender id is required", store.ErrValidation)
	}

	params.RecipientId = strings.TrimSpace(params.RecipientId)
	params.Subject = strings.TrimSpace(params.Subject)
	params.Content = strings.TrimSpace(params.Content)
	params.ReplyTo = strings.TrimSpace(params.ReplyTo)

	if params.RecipientId == senderId {
		return nil, fmt.Errorf("%w: you cannot send messages to yourself", store.ErrValidation)
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}

	if _, err := s.users.GetUserById(ctx, params.RecipientId); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: recipient not found", store.ErrNotFound)
		}
		return nil, err
	}
	if params.ReplyTo != "" {
		if _, err := s.messages.GetMessage(ctx, params.ReplyTo); err != nil {
			return nil, err
		}
	}

	message, err := s.messages.CreateMessage(ctx, store.CreateMessageParams{
		SenderId:    senderId,
		RecipientId: params.RecipientId,
		Subject:     params.Subject,
		Content:     params.Content,
		ReplyTo:     params.ReplyTo,
	})
	if err != nil {
		return nil, err
	}

	s.recordDelivery(ctx, message)

	stored, err := s.messages.GetMessage(ctx, message.Id)
	if err != nil {
		return nil, err
	}
	view := messageView(stored)
	return &view, nil
}

func (s *MessageService) recordDelivery(ctx context.Context, message *models.Message) {
	if s.events == nil {
		return
	}

	profile, err := s.profiles.GetProfileByUserId(ctx, message.RecipientId)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			zap.L().Warn("Failed to resolve recipient profile for chat accounting",
				zap.String("message_id", message.Id),
				zap.String("recipient_id", message.RecipientId),
				zap.Error(err))
		}
		return
	}

	event := ingest.MessageDelivered{
		MessageId:  message.Id,
		ProfileId:  profile.Id,
		OccurredAt: s.clock.Now(),
	}
	if err := s.events.Deliver(ctx, event); err != nil {
		zap.L().Warn("Chat accounting failed for delivered message",
			zap.String("message_id", message.Id),
			zap.String("profile_id", profile.Id),
			zap.Error(err))
	}
}

func (s *MessageService) Inbox(ctx context.Context, userId string) ([]models.MessageView, error) {
	rows, err := s.messages.ListInbox(ctx, userId)
	if err != nil {
		return nil, err
	}
	return messageViews(rows), nil
}

func (s *MessageService) Sent(ctx context.Context, userId string) ([]models.MessageView, error) {
	rows, err := s.messages.ListSent(ctx, userId)
	if err != nil {
		return nil, err
	}
	return messageViews(rows), nil
}

// Get returns a message to its sender or recipient and marks it read when the recipient opens it
func (s *MessageService) Get(ctx context.Context, userId, messageId string) (*models.MessageView, error) {
	message, err := s.messages.GetMessage(ctx, messageId)
	if err != nil {
		return nil, err
	}
	if message.SenderId != userId && message.RecipientId != userId {
		return nil, fmt.Errorf("%w: not authorized to view this message", store.ErrUnauthorized)
	}

	if message.RecipientId == userId && !message.IsRead {
		if err := s.messages.MarkMessageRead(ctx, messageId); err != nil {
			return nil, err
		}
		message.IsRead = true
	}

	view := messageView(message)
	return &view, nil
}

// Delete removes a message; only its recipient may decline it
func (s *MessageService) Delete(ctx context.Context, userId, messageId string) error {
	message, err := s.messages.GetMessage(ctx, messageId)
	if err != nil {
		return err
	}
	if message.RecipientId != userId {
		return fmt.Errorf("%w: only the recipient can decline or delete a message", store.ErrUnauthorized)
	}
	return s.messages.DeleteMessage(ctx, messageId)
}

func (s *MessageService) UnreadCount(ctx context.Context, userId string) (int64, error) {
	return s.messages.CountUnread(ctx, userId)
}

func messageViews(rows []models.MessageWithUsers) []models.MessageView {
	views := make([]models.MessageView, len(rows))
	for i := range rows {
		views[i] = messageView(&rows[i])
	}
	return views
}
