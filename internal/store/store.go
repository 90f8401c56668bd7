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

package store

import (
	"context"
	"errors"

	"chatrr-engagement-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared by the storage layer and the services above it.
var (
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("validation failed")
	ErrUnauthorized           = errors.New("not authorized")
	ErrPersistence            = errors.New("persistence failure")
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrDuplicateProfile       = errors.New("profile already exists for user")
)

// ProfileFilter selects the predicate and sort order of a directory query
type ProfileFilter string

const (
	FilterAll           ProfileFilter = "all"
	FilterOnline        ProfileFilter = "online"
	FilterEarnings      ProfileFilter = "earnings"
	FilterChatsReceived ProfileFilter = "chatsReceived"
)

// Valid reports whether f is a known filter
func (f ProfileFilter) Valid() bool {
	switch f {
	case FilterAll, FilterOnline, FilterEarnings, FilterChatsReceived:
		return true
	}
	return false
}

// ProfileQueryParams contains normalized directory query parameters
type ProfileQueryParams struct {
	Search string
	Filter ProfileFilter
	Limit  int
	Offset int
}

// CreateProfileParams contains the fields of a new profile
type CreateProfileParams struct {
	UserId    string
	Name      string
	Bio       string
	Avatar    string
	ChatPrice decimal.Decimal
}

// UpdateProfileDetailsParams replaces the editable display fields of a profile
type UpdateProfileDetailsParams struct {
	UserId    string
	Name      string
	Bio       string
	Avatar    string
	ChatPrice decimal.Decimal
}

// ProfileCounters is the accounting state of a profile at a given version
type ProfileCounters struct {
	Earnings          decimal.Decimal
	ChatsReceived     int64
	CurrentWeekChats  int64
	PreviousWeekChats int64
}

// CreateMessageParams contains the fields of a new message
type CreateMessageParams struct {
	SenderId    string
	RecipientId string
	Subject     string
	Content     string
	ReplyTo     string
}

// UserStore reads and creates user accounts
type UserStore interface {
	CreateUser(ctx context.Context, username, twitter string) (*models.User, error)
	GetUserById(ctx context.Context, userId string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// ProfileStore persists profiles and their counters
type ProfileStore interface {
	CreateProfile(ctx context.Context, params CreateProfileParams) (*models.Profile, error)
	UpdateProfileDetails(ctx context.Context, params UpdateProfileDetailsParams) (*models.Profile, error)
	GetProfileById(ctx context.Context, profileId string) (*models.Profile, error)
	GetProfileByUserId(ctx context.Context, userId string) (*models.ProfileWithUser, error)
	// UpdateProfileCounters writes counters only if the stored version still equals expectedVersion.
	// Returns ErrConcurrentModification when it does not.
	UpdateProfileCounters(ctx context.Context, profileId string, expectedVersion int64, counters ProfileCounters) error
	QueryProfiles(ctx context.Context, params ProfileQueryParams) ([]models.ProfileWithUser, int64, error)
}

// ChatLedger is the per-profile, per-day chat count store
type ChatLedger interface {
	// IncrementChatRecord adds one to the (profile, day) count, creating the row at 1 if absent.
	IncrementChatRecord(ctx context.Context, profileId, day string) (*models.ChatRecord, error)
	// GetChatRecords returns rows with fromDay <= day <= toDay, oldest first.
	GetChatRecords(ctx context.Context, profileId, fromDay, toDay string) ([]models.ChatRecord, error)
}

// MessageStore persists messages
type MessageStore interface {
	CreateMessage(ctx context.Context, params CreateMessageParams) (*models.Message, error)
	GetMessage(ctx context.Context, messageId string) (*models.MessageWithUsers, error)
	ListInbox(ctx context.Context, recipientId string) ([]models.MessageWithUsers, error)
	ListSent(ctx context.Context, senderId string) ([]models.MessageWithUsers, error)
	MarkMessageRead(ctx context.Context, messageId string) error
	DeleteMessage(ctx context.Context, messageId string) error
	CountUnread(ctx context.Context, recipientId string) (int64, error)
}

// EngagementStore is the full contract the SQLite backend satisfies
type EngagementStore interface {
	UserStore
	ProfileStore
	ChatLedger
	MessageStore

	Ping(ctx context.Context) error
	RunMaintenance(ctx context.Context) error
	Close()
}
