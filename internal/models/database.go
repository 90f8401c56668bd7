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

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// User represents an account owner. Accounts are created by the auth collaborator
// or by the seeding tools; this service only reads them.
type User struct {
	Id        string    `db:"id"`
	Username  string    `db:"username"`
	Twitter   string    `db:"twitter"`
	CreatedAt time.Time `db:"created_at"`
}

// Profile is a user's public paid-chat listing together with its chat counters
type Profile struct {
	Id                string          `db:"id"`
	UserId            string          `db:"user_id"`
	Name              string          `db:"name"`
	Bio               string          `db:"bio"`
	Avatar            string          `db:"avatar"`
	ChatPrice         decimal.Decimal `db:"chat_price"`
	IsActive          bool            `db:"is_active"`
	Earnings          decimal.Decimal `db:"earnings"`
	ChatsReceived     int64           `db:"chats_received"`
	CurrentWeekChats  int64           `db:"current_week_chats"`
	PreviousWeekChats int64           `db:"previous_week_chats"`
	Version           int64           `db:"version"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// ProfileWithUser is a profile joined with its owner's public handles
type ProfileWithUser struct {
	Profile
	Username string `db:"username"`
	Twitter  string `db:"twitter"`
}

// ChatRecord is one profile's message count for one calendar day
type ChatRecord struct {
	Id        string    `db:"id"`
	ProfileId string    `db:"profile_id"`
	Day       string    `db:"day"` // YYYY-MM-DD in the stats time zone
	Count     int64     `db:"count"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Message represents a chat request sent from one user to another
type Message struct {
	Id          string         `db:"id"`
	SenderId    string         `db:"sender_id"`
	RecipientId string         `db:"recipient_id"`
	Subject     string         `db:"subject"`
	Content     string         `db:"content"`
	IsRead      bool           `db:"is_read"`
	ReplyTo     sql.NullString `db:"reply_to"`
	CreatedAt   time.Time      `db:"created_at"`
}

// MessageWithUsers is a message joined with sender and recipient usernames
type MessageWithUsers struct {
	Message
	SenderUsername    string `db:"sender_username"`
	RecipientUsername string `db:"recipient_username"`
}
