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
	"time"

	"github.com/shopspring/decimal"
)

// ProfileView is the public JSON shape of a profile
type ProfileView struct {
	Id                string          `json:"id"`
	UserId            string          `json:"user"`
	Username          string          `json:"username,omitempty"`
	Twitter           string          `json:"twitter,omitempty"`
	Name              string          `json:"name"`
	Bio               string          `json:"bio"`
	Avatar            string          `json:"avatar"`
	ChatPrice         decimal.Decimal `json:"chatPrice"`
	IsActive          bool            `json:"isActive"`
	Earnings          decimal.Decimal `json:"earnings"`
	ChatsReceived     int64           `json:"chatsReceived"`
	CurrentWeekChats  int64           `json:"currentWeekChats"`
	PreviousWeekChats int64           `json:"previousWeekChats"`
	Growth            int64           `json:"growth"`
	GrowthLabel       string          `json:"growthLabel"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Pagination describes one page of a listing
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// ProfilesPage is the result of a directory query
type ProfilesPage struct {
	Profiles   []ProfileView `json:"profiles"`
	Pagination Pagination    `json:"pagination"`
}

// ChatPoint is one day of the chat history series
type ChatPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// MessageView is the JSON shape of a message
type MessageView struct {
	Id                string    `json:"id"`
	SenderId          string    `json:"sender"`
	SenderUsername    string    `json:"senderUsername,omitempty"`
	RecipientId       string    `json:"recipient"`
	RecipientUsername string    `json:"recipientUsername,omitempty"`
	Subject           string    `json:"subject"`
	Content           string    `json:"content"`
	IsRead            bool      `json:"isRead"`
	ReplyTo           string    `json:"replyTo,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}
