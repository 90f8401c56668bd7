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
	"chatrr-engagement-go/internal/models"
	"chatrr-engagement-go/internal/stats"
)

func profileView(p *models.Profile, username, twitter string) models.ProfileView {
	growth := stats.WeeklyGrowth(p.CurrentWeekChats, p.PreviousWeekChats)
	return models.ProfileView{
		Id:                p.Id,
		UserId:            p.UserId,
		Username:          username,
		Twitter:           twitter,
		Name:              p.Name,
		Bio:               p.Bio,
		Avatar:            p.Avatar,
		ChatPrice:         p.ChatPrice,
		IsActive:          p.IsActive,
		Earnings:          p.Earnings,
		ChatsReceived:     p.ChatsReceived,
		CurrentWeekChats:  p.CurrentWeekChats,
		PreviousWeekChats: p.PreviousWeekChats,
		Growth:            growth,
		GrowthLabel:       stats.FormatGrowth(growth),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func profileWithUserView(p *models.ProfileWithUser) models.ProfileView {
	return profileView(&p.Profile, p.Username, p.Twitter)
}

func messageView(m *models.MessageWithUsers) models.MessageView {
	return models.MessageView{
		Id:                m.Id,
		SenderId:          m.SenderId,
		SenderUsername:    m.SenderUsername,
		RecipientId:       m.RecipientId,
		RecipientUsername: m.RecipientUsername,
		Subject:           m.Subject,
		Content:           m.Content,
		IsRead:            m.IsRead,
		ReplyTo:           m.ReplyTo.String,
		CreatedAt:         m.CreatedAt,
	}
}
