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

package stats

import (
	"context"
	"time"

	"chatrr-engagement-go/internal/models"
	"chatrr-engagement-go/internal/store"
)

// HistoryDays is the length of the chat history window
const HistoryDays = 7

// HistoryView reads the daily ledger as a gap-filled series
type HistoryView struct {
	ledger   store.ChatLedger
	calendar Calendar
}

func NewHistoryView(ledger store.ChatLedger, calendar Calendar) *HistoryView {
	return &HistoryView{ledger: ledger, calendar: calendar}
}

// Last7Days returns exactly seven points, oldest first, ending on referenceDate's day.
// Days without a ledger row are reported as zero.
func (h *HistoryView) Last7Days(ctx context.Context, profileId string, referenceDate time.Time) ([]models.ChatPoint, error) {
	return h.LastNDays(ctx, profileId, referenceDate, HistoryDays)
}

func (h *HistoryView) LastNDays(ctx context.Context, profileId string, referenceDate time.Time, days int) ([]models.ChatPoint, error) {
	if days <= 0 {
		return []models.ChatPoint{}, nil
	}

	anchor := h.calendar.StartOfDay(referenceDate)
	points := make([]models.ChatPoint, days)
	for i := 0; i < days; i++ {
		// AddDate keeps midnight across DST transitions
		points[i].Date = anchor.AddDate(0, 0, i-(days-1)).Format(DayLayout)
	}

	records, err := h.ledger.GetChatRecords(ctx, profileId, points[0].Date, points[days-1].Date)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(records))
	for _, r := range records {
		counts[r.Day] += r.Count
	}
	for i := range points {
		points[i].Count = counts[points[i].Date]
	}
	return points, nil
}
