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
	"errors"
	"fmt"
	"time"

	"chatrr-engagement-go/internal/models"
	"chatrr-engagement-go/internal/store"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// DefaultMaxUpdateRetries bounds re-reads after a version conflict on the profile counters
const DefaultMaxUpdateRetries = 3

// Aggregator keeps a profile's lifetime and weekly chat counters and its daily ledger up to date
type Aggregator struct {
	profiles   store.ProfileStore
	ledger     store.ChatLedger
	clock      clockwork.Clock
	calendar   Calendar
	maxRetries int
}

type AggregatorOption func(*Aggregator)

func WithClock(clock clockwork.Clock) AggregatorOption {
	return func(a *Aggregator) {
		if clock != nil {
			a.clock = clock
		}
	}
}

func WithMaxRetries(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n >= 0 {
			a.maxRetries = n
		}
	}
}

func NewAggregator(profiles store.ProfileStore, ledger store.ChatLedger, calendar Calendar, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		profiles:   profiles,
		ledger:     ledger,
		clock:      clockwork.NewRealClock(),
		calendar:   calendar,
		maxRetries: DefaultMaxUpdateRetries,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) Calendar() Calendar {
	return a.calendar
}

func (a *Aggregator) Clock() clockwork.Clock {
	return a.clock
}

// RecordChat counts one received chat against the profile.
// The rollover decision uses the aggregator's clock, not occurredAt.
func (a *Aggregator) RecordChat(ctx context.Context, profileId string, occurredAt time.Time) (*store.ProfileCounters, error) {
	for attempt := 0; ; attempt++ {
		profile, err := a.profiles.GetProfileById(ctx, profileId)
		if err != nil {
			return nil, err
		}

		updated := ApplyChat(countersOf(profile), a.clock.Now(), a.calendar)

		err = a.profiles.UpdateProfileCounters(ctx, profileId, profile.Version, updated)
		if err == nil {
			zap.L().Debug("Recorded chat on profile",
				zap.String("profile_id", profileId),
				zap.Time("occurred_at", occurredAt),
				zap.Int64("chats_received", updated.ChatsReceived),
				zap.Int64("current_week_chats", updated.CurrentWeekChats),
				zap.Int64("previous_week_chats", updated.PreviousWeekChats))
			return &updated, nil
		}
		if !errors.Is(err, store.ErrConcurrentModification) {
			return nil, err
		}
		if attempt >= a.maxRetries {
			zap.L().Warn("Giving up on profile counter update",
				zap.String("profile_id", profileId),
				zap.Int("attempts", attempt+1))
			return nil, fmt.Errorf("profile %s after %d attempts: %w", profileId, attempt+1, err)
		}

		zap.L().Debug("Profile counters changed underneath, retrying",
			zap.String("profile_id", profileId),
			zap.Int("attempt", attempt+1))

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

// RecordLedgerEntry adds one to the profile's ledger row for occurredAt's calendar day
func (a *Aggregator) RecordLedgerEntry(ctx context.Context, profileId string, occurredAt time.Time) (*models.ChatRecord, error) {
	return a.ledger.IncrementChatRecord(ctx, profileId, a.calendar.DayKey(occurredAt))
}

func countersOf(p *models.Profile) store.ProfileCounters {
	return store.ProfileCounters{
		Earnings:          p.Earnings,
		ChatsReceived:     p.ChatsReceived,
		CurrentWeekChats:  p.CurrentWeekChats,
		PreviousWeekChats: p.PreviousWeekChats,
	}
}
