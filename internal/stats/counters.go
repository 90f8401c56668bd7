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
	"time"

	"chatrr-engagement-go/internal/store"

	"github.com/shopspring/decimal"
)

// ApplyChat returns the counters after one more received chat, evaluated at executedAt.
//
// The rollover snapshot is taken after the increment, so the chat that lands on the
// rollover day is counted in previousWeekChats and the running week restarts at zero.
// Every chat received on that day repeats the snapshot. Product has been asked to
// confirm this ordering; do not change it without that answer.
func ApplyChat(c store.ProfileCounters, executedAt time.Time, cal Calendar) store.ProfileCounters {
	c.ChatsReceived++

	// Payments are not implemented; chat price is never credited.
	c.Earnings = decimal.Zero

	c.CurrentWeekChats++

	if cal.IsRolloverDay(executedAt) {
		c.PreviousWeekChats = c.CurrentWeekChats
		c.CurrentWeekChats = 0
	}
	return c
}
