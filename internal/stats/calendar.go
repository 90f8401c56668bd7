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
	"fmt"
	"strings"
	"time"
)

// DayLayout is the ledger and history date format
const DayLayout = "2006-01-02"

// Calendar fixes the time zone that defines a "day" and the weekday on which weekly counters roll over
type Calendar struct {
	loc      *time.Location
	rollover time.Weekday
}

// NewCalendar returns a calendar for the named IANA zone ("Local" for the server zone, "UTC", "Europe/Paris", ...)
func NewCalendar(timezone string, rollover time.Weekday) (Calendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Calendar{}, fmt.Errorf("invalid stats timezone %q: %w", timezone, err)
	}
	return Calendar{loc: loc, rollover: rollover}, nil
}

// MustCalendar is NewCalendar for a known-good location
func MustCalendar(loc *time.Location, rollover time.Weekday) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc, rollover: rollover}
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

func (c Calendar) RolloverWeekday() time.Weekday {
	return c.rollover
}

// StartOfDay returns midnight of t's calendar day in the calendar's zone
func (c Calendar) StartOfDay(t time.Time) time.Time {
	local := t.In(c.Location())
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.Location())
}

// DayKey formats t's calendar day as YYYY-MM-DD
func (c Calendar) DayKey(t time.Time) string {
	return t.In(c.Location()).Format(DayLayout)
}

// IsRolloverDay reports whether t falls on the rollover weekday
func (c Calendar) IsRolloverDay(t time.Time) bool {
	return t.In(c.Location()).Weekday() == c.rollover
}

// ParseWeekday accepts full English weekday names, case-insensitively
func ParseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(name)) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", name)
}
