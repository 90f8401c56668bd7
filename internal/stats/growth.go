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
	"math"
)

// WeeklyGrowth is the week-over-week change in percent, rounded half up.
// Zero when there is no previous week to compare against.
func WeeklyGrowth(current, previous int64) int64 {
	if previous <= 0 {
		return 0
	}
	pct := float64(current-previous) / float64(previous) * 100
	return int64(math.Floor(pct + 0.5))
}

// FormatGrowth renders a growth value with an explicit sign, e.g. "+12%" or "-40%"
func FormatGrowth(growth int64) string {
	if growth < 0 {
		return fmt.Sprintf("%d%%", growth)
	}
	return fmt.Sprintf("+%d%%", growth)
}
