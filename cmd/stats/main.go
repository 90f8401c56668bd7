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

package main

import (
	"context"
	"flag"
	"fmt"

	"chatrr-engagement-go/internal/common"
	"chatrr-engagement-go/internal/models"
	"chatrr-engagement-go/internal/stats"
	"chatrr-engagement-go/internal/store"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type reportStats struct {
	profiles   int
	totalChats int64
	weekChats  int64
}

func loadProfiles(ctx context.Context, st store.EngagementStore, username string, limit int) ([]models.ProfileWithUser, error) {
	if username == "" {
		profiles, _, err := st.QueryProfiles(ctx, store.ProfileQueryParams{
			Filter: store.FilterChatsReceived,
			Limit:  limit,
		})
		return profiles, err
	}

	user, err := st.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", username, err)
	}
	profile, err := st.GetProfileByUserId(ctx, user.Id)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile for %s: %w", username, err)
	}
	return []models.ProfileWithUser{*profile}, nil
}

func printProfile(p models.ProfileWithUser, history []models.ChatPoint) {
	growth := stats.WeeklyGrowth(p.CurrentWeekChats, p.PreviousWeekChats)

	fmt.Printf("\n┌─ Profile: %s (@%s)\n", common.TruncateString(p.Name, 40), p.Username)
	fmt.Printf("│  ID: %s\n", p.Id)
	common.PrintBoxSeparator(78)
	fmt.Printf("%s %-20s: %d\n", common.BoxPrefix(false), "Chats received", p.ChatsReceived)
	fmt.Printf("%s %-20s: %d\n", common.BoxPrefix(false), "This week", p.CurrentWeekChats)
	fmt.Printf("%s %-20s: %d\n", common.BoxPrefix(false), "Last week", p.PreviousWeekChats)
	fmt.Printf("%s %-20s: %s\n", common.BoxPrefix(false), "Growth", stats.FormatGrowth(growth))

	if len(history) == 0 {
		fmt.Printf("%s %-20s: n/a\n", common.BoxPrefix(true), "Last 7 days")
		return
	}
	fmt.Printf("%s %-20s: %s\n", common.BoxPrefix(true), "Last 7 days", common.Sparkline(history))
	fmt.Printf("%s %-20s  %s .. %s\n", common.BoxDetailPrefix(true), "", history[0].Date, history[len(history)-1].Date)
}

func main() {
	ctx := context.Background()

	usernameFlag := flag.String("username", "", "Show a single creator by username (optional)")
	limitFlag := flag.Int("limit", 10, "Number of top profiles to show")
	flag.Parse()

	cfg, loggerCleanup := common.LoadConfig()
	defer loggerCleanup()

	calendar, err := common.NewCalendar(cfg.Stats)
	if err != nil {
		zap.L().Fatal("Invalid stats calendar", zap.Error(err))
	}

	zap.L().Info("Connecting to database", zap.String("path", cfg.Database.Path))
	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	profiles, err := loadProfiles(ctx, dbService, *usernameFlag, *limitFlag)
	if err != nil {
		zap.L().Fatal("Failed to load profiles", zap.Error(err))
	}

	history := stats.NewHistoryView(dbService, calendar)
	now := clockwork.NewRealClock().Now()

	common.PrintHeader("CHAT ENGAGEMENT REPORT", common.DefaultWidth)

	var report reportStats
	for _, p := range profiles {
		points, err := history.Last7Days(ctx, p.Id, now)
		if err != nil {
			zap.L().Error("Failed to load chat history",
				zap.String("profile_id", p.Id),
				zap.Error(err))
		}
		printProfile(p, points)

		report.profiles++
		report.totalChats += p.ChatsReceived
		report.weekChats += p.CurrentWeekChats
	}

	summary := fmt.Sprintf("SUMMARY: %d profiles, %d chats received (%d this week)",
		report.profiles, report.totalChats, report.weekChats)
	common.PrintSeparatorNewline("─", common.DefaultWidth)
	common.PrintFooter(summary, common.DefaultWidth)

	zap.L().Info("Engagement report completed",
		zap.Int("profiles", report.profiles),
		zap.Int64("total_chats", report.totalChats))
}
