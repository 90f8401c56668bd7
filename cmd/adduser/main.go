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
	"errors"
	"flag"
	"fmt"
	"regexp"

	"chatrr-engagement-go/internal/api"
	"chatrr-engagement-go/internal/common"
	"chatrr-engagement-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.]{2,30}$`)

func validateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("invalid username %q: use 2-30 letters, digits, '.' or '_'", username)
	}
	return nil
}

func main() {
	ctx := context.Background()

	usernameFlag := flag.String("username", "", "Username (required)")
	twitterFlag := flag.String("twitter", "", "Twitter handle (optional)")
	profileNameFlag := flag.String("profile-name", "", "Create a profile with this display name (optional)")
	priceFlag := flag.String("price", "0", "Chat price for the profile")
	flag.Parse()

	cfg, loggerCleanup := common.LoadConfig()
	defer loggerCleanup()

	if err := validateUsername(*usernameFlag); err != nil {
		zap.L().Fatal("Invalid username", zap.Error(err))
	}

	price, err := decimal.NewFromString(*priceFlag)
	if err != nil {
		zap.L().Fatal("Invalid price", zap.String("price", *priceFlag), zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	zap.L().Info("Creating user",
		zap.String("username", *usernameFlag),
		zap.String("twitter", *twitterFlag))

	user, err := services.DbService.CreateUser(ctx, *usernameFlag, *twitterFlag)
	if err != nil {
		if errors.Is(err, store.ErrValidation) {
			zap.L().Fatal("User already exists", zap.String("username", *usernameFlag))
		}
		zap.L().Fatal("Failed to create user", zap.Error(err))
	}

	fmt.Println()
	common.PrintHeader("USER CREATED", common.DefaultWidth)
	fmt.Printf("ID:       %s\n", user.Id)
	fmt.Printf("Username: %s\n", user.Username)
	if user.Twitter != "" {
		fmt.Printf("Twitter:  %s\n", user.Twitter)
	}
	common.PrintSeparator("=", common.DefaultWidth)

	if *profileNameFlag == "" {
		fmt.Println("\nNo -profile-name given, user created without a profile")
		return
	}

	profile, _, err := services.Engagement.Profiles.Upsert(ctx, user.Id, api.UpsertProfileParams{
		Name:      *profileNameFlag,
		ChatPrice: &price,
	})
	if err != nil {
		zap.L().Fatal("Failed to create profile", zap.String("user_id", user.Id), zap.Error(err))
	}

	fmt.Println()
	common.PrintHeader("PROFILE CREATED", common.DefaultWidth)
	fmt.Printf("ID:         %s\n", profile.Id)
	fmt.Printf("Name:       %s\n", profile.Name)
	fmt.Printf("Chat price: %s\n", profile.ChatPrice.String())
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println()

	zap.L().Info("User and profile created",
		zap.String("user_id", user.Id),
		zap.String("profile_id", profile.Id))
}
