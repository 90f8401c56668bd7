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

package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"chatrr-engagement-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type SeedProfile struct {
	Name      string `yaml:"name"`
	Bio       string `yaml:"bio"`
	Avatar    string `yaml:"avatar"`
	ChatPrice string `yaml:"chat_price"`
}

type SeedUser struct {
	Username string       `yaml:"username"`
	Twitter  string       `yaml:"twitter"`
	Profile  *SeedProfile `yaml:"profile"`
}

type SeedFile struct {
	Users []SeedUser `yaml:"users"`
}

// SeedResult counts what ApplySeed created and skipped
type SeedResult struct {
	UsersCreated    int
	ProfilesCreated int
	Skipped         int
}

func LoadSeedFile(seedFile string) (*SeedFile, error) {
	var seedPath string
	if filepath.IsAbs(seedFile) {
		seedPath = seedFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		seedPath = filepath.Join(wd, seedFile)
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", seedFile, err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", seedFile, err)
	}

	for i, u := range seed.Users {
		if u.Username == "" {
			return nil, fmt.Errorf("user at index %d missing username", i)
		}
		if u.Profile == nil {
			continue
		}
		if u.Profile.Name == "" {
			return nil, fmt.Errorf("profile for %s missing name", u.Username)
		}
		if u.Profile.ChatPrice != "" {
			if _, err := decimal.NewFromString(u.Profile.ChatPrice); err != nil {
				return nil, fmt.Errorf("profile for %s has invalid chat_price %q: %w", u.Username, u.Profile.ChatPrice, err)
			}
		}
	}

	return &seed, nil
}

// ApplySeed creates the users and profiles of a seed file. Existing usernames are skipped.
func ApplySeed(ctx context.Context, users store.UserStore, profiles store.ProfileStore, seed *SeedFile) (SeedResult, error) {
	var result SeedResult

	for _, u := range seed.Users {
		if _, err := users.GetUserByUsername(ctx, u.Username); err == nil {
			zap.L().Info("User already exists, skipping", zap.String("username", u.Username))
			result.Skipped++
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return result, err
		}

		user, err := users.CreateUser(ctx, u.Username, u.Twitter)
		if err != nil {
			return result, fmt.Errorf("failed to create user %s: %w", u.Username, err)
		}
		result.UsersCreated++

		if u.Profile == nil {
			continue
		}

		price := decimal.Zero
		if u.Profile.ChatPrice != "" {
			price = decimal.RequireFromString(u.Profile.ChatPrice)
		}
		_, err = profiles.CreateProfile(ctx, store.CreateProfileParams{
			UserId:    user.Id,
			Name:      u.Profile.Name,
			Bio:       u.Profile.Bio,
			Avatar:    u.Profile.Avatar,
			ChatPrice: price,
		})
		if err != nil {
			return result, fmt.Errorf("failed to create profile for %s: %w", u.Username, err)
		}
		result.ProfilesCreated++
	}

	zap.L().Info("Seed applied",
		zap.Int("users_created", result.UsersCreated),
		zap.Int("profiles_created", result.ProfilesCreated),
		zap.Int("skipped", result.Skipped))
	return result, nil
}
