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

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	fileFlag := flag.String("file", "seed.yaml", "Seed file with users and profiles")
	flag.Parse()

	cfg, loggerCleanup := common.LoadConfig()
	defer loggerCleanup()

	seed, err := common.LoadSeedFile(*fileFlag)
	if err != nil {
		zap.L().Fatal("Failed to load seed file", zap.String("file", *fileFlag), zap.Error(err))
	}
	zap.L().Info("Seed file loaded", zap.String("file", *fileFlag), zap.Int("users", len(seed.Users)))

	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	result, err := common.ApplySeed(ctx, dbService, dbService, seed)
	if err != nil {
		zap.L().Fatal("Failed to apply seed", zap.Error(err))
	}

	summary := fmt.Sprintf("SEED COMPLETE: %d users created, %d profiles created, %d skipped",
		result.UsersCreated, result.ProfilesCreated, result.Skipped)
	common.PrintFooter(summary, common.DefaultWidth)
}
