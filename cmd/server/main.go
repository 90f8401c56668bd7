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
	"net/http"
	"os/signal"
	"syscall"

	"chatrr-engagement-go/internal/common"
	"chatrr-engagement-go/internal/scheduler"
	"chatrr-engagement-go/internal/server"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, loggerCleanup := common.LoadConfig()
	defer loggerCleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zap.L().Info("Starting Chatrr engagement server", zap.String("addr", cfg.Server.Addr))

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	services.Dispatcher.Start(ctx)

	sched, err := scheduler.New(services.Calendar.Location(), services.Clock)
	if err != nil {
		zap.L().Fatal("Failed to create scheduler", zap.Error(err))
	}
	if err := scheduler.RegisterJobs(ctx, sched, cfg.Scheduler, services.DbService, services.DbService); err != nil {
		zap.L().Fatal("Failed to register jobs", zap.Error(err))
	}
	sched.Start()
	zap.L().Info("Scheduler running", zap.Strings("jobs", sched.JobNames()))

	httpServer := server.New(cfg.Server, server.NewHandler(services.Engagement).Router())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("Shutdown signal received, stopping server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("Forced shutdown after timeout", zap.Error(err))
		}
		if err := sched.Stop(); err != nil {
			zap.L().Warn("Failed to stop scheduler", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("Server stopped with error", zap.Error(err))
		return
	}
	zap.L().Info("Server stopped gracefully")
}
