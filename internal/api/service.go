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

package api

import (
	"context"
	"fmt"

	"chatrr-engagement-go/internal/ingest"
	"chatrr-engagement-go/internal/stats"
	"chatrr-engagement-go/internal/store"

	"github.com/jonboulle/clockwork"
)

// EngagementService groups the profile and message APIs over one store
type EngagementService struct {
	Profiles *ProfileService
	Messages *MessageService

	store store.EngagementStore
}

func NewEngagementService(st store.EngagementStore, history *stats.HistoryView, dispatcher *ingest.Dispatcher, clock clockwork.Clock) *EngagementService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &EngagementService{
		Profiles: NewProfileService(st, st, history, clock),
		Messages: NewMessageService(st, st, st, dispatcher, clock),
		store:    st,
	}
}

func (s *EngagementService) HealthCheck(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
