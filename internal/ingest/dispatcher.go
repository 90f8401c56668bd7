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

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chatrr-engagement-go/internal/models"
	"chatrr-engagement-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageDelivered is emitted after a message to a user with a profile has been persisted
type MessageDelivered struct {
	EventId    string
	MessageId  string
	ProfileId  string
	OccurredAt time.Time
}

// Recorder applies a delivered message to the recipient's counters and daily ledger
type Recorder interface {
	RecordChat(ctx context.Context, profileId string, occurredAt time.Time) (*store.ProfileCounters, error)
	RecordLedgerEntry(ctx context.Context, profileId string, occurredAt time.Time) (*models.ChatRecord, error)
}

// Dispatcher hands MessageDelivered events to the recorder, inline or through a bounded queue
type Dispatcher struct {
	recorder Recorder
	async    bool
	queue    chan MessageDelivered

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	doneChan chan struct{}
}

func NewDispatcher(recorder Recorder, cfg models.IngestConfig) *Dispatcher {
	d := &Dispatcher{
		recorder: recorder,
		async:    cfg.Async,
	}
	if cfg.Async {
		size := cfg.QueueSize
		if size <= 0 {
			size = 256
		}
		d.queue = make(chan MessageDelivered, size)
	}
	return d
}

// Start launches the queue worker when the dispatcher is asynchronous
func (d *Dispatcher) Start(ctx context.Context) {
	if !d.async {
		zap.L().Info("Ingest dispatcher running synchronously")
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.stopChan = make(chan struct{})
	d.doneChan = make(chan struct{})
	d.running = true

	go d.run(ctx)

	zap.L().Info("Ingest dispatcher started", zap.Int("queue_size", cap(d.queue)))
}

// Stop waits for the worker to exit and applies whatever is still queued
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.stopChan)
	d.mu.Unlock()

	<-d.doneChan
	d.drain(context.Background())
	zap.L().Info("Ingest dispatcher stopped")
}

// Deliver records the event. The returned error is informational; callers log it and move on.
func (d *Dispatcher) Deliver(ctx context.Context, event MessageDelivered) error {
	if event.ProfileId == "" {
		return fmt.Errorf("%w: message delivered event without profile", store.ErrValidation)
	}
	if event.EventId == "" {
		event.EventId = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if d.async && d.enqueue(event) {
		return nil
	}
	return d.apply(ctx, event)
}

func (d *Dispatcher) enqueue(event MessageDelivered) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return false
	}

	select {
	case d.queue <- event:
		return true
	default:
		zap.L().Warn("Ingest queue full, applying inline",
			zap.String("event_id", event.EventId),
			zap.String("profile_id", event.ProfileId))
		return false
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.doneChan)

	for {
		select {
		case event := <-d.queue:
			if err := d.apply(ctx, event); err != nil {
				zap.L().Warn("Failed to apply queued chat event",
					zap.String("event_id", event.EventId),
					zap.Error(err))
			}
		case <-d.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case event := <-d.queue:
			if err := d.apply(ctx, event); err != nil {
				zap.L().Warn("Failed to apply queued chat event during shutdown",
					zap.String("event_id", event.EventId),
					zap.Error(err))
			}
		default:
			return
		}
	}
}

// apply runs both accounting steps; a failure in one does not skip the other
func (d *Dispatcher) apply(ctx context.Context, event MessageDelivered) error {
	var errs []error

	if _, err := d.recorder.RecordChat(ctx, event.ProfileId, event.OccurredAt); err != nil {
		zap.L().Warn("Failed to update profile chat counters",
			zap.String("event_id", event.EventId),
			zap.String("profile_id", event.ProfileId),
			zap.Error(err))
		errs = append(errs, fmt.Errorf("record chat: %w", err))
	}

	if _, err := d.recorder.RecordLedgerEntry(ctx, event.ProfileId, event.OccurredAt); err != nil {
		zap.L().Warn("Failed to update daily chat ledger",
			zap.String("event_id", event.EventId),
			zap.String("profile_id", event.ProfileId),
			zap.Error(err))
		errs = append(errs, fmt.Errorf("record ledger entry: %w", err))
	}

	if len(errs) == 0 {
		zap.L().Debug("Applied chat event",
			zap.String("event_id", event.EventId),
			zap.String("message_id", event.MessageId),
			zap.String("profile_id", event.ProfileId))
	}
	return errors.Join(errs...)
}
