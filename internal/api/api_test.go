package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"chatrr-engagement-go/internal/database"
	"chatrr-engagement-go/internal/ingest"
	"chatrr-engagement-go/internal/models"
	"chatrr-engagement-go/internal/stats"
	"chatrr-engagement-go/internal/store"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// 2025-03-04 is a Tuesday
var testNow = time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db      *database.Service
	service *EngagementService
	clock   *clockwork.FakeClock
}

func setupTestEnv(t *testing.T) (*testEnv, func()) {
	t.Helper()

	db, err := database.NewService(context.Background(),
		models.DatabaseConfig{Path: ":memory:"},
		models.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1, PingTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	clock := clockwork.NewFakeClockAt(testNow)
	calendar := stats.MustCalendar(time.UTC, time.Sunday)
	aggregator := stats.NewAggregator(db, db, calendar, stats.WithClock(clock))
	dispatcher := ingest.NewDispatcher(aggregator, models.IngestConfig{})
	history := stats.NewHistoryView(db, calendar)

	env := &testEnv{
		db:      db,
		service: NewEngagementService(db, history, dispatcher, clock),
		clock:   clock,
	}
	return env, db.Close
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := e.db.CreateUser(context.Background(), username, "@"+username)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func (e *testEnv) createProfile(t *testing.T, username string) (*models.User, *models.ProfileView) {
	t.Helper()
	user := e.createUser(t, username)
	view, created, err := e.service.Profiles.Upsert(context.Background(), user.Id, UpsertProfileParams{Name: "Profile " + username})
	if err != nil {
		t.Fatalf("Failed to create profile for %s: %v", username, err)
	}
	if !created {
		t.Fatalf("Expected profile for %s to be created", username)
	}
	return user, view
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestUpsert_CreateThenPartialUpdate(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	user := env.createUser(t, "alice")

	created, isNew, err := env.service.Profiles.Upsert(ctx, user.Id, UpsertProfileParams{
		Name:      "  Alice  ",
		Bio:       strPtr("Talks about Go"),
		Avatar:    strPtr("avatar-1"),
		ChatPrice: decPtr("15.5"),
	})
	if err != nil {
		t.Fatalf("Upsert create failed: %v", err)
	}
	if !isNew {
		t.Error("Expected create on first upsert")
	}
	if created.Name != "Alice" {
		t.Errorf("Expected trimmed name, got %q", created.Name)
	}
	if created.Username != "alice" || created.Twitter != "@alice" {
		t.Errorf("Expected owner handles, got %q %q", created.Username, created.Twitter)
	}

	updated, isNew, err := env.service.Profiles.Upsert(ctx, user.Id, UpsertProfileParams{
		Name: "Alice B",
		Bio:  strPtr(""),
	})
	if err != nil {
		t.Fatalf("Upsert update failed: %v", err)
	}
	if isNew {
		t.Error("Expected update on second upsert")
	}
	if updated.Name != "Alice B" {
		t.Errorf("Expected name to be replaced, got %q", updated.Name)
	}
	if updated.Bio != "Talks about Go" || updated.Avatar != "avatar-1" {
		t.Errorf("Expected bio and avatar kept, got %q %q", updated.Bio, updated.Avatar)
	}
	if !updated.ChatPrice.Equal(decimal.RequireFromString("15.5")) {
		t.Errorf("Expected chat price kept, got %s", updated.ChatPrice.String())
	}
	if updated.Id != created.Id {
		t.Errorf("Expected same profile, got %s and %s", created.Id, updated.Id)
	}

	zeroPrice, _, err := env.service.Profiles.Upsert(ctx, user.Id, UpsertProfileParams{Name: "Alice B", ChatPrice: decPtr("0")})
	if err != nil {
		t.Fatalf("Upsert update failed: %v", err)
	}
	if !zeroPrice.ChatPrice.IsZero() {
		t.Errorf("Expected explicit zero price to apply, got %s", zeroPrice.ChatPrice.String())
	}
}

func TestUpsert_Validation(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	user := env.createUser(t, "alice")

	tests := []struct {
		name   string
		params UpsertProfileParams
	}{
		{"missing name", UpsertProfileParams{Name: "   "}},
		{"name too long", UpsertProfileParams{Name: strings.Repeat("n", 51)}},
		{"bio too long", UpsertProfileParams{Name: "ok", Bio: strPtr(strings.Repeat("b", 501))}},
		{"negative price", UpsertProfileParams{Name: "ok", ChatPrice: decPtr("-1")}},
		{"price above limit", UpsertProfileParams{Name: "ok", ChatPrice: decPtr("1000.01")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.service.Profiles.Upsert(ctx, user.Id, tt.params)
			if !errors.Is(err, store.ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}

	if _, _, err := env.service.Profiles.Upsert(ctx, user.Id, UpsertProfileParams{Name: "ok", ChatPrice: decPtr("1000")}); err != nil {
		t.Errorf("Expected price 1000 to be accepted, got %v", err)
	}
	if _, _, err := env.service.Profiles.Upsert(ctx, "missing", UpsertProfileParams{Name: "ok"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestMine_NoProfile(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	user := env.createUser(t, "alice")
	if _, err := env.service.Profiles.Mine(context.Background(), user.Id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSend_AccountsForRecipient(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	sender := env.createUser(t, "sender")
	recipient, profile := env.createProfile(t, "creator")

	for i := 0; i < 3; i++ {
		if _, err := env.service.Messages.Send(ctx, sender.Id, SendMessageParams{
			RecipientId: recipient.Id, Subject: "hello", Content: fmt.Sprintf("message %d", i),
		}); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}

	view, err := env.service.Profiles.ById(ctx, profile.Id)
	if err != nil {
		t.Fatalf("ById failed: %v", err)
	}
	if view.ChatsReceived != 3 || view.CurrentWeekChats != 3 {
		t.Errorf("Expected 3 chats, got received=%d current=%d", view.ChatsReceived, view.CurrentWeekChats)
	}
	if !view.Earnings.IsZero() {
		t.Errorf("Expected earnings 0, got %s", view.Earnings.String())
	}

	history, err := env.service.Profiles.ChatHistory(ctx, profile.Id)
	if err != nil {
		t.Fatalf("ChatHistory failed: %v", err)
	}
	if len(history) != 7 {
		t.Fatalf("Expected 7 days, got %d", len(history))
	}
	if last := history[6]; last.Date != "2025-03-04" || last.Count != 3 {
		t.Errorf("Expected 3 chats today, got %+v", last)
	}
}

func TestSend_SelfSendChangesNothing(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	user, profile := env.createProfile(t, "creator")

	_, err := env.service.Messages.Send(ctx, user.Id, SendMessageParams{
		RecipientId: user.Id, Subject: "me", Content: "myself",
	})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("Expected ErrValidation, got %v", err)
	}

	view, err := env.service.Profiles.ById(ctx, profile.Id)
	if err != nil {
		t.Fatalf("ById failed: %v", err)
	}
	if view.ChatsReceived != 0 || view.CurrentWeekChats != 0 {
		t.Errorf("Expected untouched counters, got %+v", view)
	}

	history, err := env.service.Profiles.ChatHistory(ctx, profile.Id)
	if err != nil {
		t.Fatalf("ChatHistory failed: %v", err)
	}
	for _, p := range history {
		if p.Count != 0 {
			t.Errorf("Expected no ledger entries, got %+v", p)
		}
	}

	sent, err := env.service.Messages.Sent(ctx, user.Id)
	if err != nil {
		t.Fatalf("Sent failed: %v", err)
	}
	if len(sent) != 0 {
		t.Errorf("Expected no stored message, got %d", len(sent))
	}
}

func TestSend_Validation(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	sender := env.createUser(t, "sender")
	recipient := env.createUser(t, "recipient")

	tests := []struct {
		name     string
		params   SendMessageParams
		expected error
	}{
		{"missing subject", SendMessageParams{RecipientId: recipient.Id, Content: "x"}, store.ErrValidation},
		{"blank content", SendMessageParams{RecipientId: recipient.Id, Subject: "x", Content: "   "}, store.ErrValidation},
		{"subject too long", SendMessageParams{RecipientId: recipient.Id, Subject: strings.Repeat("s", 101), Content: "x"}, store.ErrValidation},
		{"unknown recipient", SendMessageParams{RecipientId: "missing", Subject: "x", Content: "x"}, store.ErrNotFound},
		{"unknown reply target", SendMessageParams{RecipientId: recipient.Id, Subject: "x", Content: "x", ReplyTo: "missing"}, store.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.service.Messages.Send(ctx, sender.Id, tt.params); !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestSend_RecipientWithoutProfile(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	sender := env.createUser(t, "sender")
	recipient := env.createUser(t, "recipient")

	message, err := env.service.Messages.Send(ctx, sender.Id, SendMessageParams{
		RecipientId: recipient.Id, Subject: "hi", Content: "there",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if message.SenderUsername != "sender" || message.RecipientUsername != "recipient" {
		t.Errorf("Unexpected usernames: %+v", message)
	}
}

func TestMessages_GetAndDeleteAuthorization(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	sender := env.createUser(t, "sender")
	recipient := env.createUser(t, "recipient")
	stranger := env.createUser(t, "stranger")

	message, err := env.service.Messages.Send(ctx, sender.Id, SendMessageParams{
		RecipientId: recipient.Id, Subject: "hi", Content: "there",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if _, err := env.service.Messages.Get(ctx, stranger.Id, message.Id); !errors.Is(err, store.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for stranger, got %v", err)
	}

	// Sender reading does not mark it read
	if got, err := env.service.Messages.Get(ctx, sender.Id, message.Id); err != nil || got.IsRead {
		t.Errorf("Expected unread message for sender, got %+v (%v)", got, err)
	}
	unread, err := env.service.Messages.UnreadCount(ctx, recipient.Id)
	if err != nil || unread != 1 {
		t.Errorf("Expected 1 unread, got %d (%v)", unread, err)
	}

	got, err := env.service.Messages.Get(ctx, recipient.Id, message.Id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.IsRead {
		t.Error("Expected message marked read for recipient")
	}
	unread, err = env.service.Messages.UnreadCount(ctx, recipient.Id)
	if err != nil || unread != 0 {
		t.Errorf("Expected 0 unread, got %d (%v)", unread, err)
	}

	if err := env.service.Messages.Delete(ctx, sender.Id, message.Id); !errors.Is(err, store.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for sender delete, got %v", err)
	}
	if err := env.service.Messages.Delete(ctx, recipient.Id, message.Id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := env.service.Messages.Get(ctx, recipient.Id, message.Id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestChatHistory_UnknownProfile(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	if _, err := env.service.Profiles.ChatHistory(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestQuery_PaginationAndOrdering(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	sender := env.createUser(t, "sender")

	chats := map[string]int{"ann": 2, "ben": 5, "cat": 0, "dan": 5, "eve": 1}
	for name, n := range chats {
		recipient, _ := env.createProfile(t, name)
		for i := 0; i < n; i++ {
			if _, err := env.service.Messages.Send(ctx, sender.Id, SendMessageParams{
				RecipientId: recipient.Id, Subject: "hi", Content: "there",
			}); err != nil {
				t.Fatalf("Send failed: %v", err)
			}
		}
	}

	page, err := env.service.Profiles.Query(ctx, ProfileQuery{Filter: "chatsReceived", Limit: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if page.Pagination.Total != 5 || page.Pagination.Page != 1 || page.Pagination.Pages != 3 {
		t.Errorf("Unexpected pagination: %+v", page.Pagination)
	}

	var all []models.ProfileView
	for p := 1; p <= page.Pagination.Pages; p++ {
		next, err := env.service.Profiles.Query(ctx, ProfileQuery{Filter: "chatsReceived", Page: p, Limit: 2})
		if err != nil {
			t.Fatalf("Query page %d failed: %v", p, err)
		}
		all = append(all, next.Profiles...)
	}
	if len(all) != 5 {
		t.Fatalf("Expected 5 profiles across pages, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ChatsReceived > all[i-1].ChatsReceived {
			t.Errorf("Order broken at %d: %d after %d", i, all[i].ChatsReceived, all[i-1].ChatsReceived)
		}
	}

	again, err := env.service.Profiles.Query(ctx, ProfileQuery{Filter: "chatsReceived", Limit: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	for i := range page.Profiles {
		if page.Profiles[i].Id != again.Profiles[i].Id {
			t.Errorf("Repeated query differs at %d", i)
		}
	}

	earnings, err := env.service.Profiles.Query(ctx, ProfileQuery{Filter: "earnings"})
	if err != nil {
		t.Fatalf("Query earnings failed: %v", err)
	}
	for _, p := range earnings.Profiles {
		if !p.Earnings.IsZero() {
			t.Errorf("Expected zero earnings for %s, got %s", p.Username, p.Earnings.String())
		}
	}

	search, err := env.service.Profiles.Query(ctx, ProfileQuery{Search: "BEN"})
	if err != nil {
		t.Fatalf("Query search failed: %v", err)
	}
	if len(search.Profiles) != 1 || search.Profiles[0].Username != "ben" {
		t.Errorf("Expected only ben, got %+v", search.Profiles)
	}
}

func TestQuery_Normalization(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := env.service.Profiles.Query(ctx, ProfileQuery{Filter: "popular"}); !errors.Is(err, store.ErrValidation) {
		t.Errorf("Expected ErrValidation for unknown filter, got %v", err)
	}

	page, err := env.service.Profiles.Query(ctx, ProfileQuery{Page: -3, Limit: 1000})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if page.Pagination.Page != 1 || page.Pagination.Total != 0 || page.Pagination.Pages != 0 {
		t.Errorf("Unexpected pagination: %+v", page.Pagination)
	}
	if page.Profiles == nil {
		t.Error("Expected empty slice, got nil")
	}
}

func TestProfileView_Growth(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	user, profile := env.createProfile(t, "creator")

	stored, err := env.db.GetProfileById(ctx, profile.Id)
	if err != nil {
		t.Fatalf("GetProfileById failed: %v", err)
	}
	err = env.db.UpdateProfileCounters(ctx, profile.Id, stored.Version, store.ProfileCounters{
		Earnings: decimal.Zero, ChatsReceived: 16, CurrentWeekChats: 6, PreviousWeekChats: 10,
	})
	if err != nil {
		t.Fatalf("UpdateProfileCounters failed: %v", err)
	}

	view, err := env.service.Profiles.ByUser(ctx, user.Id)
	if err != nil {
		t.Fatalf("ByUser failed: %v", err)
	}
	if view.Growth != -40 || view.GrowthLabel != "-40%" {
		t.Errorf("Expected -40%%, got %d %s", view.Growth, view.GrowthLabel)
	}
}

func TestHealthCheck(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	if err := env.service.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}
}
