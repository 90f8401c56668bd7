package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"chatrr-engagement-go/internal/database"
	"chatrr-engagement-go/internal/models"
	"chatrr-engagement-go/internal/store"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

func setupTestStore(t *testing.T) (*database.Service, func()) {
	t.Helper()

	service, err := database.NewService(context.Background(),
		models.DatabaseConfig{Path: ":memory:"},
		models.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1, PingTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	return service, service.Close
}

func TestRegisterJobs(t *testing.T) {
	service, cleanup := setupTestStore(t)
	defer cleanup()

	s, err := New(time.UTC, clockwork.NewFakeClock())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Stop()

	cfg := models.SchedulerConfig{MaintenanceCron: "0 4 * * *", ReportCron: ""}
	if err := RegisterJobs(context.Background(), s, cfg, service, service); err != nil {
		t.Fatalf("RegisterJobs failed: %v", err)
	}

	names := s.JobNames()
	if len(names) != 1 || names[0] != JobLedgerMaintenance {
		t.Errorf("Expected only the maintenance job, got %v", names)
	}
}

func TestAddJob_InvalidCron(t *testing.T) {
	s, err := New(time.UTC, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Stop()

	if err := s.AddJob("broken", "not a cron", func() {}); err == nil {
		t.Error("Expected error for invalid cron expression")
	}
}

type countingMaintainer struct {
	runs int
	err  error
}

func (m *countingMaintainer) RunMaintenance(ctx context.Context) error {
	m.runs++
	return m.err
}

func TestMaintenanceJob(t *testing.T) {
	m := &countingMaintainer{}
	MaintenanceJob(context.Background(), m)()
	if m.runs != 1 {
		t.Errorf("Expected one maintenance run, got %d", m.runs)
	}

	m.err = errors.New("disk full")
	MaintenanceJob(context.Background(), m)()
	if m.runs != 2 {
		t.Errorf("Expected failures to be logged, not retried; got %d runs", m.runs)
	}
}

func TestMaintenanceJob_AgainstDatabase(t *testing.T) {
	service, cleanup := setupTestStore(t)
	defer cleanup()

	MaintenanceJob(context.Background(), service)()
	if err := service.Ping(context.Background()); err != nil {
		t.Errorf("Database unusable after maintenance: %v", err)
	}
}

func TestEngagementReport(t *testing.T) {
	service, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	seed := []struct {
		username          string
		current, previous int64
	}{
		{"quiet", 0, 0},
		{"busy", 6, 10},
		{"rising", 12, 10},
	}
	for _, s := range seed {
		user, err := service.CreateUser(ctx, s.username, "")
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		profile, err := service.CreateProfile(ctx, store.CreateProfileParams{UserId: user.Id, Name: s.username})
		if err != nil {
			t.Fatalf("CreateProfile failed: %v", err)
		}
		err = service.UpdateProfileCounters(ctx, profile.Id, profile.Version, store.ProfileCounters{
			Earnings:          decimal.Zero,
			ChatsReceived:     s.current + s.previous,
			CurrentWeekChats:  s.current,
			PreviousWeekChats: s.previous,
		})
		if err != nil {
			t.Fatalf("UpdateProfileCounters failed: %v", err)
		}
	}

	lines, err := EngagementReport(ctx, service)
	if err != nil {
		t.Fatalf("EngagementReport failed: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}

	expected := []struct {
		username string
		growth   string
	}{
		{"rising", "+20%"},
		{"busy", "-40%"},
		{"quiet", "+0%"},
	}
	for i, e := range expected {
		if lines[i].Username != e.username || lines[i].Growth != e.growth {
			t.Errorf("Line %d: expected %s %s, got %s %s", i, e.username, e.growth, lines[i].Username, lines[i].Growth)
		}
	}
}
