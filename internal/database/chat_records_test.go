package database

import (
	"context"
	"sync"
	"testing"
)

func TestIncrementChatRecord_CreatesThenIncrements(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	profile := createTestProfile(t, service, "bob", "Bob", "1")

	first, err := service.IncrementChatRecord(ctx, profile.Id, "2025-03-03")
	if err != nil {
		t.Fatalf("IncrementChatRecord failed: %v", err)
	}
	if first.Count != 1 {
		t.Errorf("Expected count 1 on first chat, got %d", first.Count)
	}

	second, err := service.IncrementChatRecord(ctx, profile.Id, "2025-03-03")
	if err != nil {
		t.Fatalf("IncrementChatRecord failed: %v", err)
	}
	if second.Count != 2 {
		t.Errorf("Expected count 2 on second chat, got %d", second.Count)
	}
	if second.Id != first.Id {
		t.Errorf("Expected the same ledger row, got %s and %s", first.Id, second.Id)
	}
}

func TestIncrementChatRecord_Concurrent(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	profile := createTestProfile(t, service, "bob", "Bob", "1")

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.IncrementChatRecord(ctx, profile.Id, "2025-03-04"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Concurrent increment failed: %v", err)
	}

	records, err := service.GetChatRecords(ctx, profile.Id, "2025-03-04", "2025-03-04")
	if err != nil {
		t.Fatalf("GetChatRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected a single row per day, got %d", len(records))
	}
	if records[0].Count != n {
		t.Errorf("Expected count %d, got %d", n, records[0].Count)
	}
}

func TestGetChatRecords_Range(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	profile := createTestProfile(t, service, "bob", "Bob", "1")
	other := createTestProfile(t, service, "eve", "Eve", "1")

	for _, day := range []string{"2025-02-28", "2025-03-01", "2025-03-05", "2025-03-07", "2025-03-08"} {
		if _, err := service.IncrementChatRecord(ctx, profile.Id, day); err != nil {
			t.Fatalf("IncrementChatRecord failed: %v", err)
		}
	}
	if _, err := service.IncrementChatRecord(ctx, other.Id, "2025-03-05"); err != nil {
		t.Fatalf("IncrementChatRecord failed: %v", err)
	}

	records, err := service.GetChatRecords(ctx, profile.Id, "2025-03-01", "2025-03-07")
	if err != nil {
		t.Fatalf("GetChatRecords failed: %v", err)
	}

	expected := []string{"2025-03-01", "2025-03-05", "2025-03-07"}
	if len(records) != len(expected) {
		t.Fatalf("Expected %d records, got %d", len(expected), len(records))
	}
	for i, day := range expected {
		if records[i].Day != day {
			t.Errorf("Position %d: expected day %s, got %s", i, day, records[i].Day)
		}
		if records[i].ProfileId != profile.Id {
			t.Errorf("Record %s belongs to %s", records[i].Id, records[i].ProfileId)
		}
	}
}

func TestGetChatRecords_UnknownProfile(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	records, err := service.GetChatRecords(context.Background(), "missing", "2025-03-01", "2025-03-07")
	if err != nil {
		t.Fatalf("GetChatRecords failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}
