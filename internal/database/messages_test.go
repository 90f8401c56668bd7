package database

import (
	"context"
	"errors"
	"testing"

	"chatrr-engagement-go/internal/store"
)

func TestMessages_Lifecycle(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	alice, err := service.CreateUser(ctx, "alice", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	bob, err := service.CreateUser(ctx, "bob", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	first, err := service.CreateMessage(ctx, store.CreateMessageParams{
		SenderId: alice.Id, RecipientId: bob.Id, Subject: "hi", Content: "first",
	})
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	reply, err := service.CreateMessage(ctx, store.CreateMessageParams{
		SenderId: bob.Id, RecipientId: alice.Id, Subject: "re: hi", Content: "reply", ReplyTo: first.Id,
	})
	if err != nil {
		t.Fatalf("CreateMessage reply failed: %v", err)
	}

	got, err := service.GetMessage(ctx, reply.Id)
	if err != nil {
		t.Fatalf("GetMessage failed: %v", err)
	}
	if got.SenderUsername != "bob" || got.RecipientUsername != "alice" {
		t.Errorf("Unexpected usernames: %s -> %s", got.SenderUsername, got.RecipientUsername)
	}
	if !got.ReplyTo.Valid || got.ReplyTo.String != first.Id {
		t.Errorf("Expected reply_to %s, got %+v", first.Id, got.ReplyTo)
	}

	inbox, err := service.ListInbox(ctx, bob.Id)
	if err != nil {
		t.Fatalf("ListInbox failed: %v", err)
	}
	if len(inbox) != 1 || inbox[0].Id != first.Id {
		t.Errorf("Unexpected inbox: %+v", inbox)
	}

	sent, err := service.ListSent(ctx, alice.Id)
	if err != nil {
		t.Fatalf("ListSent failed: %v", err)
	}
	if len(sent) != 1 || sent[0].Id != first.Id {
		t.Errorf("Unexpected sent list: %+v", sent)
	}

	unread, err := service.CountUnread(ctx, bob.Id)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if unread != 1 {
		t.Errorf("Expected 1 unread, got %d", unread)
	}

	if err := service.MarkMessageRead(ctx, first.Id); err != nil {
		t.Fatalf("MarkMessageRead failed: %v", err)
	}
	unread, err = service.CountUnread(ctx, bob.Id)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if unread != 0 {
		t.Errorf("Expected 0 unread after read, got %d", unread)
	}

	if err := service.DeleteMessage(ctx, first.Id); err != nil {
		t.Fatalf("DeleteMessage failed: %v", err)
	}
	if _, err := service.GetMessage(ctx, first.Id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := service.DeleteMessage(ctx, first.Id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}

	// The reply survives with its link cleared
	orphan, err := service.GetMessage(ctx, reply.Id)
	if err != nil {
		t.Fatalf("GetMessage failed: %v", err)
	}
	if orphan.ReplyTo.Valid {
		t.Errorf("Expected reply_to to be cleared, got %s", orphan.ReplyTo.String)
	}
}

func TestCreateMessage_UnknownRecipient(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	alice, err := service.CreateUser(ctx, "alice", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	_, err = service.CreateMessage(ctx, store.CreateMessageParams{
		SenderId: alice.Id, RecipientId: "missing", Subject: "hi", Content: "x",
	})
	if !errors.Is(err, store.ErrPersistence) {
		t.Errorf("Expected ErrPersistence from foreign key, got %v", err)
	}
}
