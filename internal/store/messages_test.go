// ABOUTME: Tests for message storage operations
// ABOUTME: Batch save, last-N listing, anchor merge, patches, and deletes
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/models"
)

func TestMessageStore_SaveGeneratesIDsAndTimestamps(t *testing.T) {
	db := newFakeQueryer()
	db.seedThread(models.Thread{ID: "t1", ResourceID: "user-1"})
	s := NewMessageStore(db)

	saved, err := s.Save(context.Background(), []models.Message{
		{ThreadID: "t1", Role: models.RoleUser, Content: "hello"},
		{ThreadID: "t1", Role: models.RoleAssistant, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("saved %d messages, want 2", len(saved))
	}

	for _, msg := range saved {
		if msg.ID == "" {
			t.Error("Save() should generate an id")
		}
		if msg.CreatedAt.IsZero() {
			t.Error("Save() should stamp created_at")
		}
	}
	if saved[0].ID == saved[1].ID {
		t.Error("generated ids must be unique")
	}
	// ULIDs generated in sequence sort in insertion order
	if !(saved[0].ID < saved[1].ID) {
		t.Errorf("ids should be monotonic: %s then %s", saved[0].ID, saved[1].ID)
	}
}

func TestMessageStore_SaveTouchesThread(t *testing.T) {
	db := newFakeQueryer()
	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	db.seedThread(models.Thread{ID: "t1", ResourceID: "user-1", UpdatedAt: old})
	s := NewMessageStore(db)

	_, err := s.Save(context.Background(), []models.Message{
		{ThreadID: "t1", Role: models.RoleUser, Content: "a"},
		{ThreadID: "t1", Role: models.RoleUser, Content: "b"},
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	updated := db.threads["t1"]["updated_at"].(time.Time)
	if !updated.After(old) {
		t.Error("thread updated_at should be bumped")
	}

	// One touch per thread, not per message
	touches := 0
	for _, q := range db.queries {
		if q == sqlTouchThread {
			touches++
		}
	}
	if touches != 1 {
		t.Errorf("thread touched %d times, want 1", touches)
	}
}

func TestMessageStore_SaveRequiresThreadID(t *testing.T) {
	s := NewMessageStore(newFakeQueryer())

	_, err := s.Save(context.Background(), []models.Message{{Content: "orphan"}})
	if err == nil {
		t.Fatal("Save() should reject a message without a thread id")
	}
}

func TestMessageStore_ListByThreadOrdered(t *testing.T) {
	db := newFakeQueryer()
	s := NewMessageStore(db)

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	db.seedMessage(models.Message{ID: "m2", ThreadID: "t1", CreatedAt: base.Add(time.Minute)})
	db.seedMessage(models.Message{ID: "m0", ThreadID: "t1", CreatedAt: base})
	db.seedMessage(models.Message{ID: "m1", ThreadID: "t1", CreatedAt: base.Add(30 * time.Second)})

	msgs, err := s.ListByThread(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ListByThread() error = %v", err)
	}
	assertIDs(t, msgs, "m0", "m1", "m2")
}

func TestMessageStore_ListLastN(t *testing.T) {
	db := newFakeQueryer()
	s := NewMessageStore(db)
	for _, msg := range seqMessages("t1", 5) {
		db.seedMessage(msg)
	}

	msgs, err := s.List(context.Background(), ListMessagesParams{ThreadID: "t1", Last: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	assertIDs(t, msgs, "m3", "m4")
}

func TestMessageStore_ListLastZeroReturnsAll(t *testing.T) {
	db := newFakeQueryer()
	s := NewMessageStore(db)
	for _, msg := range seqMessages("t1", 3) {
		db.seedMessage(msg)
	}

	msgs, err := s.List(context.Background(), ListMessagesParams{ThreadID: "t1"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	assertIDs(t, msgs, "m0", "m1", "m2")
}

func TestMessageStore_ListMergesAnchorsAcrossThreads(t *testing.T) {
	db := newFakeQueryer()
	s := NewMessageStore(db)

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	// Main thread
	for _, msg := range seqMessages("t1", 3) {
		db.seedMessage(msg)
	}
	// Another thread with an older exchange
	db.seedMessage(models.Message{ID: "a0", ThreadID: "t2", CreatedAt: base.Add(-2 * time.Hour)})
	db.seedMessage(models.Message{ID: "a1", ThreadID: "t2", CreatedAt: base.Add(-time.Hour)})

	msgs, err := s.List(context.Background(), ListMessagesParams{
		ThreadID: "t1",
		Include: []models.ContextAnchor{
			{ID: "a1", ThreadID: "t2", Before: 1},
		},
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	// Cross-thread window first chronologically, then the main thread
	assertIDs(t, msgs, "a0", "a1", "m0", "m1", "m2")
}

func TestMessageStore_ListDeduplicatesAnchorOverlap(t *testing.T) {
	db := newFakeQueryer()
	s := NewMessageStore(db)
	for _, msg := range seqMessages("t1", 3) {
		db.seedMessage(msg)
	}

	// Anchor points back into the listed thread itself
	msgs, err := s.List(context.Background(), ListMessagesParams{
		ThreadID: "t1",
		Include: []models.ContextAnchor{
			{ID: "m1", ThreadID: "t1", Before: 1, After: 1},
		},
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	assertIDs(t, msgs, "m0", "m1", "m2")
}

func TestMessageStore_UpdatePatchesContentAndMetadata(t *testing.T) {
	db := newFakeQueryer()
	s := NewMessageStore(db)
	db.seedMessage(models.Message{
		ID:       "m1",
		ThreadID: "t1",
		Content:  "original",
		Metadata: map[string]any{"keep": true, "shadow": "old"},
	})

	content := "edited"
	updated, err := s.Update(context.Background(), []UpdateMessageParams{
		{ID: "m1", Content: &content, Metadata: map[string]any{"shadow": "new"}},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(updated) != 1 {
		t.Fatalf("updated %d messages, want 1", len(updated))
	}

	got := updated[0]
	if got.Content != "edited" {
		t.Errorf("Content = %q", got.Content)
	}
	if got.Metadata["keep"] != true || got.Metadata["shadow"] != "new" {
		t.Errorf("Metadata = %v", got.Metadata)
	}
}

func TestMessageStore_UpdateMissingFailsWithErrNotFound(t *testing.T) {
	s := NewMessageStore(newFakeQueryer())

	content := "x"
	_, err := s.Update(context.Background(), []UpdateMessageParams{
		{ID: "missing", Content: &content},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestMessageStore_Delete(t *testing.T) {
	db := newFakeQueryer()
	s := NewMessageStore(db)
	db.seedMessage(models.Message{ID: "m1", ThreadID: "t1"})
	db.seedMessage(models.Message{ID: "m2", ThreadID: "t1"})

	if err := s.Delete(context.Background(), []string{"m1", "not-there"}); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := db.messages["m1"]; ok {
		t.Error("m1 should be deleted")
	}
	if _, ok := db.messages["m2"]; !ok {
		t.Error("m2 should survive")
	}
}
