package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/u759/AllanAI-sub001/domain/match"
)

func TestMemoryRepositoryGetMissing(t *testing.T) {
	repo := NewMemoryRepository()
	if _, err := repo.Get(context.Background(), "nope"); !errors.Is(err, match.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepositorySaveGetIsolation(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	player := 1
	m := &match.Match{
		ID:     "m1",
		Status: match.StatusUploaded,
		Events: []match.Event{{ID: "e1", Type: match.EventScore, Player: &player}},
	}
	if err := repo.Save(ctx, m); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Mutating the caller's copy after Save must not affect the store.
	m.Status = match.StatusFailed
	m.Events[0].ID = "tampered"

	got, err := repo.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != match.StatusUploaded {
		t.Errorf("status = %v, want UPLOADED (store shared caller's struct)", got.Status)
	}
	if got.Events[0].ID != "e1" {
		t.Errorf("event id = %q, want e1 (store shared caller's slice)", got.Events[0].ID)
	}

	// Mutating a read copy must not affect subsequent reads.
	got.Events[0].ID = "also-tampered"
	again, _ := repo.Get(ctx, "m1")
	if again.Events[0].ID != "e1" {
		t.Error("Get returned a shared copy")
	}
}

func TestMemoryRepositoryListNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		m := &match.Match{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := repo.Save(ctx, m); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"new", "mid", "old"}
	if len(list) != len(want) {
		t.Fatalf("got %d matches, want %d", len(list), len(want))
	}
	for i, m := range list {
		if m.ID != want[i] {
			t.Errorf("list[%d] = %s, want %s", i, m.ID, want[i])
		}
	}
}

func TestMemoryRepositoryDelete(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if err := repo.Delete(ctx, "nope"); !errors.Is(err, match.ErrNotFound) {
		t.Fatalf("Delete missing err = %v, want ErrNotFound", err)
	}

	if err := repo.Save(ctx, &match.Match{ID: "m1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Delete(ctx, "m1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, "m1"); !errors.Is(err, match.ErrNotFound) {
		t.Fatalf("Get after delete err = %v, want ErrNotFound", err)
	}
}
