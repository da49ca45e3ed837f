package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fastygo/sessionauth/domain"
)

func openTestRepo(t *testing.T) *SessionRepository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "data", "sessions.db"), "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestBoltSessionLifecycle(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()

	session := &domain.Session{Token: "tok", UserID: "admin", CreatedAt: now, ExpiresAt: now.Add(8 * time.Hour), IsActive: true}
	if err := repo.Put(ctx, session); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := repo.Put(ctx, session); err != domain.ErrSessionConflict {
		t.Fatalf("duplicate Put err = %v", err)
	}

	got, err := repo.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != "admin" || !got.IsActive || !got.ExpiresAt.Equal(session.ExpiresAt) {
		t.Errorf("got %+v", got)
	}

	if err := repo.Delete(ctx, "tok"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, "tok"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, err := repo.Get(ctx, "tok"); err != domain.ErrSessionNotFound {
		t.Fatalf("Get after Delete err = %v", err)
	}
}

func TestBoltDeleteExpired(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()

	for i, offset := range []time.Duration{-time.Hour, 0, time.Hour, 2 * time.Hour} {
		tok := string(rune('a' + i))
		if err := repo.Put(ctx, &domain.Session{Token: tok, ExpiresAt: now.Add(offset), IsActive: true}); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	size, err := repo.Size()
	if err != nil {
		t.Fatal(err)
	}
	if size != 2 {
		t.Errorf("size = %d, want 2", size)
	}
}

func TestBoltClosed(t *testing.T) {
	repo, err := Open(filepath.Join(t.TempDir(), "sessions.db"), "")
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Get(context.Background(), "tok"); err == nil {
		t.Fatal("expected error from closed store")
	}
}
