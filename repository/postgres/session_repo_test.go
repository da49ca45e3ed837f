package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/fastygo/sessionauth/domain"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *SessionRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		mock.Close()
	})
	return mock, NewSessionRepository(mock)
}

func TestPutStoresEpochSeconds(t *testing.T) {
	mock, repo := newMockRepo(t)
	created := time.Unix(1_700_000_000, 0).UTC()
	session := &domain.Session{
		Token:     "tok-1",
		UserID:    "admin",
		CreatedAt: created,
		ExpiresAt: created.Add(8 * time.Hour),
		IsActive:  true,
	}

	mock.ExpectExec("INSERT INTO auth_sessions").
		WithArgs("tok-1", "admin", created.Unix(), created.Add(8*time.Hour).Unix(), true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO auth_sessions").
		WithArgs("tok-1", "admin", created.Unix(), created.Add(8*time.Hour).Unix(), true).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	if err := repo.Put(context.Background(), session); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := repo.Put(context.Background(), session); err != domain.ErrSessionConflict {
		t.Fatalf("duplicate Put err = %v, want ErrSessionConflict", err)
	}
}

func TestPutRejectsEmptyToken(t *testing.T) {
	_, repo := newMockRepo(t)
	if err := repo.Put(context.Background(), &domain.Session{}); err != domain.ErrInvalidPayload {
		t.Fatalf("err = %v, want ErrInvalidPayload", err)
	}
}

func TestGetScansRow(t *testing.T) {
	mock, repo := newMockRepo(t)
	created := time.Unix(1_700_000_000, 0).UTC()

	rows := pgxmock.NewRows([]string{"token", "user_id", "created_at", "expires_at", "is_active"}).
		AddRow("tok-1", "admin", created.Unix(), created.Add(time.Hour).Unix(), true)
	mock.ExpectQuery("SELECT token, user_id, created_at, expires_at, is_active").
		WithArgs("tok-1").
		WillReturnRows(rows)

	session, err := repo.Get(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session.Token != "tok-1" || session.UserID != "admin" || !session.IsActive {
		t.Fatalf("unexpected session: %+v", session)
	}
	if !session.CreatedAt.Equal(created) || !session.ExpiresAt.Equal(created.Add(time.Hour)) {
		t.Errorf("timestamps = %v / %v", session.CreatedAt, session.ExpiresAt)
	}
}

func TestGetMissingRow(t *testing.T) {
	mock, repo := newMockRepo(t)
	mock.ExpectQuery("SELECT token").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.Get(context.Background(), "nope"); err != domain.ErrSessionNotFound {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestGetPassesThroughDriverErrors(t *testing.T) {
	mock, repo := newMockRepo(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT token").
		WithArgs("tok-1").
		WillReturnError(boom)

	if _, err := repo.Get(context.Background(), "tok-1"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestDeleteAndDeleteExpired(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Unix(1_700_000_000, 0)

	mock.ExpectExec("DELETE FROM auth_sessions WHERE token").
		WithArgs("tok-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM auth_sessions WHERE expires_at <=").
		WithArgs(now.Unix()).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	if err := repo.Delete(context.Background(), "tok-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	removed, err := repo.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
}
