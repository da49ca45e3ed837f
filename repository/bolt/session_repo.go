package bolt

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/sessionauth/domain"
	"github.com/fastygo/sessionauth/repository"
)

// SessionRepository persists sessions in a single BoltDB file. The file lock
// makes it a single-process store; use redis or postgres when several
// processes serve the same tokens.
type SessionRepository struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*SessionRepository, error) {
	if bucket == "" {
		bucket = "sessions"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &SessionRepository{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

func (r *SessionRepository) Put(_ context.Context, session *domain.Session) error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if session == nil || session.Token == "" {
		return domain.ErrInvalidPayload
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b.Get([]byte(session.Token)) != nil {
			return domain.ErrSessionConflict
		}
		return b.Put([]byte(session.Token), payload)
	})
}

func (r *SessionRepository) Get(_ context.Context, token string) (*domain.Session, error) {
	if r == nil || r.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}

	var session *domain.Session
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(r.bucket).Get([]byte(token))
		if v == nil {
			return domain.ErrSessionNotFound
		}
		var s domain.Session
		if err := json.Unmarshal(v, &s); err != nil {
			return err
		}
		session = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (r *SessionRepository) Delete(_ context.Context, token string) error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if token == "" {
		return nil
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Delete([]byte(token))
	})
}

// DeleteExpired removes every session whose expiry has been reached at now.
// Undecodable records are removed as well.
func (r *SessionRepository) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	if r == nil || r.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	removed := 0
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		var stale [][]byte
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var session domain.Session
			if err := json.Unmarshal(v, &session); err == nil && !session.IsExpired(now) {
				continue
			}
			stale = append(stale, append([]byte(nil), k...))
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

// Size returns the number of stored sessions.
func (r *SessionRepository) Size() (int, error) {
	if r == nil || r.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := r.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(r.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Close closes the Bolt database.
func (r *SessionRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

var (
	_ repository.SessionRepository = (*SessionRepository)(nil)
	_ repository.SessionSweeper    = (*SessionRepository)(nil)
)
