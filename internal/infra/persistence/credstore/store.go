// Package credstore persists the authenticated session to a local Badger
// database so a login survives process restarts.
package credstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"gameplays/config"
	"gameplays/internal/domain/entity"
	"gameplays/internal/domain/repository"
	"gameplays/internal/errors"

	"github.com/dgraph-io/badger/v4"
)

// sessionKey is the fixed key the single session record is stored under.
const sessionKey = "session:current"

// Store is a Badger-backed CredentialRepository. It keeps an in-memory
// snapshot of the session so reads never touch disk on the hot path.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	mu      sync.RWMutex
	current *entity.Session
}

// New opens the credential database under the configured storage path.
func New(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Storage.Path)
	opts.Logger = nil      // Badger's internal logging is noise here
	opts.SyncWrites = true // credential writes must survive a crash

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open credential database")
	}

	logger.Debug("Credential database opened", slog.String("path", cfg.Storage.Path))

	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrap(err, "close credential database")
	}

	return nil
}

// Load reads the persisted session and primes the in-memory snapshot.
func (s *Store) Load(_ context.Context) (*entity.Session, error) {
	var session entity.Session

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKey))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, repository.ErrSessionNotFound
		}

		return nil, errors.Wrap(err, "load session")
	}

	s.mu.Lock()
	s.current = &session
	s.mu.Unlock()

	return &session, nil
}

// Save persists the session and updates the in-memory snapshot.
func (s *Store) Save(_ context.Context, session *entity.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "marshal session")
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(sessionKey), data)
	})
	if err != nil {
		return errors.Wrap(err, "save session")
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	s.logger.Debug("Session saved", slog.Int64("userID", session.UserID))

	return nil
}

// Clear removes the persisted session. Clearing an absent session is a no-op.
func (s *Store) Clear(_ context.Context) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(sessionKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}

		return err
	})
	if err != nil {
		return errors.Wrap(err, "clear session")
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	s.logger.Debug("Session cleared")

	return nil
}

// Current returns the in-memory snapshot, or nil when signed out.
func (s *Store) Current() *entity.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

var _ repository.CredentialRepository = (*Store)(nil)
