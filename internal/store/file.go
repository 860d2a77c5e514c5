package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/igray-umney/telegram-bot-server/internal/domain"
)

// dataFile is the on-disk record. Its shape is shared with the legacy
// implementation; the notifications array is carried through untouched
// so stale readers of the file keep seeing the fields they expect.
type dataFile struct {
	Users         []domain.User   `json:"users"`
	Notifications json.RawMessage `json:"notifications,omitempty"`
}

// FileStore implements Repo on a single JSON file. Every mutation is a
// load, modify, atomic rewrite cycle under one mutex.
type FileStore struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex
	now  func() time.Time
}

// OpenFile prepares the data directory and verifies the file is readable.
// A missing or corrupt file is not fatal: the store starts empty and the
// corruption is logged.
func OpenFile(path string, log *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("prepare data dir: %w", err)
	}
	s := &FileStore{path: path, log: log, now: time.Now}
	df := s.load()
	log.Info("user store ready", zap.String("path", path), zap.Int("users", len(df.Users)))
	return s, nil
}

// load reads the data file. Missing file or unparseable content degrades
// to an empty record.
func (s *FileStore) load() dataFile {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("read data file failed, starting empty", zap.Error(err))
		}
		return dataFile{}
	}
	var df dataFile
	if err := json.Unmarshal(raw, &df); err != nil {
		s.log.Warn("data file corrupt, starting empty", zap.Error(err))
		return dataFile{}
	}
	return df
}

// save rewrites the data file atomically: marshal, write a temp file in
// the same directory, rename over the original.
func (s *FileStore) save(df dataFile) error {
	raw, err := json.MarshalIndent(df, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data file: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

func (s *FileStore) List(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Users, nil
}

func (s *FileStore) Get(_ context.Context, userID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	df := s.load()
	for i := range df.Users {
		if df.Users[i].UserID == userID {
			u := df.Users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) Upsert(_ context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("nil user")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	df := s.load()
	for i := range df.Users {
		if df.Users[i].UserID == u.UserID {
			df.Users[i] = *u
			return s.save(df)
		}
	}
	df.Users = append(df.Users, *u)
	return s.save(df)
}

func (s *FileStore) Update(_ context.Context, userID string, fn func(*domain.User) error) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	df := s.load()
	for i := range df.Users {
		if df.Users[i].UserID != userID {
			continue
		}
		if err := fn(&df.Users[i]); err != nil {
			return nil, err
		}
		df.Users[i].LastActive = s.now().UTC()
		if err := s.save(df); err != nil {
			return nil, err
		}
		u := df.Users[i]
		return &u, nil
	}
	return nil, ErrNotFound
}

func (s *FileStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.load().Users), nil
}

func (s *FileStore) Close() error { return nil }
