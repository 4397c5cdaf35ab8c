package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/agentstream/core"
	"github.com/hupe1980/agentstream/logging"
)

// FileStore persists each session as one JSON document (<id>.json) under a
// directory. It is safe for concurrent access within a single process; the
// deployment model assumes one writer process per session directory.
type FileStore struct {
	mu     sync.Mutex
	dir    string
	logger logging.Logger
}

// Compile-time interface assertion.
var _ core.SessionStore = (*FileStore)(nil)

// FileStoreOptions configures a FileStore.
type FileStoreOptions struct {
	Logger logging.Logger
}

// NewFileStore creates the session directory if needed and returns a store
// rooted there.
func NewFileStore(dir string, optFns ...func(o *FileStoreOptions)) (*FileStore, error) {
	opts := FileStoreOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}
	return &FileStore{dir: dir, logger: opts.Logger}, nil
}

// Get returns the persisted session or core.ErrSessionNotFound.
func (s *FileStore) Get(sessionID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(sessionID)
}

// Create writes a fresh session document, overwriting any existing one.
func (s *FileStore) Create(sessionID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := core.NewSession(sessionID)
	if err := s.writeLocked(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// AppendMessage loads, mutates and rewrites the session document, creating
// the session lazily if it does not exist yet.
func (s *FileStore) AppendMessage(sessionID string, msg core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.readLocked(sessionID)
	if err != nil {
		if err != core.ErrSessionNotFound {
			return err
		}
		sess = core.NewSession(sessionID)
	}
	sess.AddMessage(msg)
	return s.writeLocked(sess)
}

// List scans the directory for session documents. Unreadable files are
// skipped with a warning rather than failing the whole listing.
func (s *FileStore) List() ([]*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read session dir: %w", err)
	}

	var out []*core.Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		sess, err := s.readLocked(id)
		if err != nil {
			s.logger.Warn("failed to read session file %s: %v", entry.Name(), err)
			continue
		}
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes the session document or reports core.ErrSessionNotFound.
func (s *FileStore) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(sessionID))
	if os.IsNotExist(err) {
		return core.ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info("deleted session session_id=%s", sessionID)
	return nil
}

func (s *FileStore) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".json")
}

func (s *FileStore) readLocked(sessionID string) (*core.Session, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if os.IsNotExist(err) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var sess core.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return &sess, nil
}

func (s *FileStore) writeLocked(sess *core.Session) error {
	data, err := json.MarshalIndent(sess.Clone(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sess.ID, err)
	}
	if err := os.WriteFile(s.path(sess.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}
