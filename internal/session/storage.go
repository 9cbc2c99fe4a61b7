package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// Storage persists the credential and the user record as a pair.
type Storage interface {
	// Load returns the stored pair. Missing entries come back empty, not as errors.
	Load() (token string, user *domain.User, err error)
	Save(token string, user *domain.User) error
	Clear() error
}

// DefaultDir returns ~/.coachdesk.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".coachdesk"), nil
}

// FileStorage keeps the session in a state directory: the token in a plain
// file and the user as JSON, both readable only by the owner.
type FileStorage struct {
	dir string
}

// NewFileStorage returns a FileStorage rooted at dir. The directory is created on first save.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

// Dir returns the state directory.
func (f *FileStorage) Dir() string {
	return f.dir
}

func (f *FileStorage) Load() (string, *domain.User, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, tokenFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", nil, fmt.Errorf("session.FileStorage.Load: read token: %w", err)
	}
	token := strings.TrimSpace(string(data))

	raw, err := os.ReadFile(filepath.Join(f.dir, userFile))
	if errors.Is(err, os.ErrNotExist) {
		return token, nil, nil
	}
	if err != nil {
		return token, nil, fmt.Errorf("session.FileStorage.Load: read user: %w", err)
	}
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return token, nil, fmt.Errorf("session.FileStorage.Load: decode user: %w", err)
	}
	return token, &user, nil
}

func (f *FileStorage) Save(token string, user *domain.User) error {
	if err := os.MkdirAll(f.dir, 0700); err != nil {
		return fmt.Errorf("session.FileStorage.Save: create %s: %w", f.dir, err)
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session.FileStorage.Save: encode user: %w", err)
	}
	if err := os.WriteFile(filepath.Join(f.dir, tokenFile), []byte(token), 0600); err != nil {
		return fmt.Errorf("session.FileStorage.Save: write token: %w", err)
	}
	if err := os.WriteFile(filepath.Join(f.dir, userFile), raw, 0600); err != nil {
		f.Clear() //nolint:errcheck // keep the pair consistent
		return fmt.Errorf("session.FileStorage.Save: write user: %w", err)
	}
	return nil
}

func (f *FileStorage) Clear() error {
	var errs []error
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(f.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("session.FileStorage.Clear: %w", errors.Join(errs...))
	}
	return nil
}

// MemoryStorage is an in-process Storage for tests and one-shot commands.
type MemoryStorage struct {
	mu    sync.Mutex
	token string
	user  *domain.User
}

// NewMemoryStorage returns a MemoryStorage preloaded with the given pair.
func NewMemoryStorage(token string, user *domain.User) *MemoryStorage {
	m := &MemoryStorage{token: token}
	if user != nil {
		u := *user
		m.user = &u
	}
	return m
}

func (m *MemoryStorage) Load() (string, *domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return m.token, nil, nil
	}
	u := *m.user
	return m.token, &u, nil
}

func (m *MemoryStorage) Save(token string, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.user = nil
	if user != nil {
		u := *user
		m.user = &u
	}
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = nil
	return nil
}
