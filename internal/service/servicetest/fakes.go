// Package servicetest provides in-memory stores for exercising the portal
// services and handlers without Postgres or Redis.
package servicetest

import (
	"bytes"
	"context"
	"io"
	"path"
	"sort"
	"sync"
	"time"

	"lguportal/portal/internal/models"
	"lguportal/portal/internal/repository"
	"lguportal/portal/internal/storage"
)

type UserStore struct {
	mu    sync.Mutex
	users []models.User

	// CreateErr, when set, is returned by the next Create calls.
	CreateErr error
}

func NewUserStore() *UserStore {
	return &UserStore{}
}

// Put stores a user without the uniqueness check, so tests can build broken
// data on purpose.
func (s *UserStore) Put(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, user)
}

func (s *UserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	s.users = append(s.users, user)
	return nil
}

func (s *UserStore) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found []models.User
	for _, u := range s.users {
		if u.Email == email {
			found = append(found, u)
		}
	}
	switch len(found) {
	case 0:
		return models.User{}, repository.ErrUserNotFound
	case 1:
		return found[0], nil
	default:
		return models.User{}, repository.ErrDuplicateUserRecords
	}
}

func (s *UserStore) DocumentReferenced(_ context.Context, relPath string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.IDDocumentPath != nil && *u.IDDocumentPath == relPath {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...)
}

type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]models.Session)}
}

func (s *SessionStore) Create(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[string(session.TokenHash)] = session
	return nil
}

func (s *SessionStore) GetByTokenHash(_ context.Context, tokenHash []byte) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[string(tokenHash)]
	if !ok {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) DeleteByTokenHash(_ context.Context, tokenHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[string(tokenHash)]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(s.sessions, string(tokenHash))
	return nil
}

func (s *SessionStore) Touch(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, session := range s.sessions {
		if session.ID == sessionID {
			session.LastSeenAt = time.Now()
			s.sessions[k] = session
		}
	}
	return nil
}

func (s *SessionStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	now := time.Now()
	for k, session := range s.sessions {
		if session.ExpiresAt.Before(now) {
			delete(s.sessions, k)
			n++
		}
	}
	return n, nil
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type PendingStore struct {
	mu      sync.Mutex
	pending map[string]models.PendingRegistration
}

func NewPendingStore() *PendingStore {
	return &PendingStore{pending: make(map[string]models.PendingRegistration)}
}

func (s *PendingStore) Save(_ context.Context, pending models.PendingRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[pending.ID] = pending
	return nil
}

func (s *PendingStore) Get(_ context.Context, id string) (models.PendingRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.pending[id]
	if !ok {
		return models.PendingRegistration{}, repository.ErrPendingNotFound
	}
	return pending, nil
}

func (s *PendingStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
	return nil
}

func (s *PendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

type DocumentStore struct {
	mu    sync.Mutex
	dir   string
	files map[string]storage.StoredDocument
	data  map[string][]byte

	// SaveErr, when set, fails every Save.
	SaveErr error
}

func NewDocumentStore(dir string) *DocumentStore {
	return &DocumentStore{
		dir:   dir,
		files: make(map[string]storage.StoredDocument),
		data:  make(map[string][]byte),
	}
}

func (s *DocumentStore) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	if s.SaveErr != nil {
		return "", s.SaveErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	relPath := path.Join(s.dir, name)
	s.files[relPath] = storage.StoredDocument{Path: relPath, ModTime: time.Now()}
	s.data[relPath] = buf.Bytes()
	return relPath, nil
}

// Add registers a document with an explicit modification time.
func (s *DocumentStore) Add(relPath string, modTime time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[relPath] = storage.StoredDocument{Path: relPath, ModTime: modTime}
}

func (s *DocumentStore) Remove(_ context.Context, relPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, relPath)
	delete(s.data, relPath)
	return nil
}

func (s *DocumentStore) List(_ context.Context) ([]storage.StoredDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := make([]storage.StoredDocument, 0, len(s.files))
	for _, doc := range s.files {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

func (s *DocumentStore) Data(relPath string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[relPath]
	return data, ok
}
