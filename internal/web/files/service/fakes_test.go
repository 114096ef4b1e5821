package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoLib "go.mongodb.org/mongo-driver/mongo"

	"github.com/Laisky/laisky-files-api/internal/web/files/dao"
	"github.com/Laisky/laisky-files-api/internal/web/files/model"
	redisSDK "github.com/Laisky/laisky-files-api/library/db/redis"
)

// memStore is an in-memory MetadataStore mirroring the mongo dao contract,
// including ErrNoDocuments on misses.
type memStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*model.User
	files map[primitive.ObjectID]*model.File
}

func newMemStore() *memStore {
	return &memStore{
		users: map[primitive.ObjectID]*model.User{},
		files: map[primitive.ObjectID]*model.File{},
	}
}

func (m *memStore) CreateUser(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mongoLib.ErrNoDocuments
}

func (m *memStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, mongoLib.ErrNoDocuments
}

func (m *memStore) CountUsers(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *memStore) CreateFile(ctx context.Context, f *model.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *f
	m.files[f.ID] = &cp
	return nil
}

func (m *memStore) GetFileByID(ctx context.Context, id primitive.ObjectID) (*model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.files[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, mongoLib.ErrNoDocuments
}

func (m *memStore) GetFileForOwner(ctx context.Context, id, owner primitive.ObjectID) (*model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.files[id]; ok && f.UserID == owner {
		cp := *f
		return &cp, nil
	}
	return nil, mongoLib.ErrNoDocuments
}

func (m *memStore) ListChildren(ctx context.Context,
	owner, parentID primitive.ObjectID, page int) ([]*model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []*model.File{}
	for _, f := range m.files {
		if f.UserID == owner && f.ParentID == parentID {
			cp := *f
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID.Hex() < matched[j].ID.Hex()
	})

	start := page * dao.ListPageSize
	if start >= len(matched) {
		return []*model.File{}, nil
	}
	end := start + dao.ListPageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (m *memStore) SetFilePublic(ctx context.Context,
	id, owner primitive.ObjectID, isPublic bool) (*model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok || f.UserID != owner {
		return nil, mongoLib.ErrNoDocuments
	}
	f.IsPublic = isPublic
	cp := *f
	return &cp, nil
}

func (m *memStore) CountFiles(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.files)), nil
}

func (m *memStore) Ping(ctx context.Context) error { return nil }

// memSessions is an in-memory SessionStore.
type memSessions struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemSessions() *memSessions {
	return &memSessions{tokens: map[string]string{}}
}

func (m *memSessions) SetSession(ctx context.Context, token, userID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = userID
	return nil
}

func (m *memSessions) GetSession(ctx context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if uid, ok := m.tokens[token]; ok {
		return uid, nil
	}
	return "", redisSDK.ErrSessionNotFound
}

func (m *memSessions) DelSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

func (m *memSessions) Ping(ctx context.Context) error { return nil }

// memQueue records dispatched jobs.
type memQueue struct {
	mu         sync.Mutex
	thumbnails []string
	welcomes   []string
}

func (m *memQueue) AddThumbnailTask(ctx context.Context, fileID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.thumbnails = append(m.thumbnails, fileID)
	return nil
}

func (m *memQueue) AddWelcomeTask(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, userID)
	return nil
}
