// Package service implements the file storage and access control engine:
// payload validation, the two-phase content/metadata write, ownership rules,
// paginated listing, and post-processing dispatch.
package service

import (
	"context"
	"time"

	logSDK "github.com/Laisky/go-utils/v6/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/laisky-files-api/internal/storage"
	"github.com/Laisky/laisky-files-api/internal/web/files/model"
)

// MetadataStore is the authoritative record of users and file entities.
// Implemented by the mongo dao.
type MetadataStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	CountUsers(ctx context.Context) (int64, error)

	CreateFile(ctx context.Context, f *model.File) error
	GetFileByID(ctx context.Context, id primitive.ObjectID) (*model.File, error)
	GetFileForOwner(ctx context.Context, id, owner primitive.ObjectID) (*model.File, error)
	ListChildren(ctx context.Context, owner, parentID primitive.ObjectID, page int) ([]*model.File, error)
	SetFilePublic(ctx context.Context, id, owner primitive.ObjectID, isPublic bool) (*model.File, error)
	CountFiles(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
}

// SessionStore is the ephemeral token to user mapping. Implemented by the
// redis wrapper.
type SessionStore interface {
	SetSession(ctx context.Context, token, userID string, ttl time.Duration) error
	GetSession(ctx context.Context, token string) (string, error)
	DelSession(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

// TaskQueue dispatches asynchronous post-processing jobs. Enqueue failures
// never fail the request that triggered them.
type TaskQueue interface {
	AddThumbnailTask(ctx context.Context, fileID, userID string) error
	AddWelcomeTask(ctx context.Context, userID string) error
}

// Drive is the engine facade. All collaborators are injected; the engine
// owns no global state.
type Drive struct {
	logger   logSDK.Logger
	store    MetadataStore
	sessions SessionStore
	tasks    TaskQueue
	content  storage.Backend
}

// New create new service
func New(logger logSDK.Logger,
	store MetadataStore,
	sessions SessionStore,
	tasks TaskQueue,
	content storage.Backend,
) *Drive {
	return &Drive{
		logger:   logger,
		store:    store,
		sessions: sessions,
		tasks:    tasks,
		content:  content,
	}
}

// Liveness reports whether the metadata store and the session store answer.
type Liveness struct {
	DB    bool `json:"db"`
	Redis bool `json:"redis"`
}

// Alive pings both backing stores.
func (s *Drive) Alive(ctx context.Context) Liveness {
	return Liveness{
		DB:    s.store.Ping(ctx) == nil,
		Redis: s.sessions.Ping(ctx) == nil,
	}
}

// Stats counts stored users and files.
func (s *Drive) Stats(ctx context.Context) (users, files int64, err error) {
	if users, err = s.store.CountUsers(ctx); err != nil {
		return 0, 0, err
	}
	if files, err = s.store.CountFiles(ctx); err != nil {
		return 0, 0, err
	}

	return users, files, nil
}
