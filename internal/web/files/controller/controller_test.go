package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoLib "go.mongodb.org/mongo-driver/mongo"

	"github.com/Laisky/laisky-files-api/internal/storage"
	"github.com/Laisky/laisky-files-api/internal/web/files/model"
	"github.com/Laisky/laisky-files-api/internal/web/files/service"
	rredis "github.com/Laisky/laisky-files-api/library/db/redis"
	"github.com/Laisky/laisky-files-api/library/log"
)

type memStore struct {
	users map[primitive.ObjectID]*model.User
	files map[primitive.ObjectID]*model.File
}

func (s *memStore) CreateUser(_ context.Context, u *model.User) error {
	s.users[u.ID] = u
	return nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongoLib.ErrNoDocuments
}

func (s *memStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, mongoLib.ErrNoDocuments
	}
	return u, nil
}

func (s *memStore) CountUsers(context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

func (s *memStore) CreateFile(_ context.Context, f *model.File) error {
	s.files[f.ID] = f
	return nil
}

func (s *memStore) GetFileByID(_ context.Context, id primitive.ObjectID) (*model.File, error) {
	f, ok := s.files[id]
	if !ok {
		return nil, mongoLib.ErrNoDocuments
	}
	return f, nil
}

func (s *memStore) GetFileForOwner(_ context.Context, id, owner primitive.ObjectID) (*model.File, error) {
	f, ok := s.files[id]
	if !ok || f.UserID != owner {
		return nil, mongoLib.ErrNoDocuments
	}
	return f, nil
}

func (s *memStore) ListChildren(_ context.Context, owner, parentID primitive.ObjectID, page int) ([]*model.File, error) {
	matched := make([]*model.File, 0)
	for _, f := range s.files {
		if f.UserID == owner && f.ParentID == parentID {
			matched = append(matched, f)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID.Hex() < matched[j].ID.Hex()
	})

	start := page * 20
	if start >= len(matched) {
		return []*model.File{}, nil
	}
	end := start + 20
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (s *memStore) SetFilePublic(_ context.Context, id, owner primitive.ObjectID, isPublic bool) (*model.File, error) {
	f, ok := s.files[id]
	if !ok || f.UserID != owner {
		return nil, mongoLib.ErrNoDocuments
	}
	f.IsPublic = isPublic
	return f, nil
}

func (s *memStore) CountFiles(context.Context) (int64, error) {
	return int64(len(s.files)), nil
}

func (s *memStore) Ping(context.Context) error { return nil }

type memSessions struct {
	tokens map[string]string
}

func (s *memSessions) SetSession(_ context.Context, token, userID string, _ time.Duration) error {
	s.tokens[token] = userID
	return nil
}

func (s *memSessions) GetSession(_ context.Context, token string) (string, error) {
	uid, ok := s.tokens[token]
	if !ok {
		return "", rredis.ErrSessionNotFound
	}
	return uid, nil
}

func (s *memSessions) DelSession(_ context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

func (s *memSessions) Ping(context.Context) error { return nil }

type memQueue struct{}

func (memQueue) AddThumbnailTask(context.Context, string, string) error { return nil }
func (memQueue) AddWelcomeTask(context.Context, string) error           { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	content, err := storage.NewLocalBackend(t.TempDir())
	require.NoError(t, err)

	svc := service.New(log.Logger.Named("test"),
		&memStore{
			users: map[primitive.ObjectID]*model.User{},
			files: map[primitive.ObjectID]*model.File{},
		},
		&memSessions{tokens: map[string]string{}},
		memQueue{},
		content,
	)

	router := gin.New()
	New(log.Logger.Named("test"), svc).RegisterRoutes(router)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func signUp(t *testing.T, router *gin.Engine, email, password string) (token string) {
	t.Helper()

	rec := do(t, router, http.MethodPost, "/users", "", gin.H{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.SetBasicAuth(email, password)
	connRec := httptest.NewRecorder()
	router.ServeHTTP(connRec, req)
	require.Equal(t, http.StatusOK, connRec.Code)

	token, _ = decode(t, connRec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/users", "", gin.H{
		"email": "a@b.com", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "a@b.com", body["email"])
	require.NotEmpty(t, body["id"])

	rec = do(t, router, http.MethodPost, "/users", "", gin.H{
		"email": "a@b.com", "password": "pw",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Already exist", decode(t, rec)["error"])

	rec = do(t, router, http.MethodPost, "/users", "", gin.H{"password": "pw"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Missing email", decode(t, rec)["error"])
}

func TestConnectRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)
	signUp(t, router, "a@b.com", "pw")

	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.SetBasicAuth("a@b.com", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Unauthorized", decode(t, rec)["error"])

	// no basic auth header at all
	rec = do(t, router, http.MethodGet, "/connect", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := signUp(t, router, "a@b.com", "pw")

	rec := do(t, router, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "a@b.com", decode(t, rec)["email"])

	rec = do(t, router, http.MethodGet, "/disconnect", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := signUp(t, router, "a@b.com", "pw")

	rec := do(t, router, http.MethodPost, "/files", token, gin.H{
		"name": "docs", "type": "folder",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	folder := decode(t, rec)
	require.Equal(t, "0", folder["parentId"])

	rec = do(t, router, http.MethodPost, "/files", token, gin.H{
		"name": "x.txt", "type": "file", "data": "aGVsbG8=",
		"parentId": folder["id"],
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, folder["id"], decode(t, rec)["parentId"])

	rec = do(t, router, http.MethodPost, "/files", token, gin.H{"type": "file"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Missing name", decode(t, rec)["error"])

	// unauthenticated upload
	rec = do(t, router, http.MethodPost, "/files", "", gin.H{
		"name": "docs", "type": "folder",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := signUp(t, router, "a@b.com", "pw")

	for _, name := range []string{"a", "b", "c"} {
		rec := do(t, router, http.MethodPost, "/files", token, gin.H{
			"name": name, "type": "folder",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, router, http.MethodGet, "/files", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var files []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &files))
	require.Len(t, files, 3)
}

func TestContentVisibility(t *testing.T) {
	router := newTestRouter(t)
	token := signUp(t, router, "a@b.com", "pw")

	rec := do(t, router, http.MethodPost, "/files", token, gin.H{
		"name": "x.txt", "type": "file", "data": "aGVsbG8=",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode(t, rec)["id"].(string)

	// private file hidden from anonymous readers
	rec = do(t, router, http.MethodGet, "/files/"+id+"/data", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// owner reads fine
	rec = do(t, router, http.MethodGet, "/files/"+id+"/data", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "hello", rec.Body.String())
	require.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = do(t, router, http.MethodPut, "/files/"+id+"/publish", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decode(t, rec)["isPublic"])

	rec = do(t, router, http.MethodGet, "/files/"+id+"/data", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "hello", rec.Body.String())

	rec = do(t, router, http.MethodPut, "/files/"+id+"/unpublish", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/files/"+id+"/data", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, true, body["redis"])
	require.Equal(t, true, body["db"])

	rec = do(t, router, http.MethodGet, "/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
