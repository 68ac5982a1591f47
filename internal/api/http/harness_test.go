package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/winkingcatstudios/video-streaming-backend/internal/api/http/handlers"
	"github.com/winkingcatstudios/video-streaming-backend/internal/auth"
	"github.com/winkingcatstudios/video-streaming-backend/internal/domain"
	"github.com/winkingcatstudios/video-streaming-backend/internal/events"
	"github.com/winkingcatstudios/video-streaming-backend/internal/observability"
	"github.com/winkingcatstudios/video-streaming-backend/internal/service"
	"github.com/winkingcatstudios/video-streaming-backend/internal/validation"
	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

// memStore is an in-memory stand-in for the Postgres repositories.
type memStore[T domain.Record] struct {
	mu      sync.Mutex
	records map[string]T
	order   []string
	unique  func(T) string
	setID   func(T, string)
}

func newMemStore[T domain.Record](unique func(T) string, setID func(T, string)) *memStore[T] {
	return &memStore[T]{records: map[string]T{}, unique: unique, setID: setID}
}

func (s *memStore[T]) List(ctx context.Context, limit int) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []T
	for i := len(s.order) - 1; i >= 0; i-- {
		if r, ok := s.records[s.order[i]]; ok {
			out = append(out, r)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *memStore[T]) GetByID(ctx context.Context, id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		var zero T
		return zero, apperrors.ErrNotFound
	}
	return r, nil
}

func (s *memStore[T]) Create(ctx context.Context, record T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.records {
		if s.unique(existing) == s.unique(record) {
			return apperrors.ErrConflict
		}
	}
	id := uuid.NewString()
	s.setID(record, id)
	s.records[id] = record
	s.order = append(s.order, id)
	return nil
}

func (s *memStore[T]) Update(ctx context.Context, record T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.records {
		if id != record.RecordID() && s.unique(existing) == s.unique(record) {
			return apperrors.ErrConflict
		}
	}
	s.records[record.RecordID()] = record
	return nil
}

func (s *memStore[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *memStore[T]) Random(ctx context.Context, filter domain.RandomFilter) (T, error) {
	records, _ := s.List(ctx, 0)
	if len(records) == 0 {
		var zero T
		return zero, apperrors.ErrNotFound
	}
	return records[0], nil
}

type memLists struct{ *memStore[*domain.List] }

func (m memLists) ListByCreator(ctx context.Context, creatorID string) ([]*domain.List, error) {
	all, _ := m.List(ctx, 0)
	var out []*domain.List
	for _, l := range all {
		if l.CreatorID == creatorID {
			out = append(out, l)
		}
	}
	return out, nil
}

type memUsers struct{ *memStore[*domain.User] }

func (m memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	all, _ := m.List(ctx, 0)
	for _, u := range all {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m memUsers) MonthlySignups(ctx context.Context) ([]domain.MonthlySignups, error) {
	all, _ := m.List(ctx, 0)
	return []domain.MonthlySignups{{Month: int(time.Now().Month()), Total: len(all)}}, nil
}

func (m memUsers) SetAdmin(ctx context.Context, email string) error {
	u, err := m.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	u.IsAdmin = true
	return nil
}

type fakeImages struct {
	saved []string
}

func (f *fakeImages) SaveImage(fh *multipart.FileHeader) (string, error) {
	path := "/uploads/images/" + uuid.NewString() + ".png"
	f.saved = append(f.saved, path)
	return path, nil
}

type testServer struct {
	app      *fiber.App
	tokens   *auth.TokenManager
	users    memUsers
	lists    memLists
	images   *fakeImages
	orphaned []string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	ts := &testServer{
		tokens: auth.NewTokenManager("http-test-secret", time.Hour),
		users: memUsers{newMemStore(func(u *domain.User) string { return u.Email },
			func(u *domain.User, id string) { u.ID = id })},
		lists: memLists{newMemStore(func(l *domain.List) string { return l.Title },
			func(l *domain.List, id string) { l.ID = id })},
		images: &fakeImages{},
	}
	videos := newMemStore(func(v *domain.Video) string { return v.Title },
		func(v *domain.Video, id string) { v.ID = id })

	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventFileOrphaned, func(ctx context.Context, e events.Event) error {
		ts.orphaned = append(ts.orphaned, e.Payload.(events.FileOrphanedPayload).Path)
		return nil
	})

	validator := validation.New()
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   ts.users,
		Tokens:     ts.tokens,
		BcryptCost: bcrypt.MinCost,
		Logger:     logger,
	})

	ts.app = NewApp("test", 0, ErrorHandler(logger))
	RegisterMiddlewares(ts.app, logger, observability.NewMetrics(), MiddlewareOptions{Timeout: 5 * time.Second, Dispatcher: dispatcher})
	RegisterRoutes(ts.app, RouteConfig{
		Lists:          handlers.NewListsHandler(service.NewListService(ts.lists, dispatcher, logger), validator),
		Videos:         handlers.NewVideosHandler(service.NewVideoService(videos, dispatcher, logger), validator, ts.images),
		Users:          handlers.NewUsersHandler(authService, service.NewUserService(ts.users, dispatcher, logger), validator, ts.images),
		AuthMiddleware: auth.NewAuthMiddleware(ts.tokens),
	})
	return ts
}

func (ts *testServer) token(t *testing.T, userID string, isAdmin bool) string {
	t.Helper()
	token, _, err := ts.tokens.Issue(domain.Identity{UserID: userID, Email: userID + "@example.com", IsAdmin: isAdmin})
	require.NoError(t, err)
	return token
}

type response struct {
	status int
	body   string
	header map[string]string
}

func (ts *testServer) do(t *testing.T, method, path, token string, payload any) response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ts.send(t, req)
}

func (ts *testServer) send(t *testing.T, req *nethttp.Request) response {
	t.Helper()
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	header := map[string]string{}
	for k := range resp.Header {
		header[k] = resp.Header.Get(k)
	}
	return response{status: resp.StatusCode, body: string(raw), header: header}
}

func multipartRequest(t *testing.T, path, token string, fields map[string]string, withImage bool) *nethttp.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withImage {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="poster.png"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("png"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func extractID(t *testing.T, body string) string {
	t.Helper()
	var items []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &items))
	require.NotEmpty(t, items)
	return items[0].ID
}
