package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/winkingcatstudios/video-streaming-backend/internal/domain"
	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

type fakeListRepo struct {
	mu      sync.Mutex
	lists   map[string]*domain.List
	err     error
	deleted []string
}

func newFakeListRepo(lists ...*domain.List) *fakeListRepo {
	r := &fakeListRepo{lists: map[string]*domain.List{}}
	for _, l := range lists {
		r.lists[l.ID] = l
	}
	return r
}

func (r *fakeListRepo) List(ctx context.Context, limit int) ([]*domain.List, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.List
	for _, l := range r.lists {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeListRepo) GetByID(ctx context.Context, id string) (*domain.List, error) {
	if r.err != nil {
		return nil, r.err
	}
	l, ok := r.lists[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeListRepo) Create(ctx context.Context, l *domain.List) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.lists {
		if existing.Title == l.Title {
			return apperrors.ErrConflict
		}
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = time.Now()
	r.lists[l.ID] = l
	return nil
}

func (r *fakeListRepo) Update(ctx context.Context, l *domain.List) error {
	if r.err != nil {
		return r.err
	}
	r.lists[l.ID] = l
	return nil
}

func (r *fakeListRepo) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	delete(r.lists, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeListRepo) Random(ctx context.Context, filter domain.RandomFilter) (*domain.List, error) {
	for _, l := range r.lists {
		if (filter.Type == "" || l.Type == filter.Type) && (filter.Genre == "" || l.Genre == filter.Genre) {
			return l, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeListRepo) ListByCreator(ctx context.Context, creatorID string) ([]*domain.List, error) {
	var out []*domain.List
	for _, l := range r.lists {
		if l.CreatorID == creatorID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users     map[string]*domain.User
	lookupErr error
	createErr error
	stats     []domain.MonthlySignups
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) List(ctx context.Context, limit int) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		out = append(out, u)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return apperrors.ErrConflict
		}
	}
	u.ID = uuid.NewString()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) MonthlySignups(ctx context.Context) ([]domain.MonthlySignups, error) {
	return r.stats, nil
}

func (r *fakeUserRepo) SetAdmin(ctx context.Context, email string) error {
	for _, u := range r.users {
		if u.Email == email {
			u.IsAdmin = true
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakeLimiter struct {
	blocked  bool
	err      error
	failures int
	resets   int
}

func (l *fakeLimiter) Blocked(ctx context.Context, key string) (bool, error) {
	return l.blocked, l.err
}

func (l *fakeLimiter) RecordFailure(ctx context.Context, key string) error {
	l.failures++
	return l.err
}

func (l *fakeLimiter) Reset(ctx context.Context, key string) error {
	l.resets++
	return nil
}
