package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/winkingcatstudios/video-streaming-backend/internal/domain"
	"github.com/winkingcatstudios/video-streaming-backend/internal/events"
	"github.com/winkingcatstudios/video-streaming-backend/internal/repository"
	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

var (
	// ListPolicy: lists belong to their creator.
	ListPolicy = CatalogPolicy{Name: "list", Plural: "lists", OwnerCheck: true, RecentLimit: 1}
	// VideoPolicy: videos are managed by admins only.
	VideoPolicy = CatalogPolicy{Name: "video", Plural: "videos", RecentLimit: 1}
	// UserPolicy: accounts are managed by admins only.
	UserPolicy = CatalogPolicy{Name: "user", Plural: "users", RecentLimit: 5}
)

// ListService adds creator lookups to the list catalog.
type ListService struct {
	*CatalogService[*domain.List]
	lists repository.ListRepository
}

// NewListService builds the list service.
func NewListService(repo repository.ListRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ListService {
	return &ListService{
		CatalogService: NewCatalogService[*domain.List](repo, ListPolicy, dispatcher, logger),
		lists:          repo,
	}
}

// ListByCreator returns the lists created by one user.
func (s *ListService) ListByCreator(ctx context.Context, creatorID string) ([]*domain.List, error) {
	lists, err := s.lists.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(DatabaseErrorMessage, err)
	}
	if len(lists) == 0 {
		return nil, apperrors.NewNotFound("Could not find lists for the provided user id")
	}
	return lists, nil
}

// NewVideoService builds the video catalog.
func NewVideoService(repo repository.VideoRepository, dispatcher events.Dispatcher, logger *zap.Logger) *CatalogService[*domain.Video] {
	return NewCatalogService[*domain.Video](repo, VideoPolicy, dispatcher, logger)
}

// UserService is the admin view over accounts.
type UserService struct {
	*CatalogService[*domain.User]
	users repository.UserRepository
}

// NewUserService builds the user service.
func NewUserService(repo repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	return &UserService{
		CatalogService: NewCatalogService[*domain.User](repo, UserPolicy, dispatcher, logger),
		users:          repo,
	}
}

// Stats returns signups per calendar month.
func (s *UserService) Stats(ctx context.Context) ([]domain.MonthlySignups, error) {
	stats, err := s.users.MonthlySignups(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(DatabaseErrorMessage, err)
	}
	if stats == nil {
		stats = []domain.MonthlySignups{}
	}
	return stats, nil
}

// PromoteAdmin grants the admin flag to an existing account.
func (s *UserService) PromoteAdmin(ctx context.Context, email string) error {
	if err := s.users.SetAdmin(ctx, email); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFound("Could not find user for this email")
		}
		return apperrors.NewPersistenceError(DatabaseErrorMessage, err)
	}
	return nil
}
