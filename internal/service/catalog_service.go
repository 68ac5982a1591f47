package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/winkingcatstudios/video-streaming-backend/internal/domain"
	"github.com/winkingcatstudios/video-streaming-backend/internal/events"
	"github.com/winkingcatstudios/video-streaming-backend/internal/repository"
	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

// DatabaseErrorMessage is returned for lookups that fail in the database.
const DatabaseErrorMessage = "Something went wrong, database error"

// CatalogPolicy describes how one resource kind behaves.
type CatalogPolicy struct {
	// Name is the singular noun used in messages, e.g. "list".
	Name   string
	Plural string
	// OwnerCheck restricts update and delete to the creator or an admin.
	OwnerCheck bool
	// RecentLimit caps List when only the newest records are requested.
	RecentLimit int
}

func (p CatalogPolicy) title() string {
	if p.Name == "" {
		return ""
	}
	return strings.ToUpper(p.Name[:1]) + p.Name[1:]
}

// CatalogService implements list, get, random, create, update and delete for
// one resource kind.
type CatalogService[T domain.Record] struct {
	repo       repository.CatalogRepository[T]
	policy     CatalogPolicy
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCatalogService builds a catalog service.
func NewCatalogService[T domain.Record](repo repository.CatalogRepository[T], policy CatalogPolicy, dispatcher events.Dispatcher, logger *zap.Logger) *CatalogService[T] {
	return &CatalogService[T]{repo: repo, policy: policy, dispatcher: dispatcher, logger: logger}
}

// Policy returns the resource policy.
func (s *CatalogService[T]) Policy() CatalogPolicy { return s.policy }

// List returns every record, or only the newest ones when recent is set.
func (s *CatalogService[T]) List(ctx context.Context, recent bool) ([]T, error) {
	limit := 0
	if recent {
		limit = s.policy.RecentLimit
	}
	records, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, apperrors.NewPersistenceError(DatabaseErrorMessage, err)
	}
	if len(records) == 0 {
		return nil, apperrors.NewNotFound(fmt.Sprintf("Could not find %s", s.policy.Plural))
	}
	return records, nil
}

// Get loads one record. Lookup failures win over not-found.
func (s *CatalogService[T]) Get(ctx context.Context, id string) (T, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		var zero T
		if errors.Is(err, apperrors.ErrNotFound) {
			return zero, apperrors.NewNotFound(fmt.Sprintf("Could not find a %s for the provided id", s.policy.Name))
		}
		return zero, apperrors.NewPersistenceError(DatabaseErrorMessage, err)
	}
	return record, nil
}

// Random samples one record among those matching filter.
func (s *CatalogService[T]) Random(ctx context.Context, filter domain.RandomFilter) (T, error) {
	var zero T
	sampler, ok := s.repo.(repository.RandomSampler[T])
	if !ok {
		return zero, apperrors.NewNotFound(fmt.Sprintf("Could not find %s", s.policy.Plural))
	}
	record, err := sampler.Random(ctx, filter)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return zero, apperrors.NewNotFound(fmt.Sprintf("Could not find %s", s.policy.Plural))
		}
		return zero, apperrors.NewPersistenceError(DatabaseErrorMessage, err)
	}
	return record, nil
}

// Create persists a record that already passed validation.
func (s *CatalogService[T]) Create(ctx context.Context, actor *domain.Identity, record T) error {
	if err := s.repo.Create(ctx, record); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.NewConflict(fmt.Sprintf("%s already exists", s.policy.title()), err)
		}
		return apperrors.NewCreationError(fmt.Sprintf("Creating %s failed, please try again", s.policy.Name), err)
	}
	s.publishChange(ctx, actor, events.ActionCreated, record.RecordID())
	return nil
}

// Update loads the record, checks ownership, applies the edit and persists it.
func (s *CatalogService[T]) Update(ctx context.Context, actor *domain.Identity, id string, apply func(T)) (T, error) {
	var zero T
	record, err := s.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if err := s.authorize(actor, record); err != nil {
		return zero, err
	}

	apply(record)
	if err := s.repo.Update(ctx, record); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrConflict):
			return zero, apperrors.NewConflict(fmt.Sprintf("%s already exists", s.policy.title()), err)
		case errors.Is(err, apperrors.ErrNotFound):
			return zero, apperrors.NewNotFound(fmt.Sprintf("Could not find a %s for the provided id", s.policy.Name))
		}
		return zero, apperrors.NewPersistenceError(fmt.Sprintf("Updating %s failed, please try again", s.policy.Name), err)
	}
	s.publishChange(ctx, actor, events.ActionUpdated, record.RecordID())
	return record, nil
}

// Delete removes the record and schedules removal of its uploaded file.
func (s *CatalogService[T]) Delete(ctx context.Context, actor *domain.Identity, id string) error {
	failed := fmt.Sprintf("Deleting %s failed, please try again", s.policy.Name)
	missing := fmt.Sprintf("Could not find %s for this id", s.policy.Name)

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFound(missing)
		}
		return apperrors.NewPersistenceError(failed, err)
	}
	if err := s.authorize(actor, record); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFound(missing)
		}
		return apperrors.NewPersistenceError(failed, err)
	}

	if file := record.UploadedFile(); file != "" {
		s.publish(ctx, events.NewEvent(events.EventFileOrphaned, actorID(actor), events.FileOrphanedPayload{
			Path:   file,
			Reason: s.policy.Name + " deleted",
		}))
	}
	s.publishChange(ctx, actor, events.ActionDeleted, id)
	return nil
}

func (s *CatalogService[T]) authorize(actor *domain.Identity, record T) error {
	if !s.policy.OwnerCheck {
		return nil
	}
	if actor != nil && (actor.IsAdmin || actor.UserID == record.OwnerID()) {
		return nil
	}
	return apperrors.NewAuthorizationError(fmt.Sprintf("You are not allowed to modify this %s", s.policy.Name))
}

func (s *CatalogService[T]) publishChange(ctx context.Context, actor *domain.Identity, action events.Action, recordID string) {
	s.publish(ctx, events.NewEvent(events.EventCatalogChanged, actorID(actor), events.CatalogChangedPayload{
		Resource: s.policy.Name,
		Action:   action,
		RecordID: recordID,
	}))
}

func (s *CatalogService[T]) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

func actorID(actor *domain.Identity) string {
	if actor == nil {
		return ""
	}
	return actor.UserID
}
