package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/winkingcatstudios/video-streaming-backend/internal/domain"
	"github.com/winkingcatstudios/video-streaming-backend/internal/persistence"
	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

// CatalogRepository is the persistence surface shared by every catalog entity.
// Lookups return apperrors.ErrNotFound when no row matches and writes return
// apperrors.ErrConflict on a unique violation.
type CatalogRepository[T domain.Record] interface {
	// List returns records newest first. A positive limit caps the result.
	List(ctx context.Context, limit int) ([]T, error)
	GetByID(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, record T) error
	Update(ctx context.Context, record T) error
	Delete(ctx context.Context, id string) error
}

// RandomSampler picks one record matching a filter.
type RandomSampler[T domain.Record] interface {
	Random(ctx context.Context, filter domain.RandomFilter) (T, error)
}

func limitClause(limit int) string {
	if limit > 0 {
		return fmt.Sprintf(" LIMIT %d", limit)
	}
	return ""
}

func mapWriteErr(err error) error {
	if persistence.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
	}
	return err
}

func mapReadErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return err
}
