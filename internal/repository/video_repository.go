package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/winkingcatstudios/video-streaming-backend/internal/domain"
	"github.com/winkingcatstudios/video-streaming-backend/internal/persistence"
	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

// VideoRepository persists catalog videos.
type VideoRepository interface {
	CatalogRepository[*domain.Video]
	RandomSampler[*domain.Video]
}

type videoRepository struct {
	db persistence.DB
}

// NewVideoRepository returns a Postgres-backed implementation.
func NewVideoRepository(db persistence.DB) VideoRepository {
	return &videoRepository{db: db}
}

const videoColumns = `id::text, title, description, image, image_title, image_thumb, trailer, video, year, age_limit, genre, is_series, created_at, updated_at`

func scanVideo(row pgx.Row) (*domain.Video, error) {
	var v domain.Video
	if err := row.Scan(
		&v.ID,
		&v.Title,
		&v.Description,
		&v.Image,
		&v.ImageTitle,
		&v.ImageThumb,
		&v.Trailer,
		&v.Video,
		&v.Year,
		&v.AgeLimit,
		&v.Genre,
		&v.IsSeries,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *videoRepository) Create(ctx context.Context, v *domain.Video) error {
	const query = `
        INSERT INTO videos (id, title, description, image, image_title, image_thumb, trailer, video, year, age_limit, genre, is_series)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING created_at, updated_at`

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	err := r.db.QueryRow(ctx, query,
		v.ID,
		v.Title,
		v.Description,
		v.Image,
		v.ImageTitle,
		v.ImageThumb,
		v.Trailer,
		v.Video,
		v.Year,
		v.AgeLimit,
		v.Genre,
		v.IsSeries,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	return mapWriteErr(err)
}

func (r *videoRepository) Update(ctx context.Context, v *domain.Video) error {
	const query = `
        UPDATE videos SET title=$1, description=$2, image=$3, image_title=$4, image_thumb=$5,
            trailer=$6, video=$7, year=$8, age_limit=$9, genre=$10, is_series=$11, updated_at=NOW()
        WHERE id=$12
        RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		v.Title,
		v.Description,
		v.Image,
		v.ImageTitle,
		v.ImageThumb,
		v.Trailer,
		v.Video,
		v.Year,
		v.AgeLimit,
		v.Genre,
		v.IsSeries,
		v.ID,
	).Scan(&v.UpdatedAt)
	if err != nil {
		return mapWriteErr(mapReadErr(err))
	}
	return nil
}

func (r *videoRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	v, err := scanVideo(r.db.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id=$1`, id))
	if err != nil {
		return nil, mapReadErr(err)
	}
	return v, nil
}

func (r *videoRepository) List(ctx context.Context, limit int) ([]*domain.Video, error) {
	rows, err := r.db.Query(ctx, `SELECT `+videoColumns+` FROM videos ORDER BY created_at DESC`+limitClause(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []*domain.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// Random samples among videos whose is_series flag matches the filter,
// narrowed by genre when one is given.
func (r *videoRepository) Random(ctx context.Context, filter domain.RandomFilter) (*domain.Video, error) {
	isSeries := filter.IsSeries != nil && *filter.IsSeries
	args := []any{isSeries}
	query := `SELECT ` + videoColumns + ` FROM videos WHERE is_series=$1`
	if filter.Genre != "" {
		args = append(args, filter.Genre)
		query += fmt.Sprintf(" AND genre=$%d", len(args))
	}
	query += ` ORDER BY random() LIMIT 1`

	v, err := scanVideo(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapReadErr(err)
	}
	return v, nil
}
