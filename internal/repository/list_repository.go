package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/winkingcatstudios/video-streaming-backend/internal/domain"
	"github.com/winkingcatstudios/video-streaming-backend/internal/persistence"
	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

// ListRepository persists curated lists. Creating and deleting a list also
// maintains the creator's list_ids in the same transaction.
type ListRepository interface {
	CatalogRepository[*domain.List]
	RandomSampler[*domain.List]
	ListByCreator(ctx context.Context, creatorID string) ([]*domain.List, error)
}

type listRepository struct {
	db persistence.DB
}

// NewListRepository returns a Postgres-backed implementation.
func NewListRepository(db persistence.DB) ListRepository {
	return &listRepository{db: db}
}

const listColumns = `id::text, title, type, genre, content, creator_id::text, created_at, updated_at`

func scanList(row pgx.Row) (*domain.List, error) {
	var list domain.List
	if err := row.Scan(
		&list.ID,
		&list.Title,
		&list.Type,
		&list.Genre,
		&list.Content,
		&list.CreatorID,
		&list.CreatedAt,
		&list.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &list, nil
}

func collectLists(rows pgx.Rows) ([]*domain.List, error) {
	defer rows.Close()
	var lists []*domain.List
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

func (r *listRepository) Create(ctx context.Context, list *domain.List) error {
	const insert = `
        INSERT INTO lists (id, title, type, genre, content, creator_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`
	const appendOwner = `UPDATE users SET list_ids = array_append(list_ids, $1) WHERE id=$2`

	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	if list.Content == nil {
		list.Content = []string{}
	}

	return persistence.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insert,
			list.ID,
			list.Title,
			list.Type,
			list.Genre,
			list.Content,
			list.CreatorID,
		).Scan(&list.CreatedAt, &list.UpdatedAt); err != nil {
			return mapWriteErr(err)
		}
		cmd, err := tx.Exec(ctx, appendOwner, list.ID, list.CreatorID)
		if err != nil {
			return fmt.Errorf("append list to owner: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("append list to owner: %w", apperrors.ErrNotFound)
		}
		return nil
	})
}

func (r *listRepository) Update(ctx context.Context, list *domain.List) error {
	const query = `
        UPDATE lists SET title=$1, type=$2, genre=$3, content=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`

	if list.Content == nil {
		list.Content = []string{}
	}
	err := r.db.QueryRow(ctx, query,
		list.Title,
		list.Type,
		list.Genre,
		list.Content,
		list.ID,
	).Scan(&list.UpdatedAt)
	if err != nil {
		return mapWriteErr(mapReadErr(err))
	}
	return nil
}

func (r *listRepository) Delete(ctx context.Context, id string) error {
	const remove = `DELETE FROM lists WHERE id=$1 RETURNING creator_id::text`
	const pullOwner = `UPDATE users SET list_ids = array_remove(list_ids, $1) WHERE id=$2`

	return persistence.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var creatorID string
		if err := tx.QueryRow(ctx, remove, id).Scan(&creatorID); err != nil {
			return mapReadErr(err)
		}
		if _, err := tx.Exec(ctx, pullOwner, id, creatorID); err != nil {
			return fmt.Errorf("pull list from owner: %w", err)
		}
		return nil
	})
}

func (r *listRepository) GetByID(ctx context.Context, id string) (*domain.List, error) {
	list, err := scanList(r.db.QueryRow(ctx, `SELECT `+listColumns+` FROM lists WHERE id=$1`, id))
	if err != nil {
		return nil, mapReadErr(err)
	}
	return list, nil
}

func (r *listRepository) List(ctx context.Context, limit int) ([]*domain.List, error) {
	rows, err := r.db.Query(ctx, `SELECT `+listColumns+` FROM lists ORDER BY created_at DESC`+limitClause(limit))
	if err != nil {
		return nil, err
	}
	return collectLists(rows)
}

func (r *listRepository) ListByCreator(ctx context.Context, creatorID string) ([]*domain.List, error) {
	rows, err := r.db.Query(ctx, `SELECT `+listColumns+` FROM lists WHERE creator_id=$1 ORDER BY created_at DESC`, creatorID)
	if err != nil {
		return nil, err
	}
	return collectLists(rows)
}

func (r *listRepository) Random(ctx context.Context, filter domain.RandomFilter) (*domain.List, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("type=$%d", len(args)))
	}
	if filter.Genre != "" {
		args = append(args, filter.Genre)
		conds = append(conds, fmt.Sprintf("genre=$%d", len(args)))
	}
	query := `SELECT ` + listColumns + ` FROM lists`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY random() LIMIT 1`

	list, err := scanList(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapReadErr(err)
	}
	return list, nil
}
