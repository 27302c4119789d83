package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
)

func (p *PostgresStorage) CreateExport(ctx context.Context, e *storage.ExportMeta) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO exports (id, owner_user_id, week_key, format, object_key,
		                     size_bytes, status, error, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := p.pool.Exec(ctx, query,
		e.ID,
		e.OwnerUserID,
		e.WeekKey,
		e.Format,
		e.ObjectKey,
		e.SizeBytes,
		e.Status,
		e.Error,
		e.Data,
		e.CreatedAt,
	)
	if err != nil {
		return unavailable("create export", err)
	}

	return nil
}

func (p *PostgresStorage) GetExport(ctx context.Context, ownerUserID, id string) (*storage.ExportMeta, error) {
	query := `
		SELECT id, owner_user_id, week_key, format, object_key,
		       size_bytes, status, error, data, created_at
		FROM exports
		WHERE id = $1 AND owner_user_id = $2
	`

	var e storage.ExportMeta
	err := p.pool.QueryRow(ctx, query, id, ownerUserID).Scan(
		&e.ID,
		&e.OwnerUserID,
		&e.WeekKey,
		&e.Format,
		&e.ObjectKey,
		&e.SizeBytes,
		&e.Status,
		&e.Error,
		&e.Data,
		&e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, unavailable("get export", err)
	}

	return &e, nil
}
