package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"productdesk/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, s domain.Session) error {
	data, err := json.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("encode session data: %w", err)
	}
	const q = `
INSERT INTO sessions (id, user_id, data, expires_at)
VALUES ($1, $2, $3, $4)
`
	_, err = r.pool.Exec(ctx, q, s.ID, s.UserID, data, s.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	const q = `
SELECT id, user_id, data, expires_at, created_at, updated_at
FROM sessions
WHERE id = $1
LIMIT 1
`
	var (
		out  domain.Session
		data []byte
	)
	if err := r.pool.QueryRow(ctx, q, id).Scan(
		&out.ID,
		&out.UserID,
		&data,
		&out.ExpiresAt,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out.Data); err != nil {
			return nil, fmt.Errorf("decode session data: %w", err)
		}
	}
	return &out, nil
}

func (r *postgresRepo) Save(ctx context.Context, s domain.Session) error {
	data, err := json.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("encode session data: %w", err)
	}
	const q = `
UPDATE sessions
SET user_id = $2, data = $3, expires_at = $4, updated_at = now()
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q, s.ID, s.UserID, data, s.ExpiresAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
