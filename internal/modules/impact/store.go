// README: Notification store backed by PostgreSQL.
package impact

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	"justonemore/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, n *Notification) error {
	var dishID *string
	if n.DishID != nil {
		v := string(*n.DishID)
		dishID = &v
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, dish_id, type, message, created_at, read)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)`,
		string(n.ID), string(n.UserID), dishID, n.Type, n.Message, n.CreatedAt,
	)
	return err
}

func (s *PGStore) ListRecent(ctx context.Context, userID types.ID, limit int) ([]*Notification, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, dish_id, type, message, created_at, read
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, string(userID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Notification
	for rows.Next() {
		var n Notification
		var dishID sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &dishID, &n.Type, &n.Message, &n.CreatedAt, &n.Read); err != nil {
			return nil, err
		}
		if dishID.Valid {
			id := types.ID(dishID.String)
			n.DishID = &id
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (s *PGStore) MarkRead(ctx context.Context, id types.ID) error {
	_, err := s.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, string(id))
	return err
}
