// README: Trip store backed by PostgreSQL.
package trip

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"justonemore/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const tripColumns = `id, driver_id, status, started_at, ended_at`

func (s *PGStore) Create(ctx context.Context, t *Trip) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO trips (id, driver_id, status, started_at)
		VALUES ($1, $2, $3, $4)`,
		string(t.ID), string(t.DriverID), string(t.Status), t.StartedAt,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Trip, error) {
	row := s.db.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, string(id))
	return scanTrip(row)
}

func (s *PGStore) End(ctx context.Context, id types.ID, endedAt time.Time) (*Trip, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE trips
		SET status = $1, ended_at = $2
		WHERE id = $3
		RETURNING `+tripColumns,
		string(StatusCompleted), endedAt, string(id),
	)
	return scanTrip(row)
}

func (s *PGStore) ListByDriver(ctx context.Context, driverID types.ID) ([]*Trip, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tripColumns+` FROM trips
		WHERE driver_id = $1 ORDER BY started_at DESC`, string(driverID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PGStore) ActiveByDriver(ctx context.Context, driverID types.ID) (*Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+tripColumns+` FROM trips
		WHERE driver_id = $1 AND status = $2
		ORDER BY started_at DESC LIMIT 1`,
		string(driverID), string(StatusActive))
	return scanTrip(row)
}

// CountActive returns the number of trips still underway, for platform
// reporting.
func (s *PGStore) CountActive(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM trips WHERE status = $1`,
		string(StatusActive)).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*Trip, error) {
	var t Trip
	var ended sql.NullTime

	err := row.Scan(&t.ID, &t.DriverID, &t.Status, &t.StartedAt, &ended)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if ended.Valid {
		at := ended.Time
		t.EndedAt = &at
	}
	return &t, nil
}
