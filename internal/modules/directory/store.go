// README: Directory store backed by PostgreSQL.
package directory

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"justonemore/internal/types"
)

var ErrNotFound = errors.New("directory record not found")

type PGStore struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const userColumns = `id, name, email, phone, roles, address, lat, lng`

func (s *PGStore) CreateUser(ctx context.Context, u *User) error {
	lat, lng := coordCols(u.Coords)
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, roles, address, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(u.ID), u.Name, u.Email, u.Phone, joinRoles(u.Roles), u.Address, lat, lng,
	)
	return err
}

// UpsertUser inserts the user or, when the email is already registered,
// refreshes the profile fields and returns the stored record.
func (s *PGStore) UpsertUser(ctx context.Context, u *User) (*User, error) {
	lat, lng := coordCols(u.Coords)
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, name, email, phone, roles, address, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			roles = EXCLUDED.roles,
			address = EXCLUDED.address,
			lat = COALESCE(EXCLUDED.lat, users.lat),
			lng = COALESCE(EXCLUDED.lng, users.lng)
		RETURNING `+userColumns,
		string(u.ID), u.Name, u.Email, u.Phone, joinRoles(u.Roles), u.Address, lat, lng,
	)
	return scanUser(row)
}

func (s *PGStore) GetUser(ctx context.Context, id types.ID) (*User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, string(id))
	return scanUser(row)
}

func (s *PGStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var roles string
	var lat, lng sql.NullFloat64
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &roles, &u.Address, &lat, &lng)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Roles = splitRoles(roles)
	if lat.Valid && lng.Valid {
		u.Coords = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	return &u, nil
}

func joinRoles(roles []Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

func splitRoles(csv string) []Role {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]Role, 0, len(parts))
	for _, p := range parts {
		out = append(out, Role(p))
	}
	return out
}

// CountUsers returns the number of registered users for platform reporting.
func (s *PGStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *PGStore) CreateHub(ctx context.Context, h *Hub) error {
	lat, lng := coordCols(h.Coords)
	_, err := s.db.Exec(ctx, `
		INSERT INTO hubs (id, name, address, lat, lng)
		VALUES ($1, $2, $3, $4, $5)`,
		string(h.ID), h.Name, h.Address, lat, lng,
	)
	return err
}

func (s *PGStore) GetHub(ctx context.Context, id types.ID) (*Hub, error) {
	row := s.db.QueryRow(ctx, `SELECT id, name, address, lat, lng FROM hubs WHERE id = $1`, string(id))
	return scanHub(row)
}

func (s *PGStore) ListHubs(ctx context.Context) ([]*Hub, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, address, lat, lng FROM hubs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Hub
	for rows.Next() {
		h, err := scanHub(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *PGStore) CreateLighthouse(ctx context.Context, l *Lighthouse) error {
	lat, lng := coordCols(l.Coords)
	_, err := s.db.Exec(ctx, `
		INSERT INTO lighthouses (id, name, address, lat, lng)
		VALUES ($1, $2, $3, $4, $5)`,
		string(l.ID), l.Name, l.Address, lat, lng,
	)
	return err
}

func (s *PGStore) GetLighthouse(ctx context.Context, id types.ID) (*Lighthouse, error) {
	row := s.db.QueryRow(ctx, `SELECT id, name, address, lat, lng FROM lighthouses WHERE id = $1`, string(id))
	var l Lighthouse
	var lat, lng sql.NullFloat64
	err := row.Scan(&l.ID, &l.Name, &l.Address, &lat, &lng)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		l.Coords = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	return &l, nil
}

func (s *PGStore) ListLighthouses(ctx context.Context) ([]*Lighthouse, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, address, lat, lng FROM lighthouses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Lighthouse
	for rows.Next() {
		var l Lighthouse
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &lat, &lng); err != nil {
			return nil, err
		}
		if lat.Valid && lng.Valid {
			l.Coords = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHub(row rowScanner) (*Hub, error) {
	var h Hub
	var lat, lng sql.NullFloat64
	err := row.Scan(&h.ID, &h.Name, &h.Address, &lat, &lng)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		h.Coords = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	return &h, nil
}

func coordCols(p *types.Point) (*float64, *float64) {
	if p == nil {
		return nil, nil
	}
	return &p.Lat, &p.Lng
}
