// README: Dish store backed by PostgreSQL.
package dish

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"justonemore/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const dishColumns = `
	id, cook_id, title, description, allergens, portions,
	prepared_at, expiry_date, status, pickup_address,
	pickup_lat, pickup_lng, qr_payload, qr_path,
	trip_id, hub_id, lighthouse_id`

func (s *PGStore) Create(ctx context.Context, d *Dish) error {
	var lat, lng *float64
	if d.PickupCoords != nil {
		lat, lng = &d.PickupCoords.Lat, &d.PickupCoords.Lng
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO dishes (
			id, cook_id, title, description, allergens, portions,
			prepared_at, expiry_date, status, pickup_address,
			pickup_lat, pickup_lng, qr_payload, qr_path
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14
		)`,
		string(d.ID),
		string(d.CookID),
		d.Title,
		d.Description,
		strings.Join(d.Allergens, ","),
		d.Portions,
		d.PreparedAt,
		d.ExpiryDate,
		string(d.Status),
		d.PickupAddress,
		lat, lng,
		d.QRPayload,
		d.QRPath,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Dish, error) {
	row := s.db.QueryRow(ctx, `SELECT `+dishColumns+` FROM dishes WHERE id = $1`, string(id))
	return scanDish(row)
}

// UpdateStatus applies the target status and coalesce-merges association
// ids: an omitted (nil) id preserves the stored value rather than clearing
// it, so a trip attached at pickup survives every later transition.
func (s *PGStore) UpdateStatus(ctx context.Context, id types.ID, status Status, tripID, hubID, lighthouseID *types.ID) (*Dish, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE dishes
		SET status = $1,
		    trip_id = COALESCE($2, trip_id),
		    hub_id = COALESCE($3, hub_id),
		    lighthouse_id = COALESCE($4, lighthouse_id)
		WHERE id = $5
		RETURNING `+dishColumns,
		string(status),
		toStringPtr(tripID),
		toStringPtr(hubID),
		toStringPtr(lighthouseID),
		string(id),
	)
	return scanDish(row)
}

func (s *PGStore) ListByStatus(ctx context.Context, status Status) ([]*Dish, error) {
	return s.list(ctx, `SELECT `+dishColumns+` FROM dishes WHERE status = $1 ORDER BY prepared_at DESC`, string(status))
}

func (s *PGStore) ListByCook(ctx context.Context, cookID types.ID) ([]*Dish, error) {
	return s.list(ctx, `SELECT `+dishColumns+` FROM dishes WHERE cook_id = $1 ORDER BY prepared_at DESC`, string(cookID))
}

func (s *PGStore) ListByTrip(ctx context.Context, tripID types.ID) ([]*Dish, error) {
	return s.list(ctx, `SELECT `+dishColumns+` FROM dishes WHERE trip_id = $1 ORDER BY prepared_at DESC`, string(tripID))
}

func (s *PGStore) ListHubInventory(ctx context.Context, hubID types.ID) ([]*Dish, error) {
	return s.list(ctx, `
		SELECT `+dishColumns+` FROM dishes
		WHERE hub_id = $1 AND status IN ('at_hub', 'assigned_to_lighthouse')
		ORDER BY prepared_at DESC`, string(hubID))
}

func (s *PGStore) ListLighthouseInventory(ctx context.Context) ([]*Dish, error) {
	return s.list(ctx, `
		SELECT `+dishColumns+` FROM dishes
		WHERE status IN ('assigned_to_lighthouse', 'at_lighthouse')
		ORDER BY prepared_at DESC`)
}

// CountCookedBy returns how many dishes the user has logged as cook.
func (s *PGStore) CountCookedBy(ctx context.Context, userID types.ID) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM dishes WHERE cook_id = $1`, string(userID))
}

// CountPickedUpBy returns how many dishes were collected on the user's trips.
func (s *PGStore) CountPickedUpBy(ctx context.Context, userID types.ID) (int, error) {
	return s.count(ctx, `
		SELECT COUNT(*) FROM dishes
		WHERE trip_id IN (SELECT id FROM trips WHERE driver_id = $1)`, string(userID))
}

// CountDistributedBy returns how many of the user's cooked dishes reached
// recipients.
func (s *PGStore) CountDistributedBy(ctx context.Context, userID types.ID) (int, error) {
	return s.count(ctx, `
		SELECT COUNT(*) FROM dishes
		WHERE cook_id = $1 AND status = 'distributed'`, string(userID))
}

// CountByStatus returns the per-status dish counts for platform reporting.
func (s *PGStore) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.Query(ctx, `SELECT status, COUNT(*) FROM dishes GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[Status]int, len(AllStatuses))
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[Status(status)] = n
	}
	return out, rows.Err()
}

// TotalPortions sums portions across all dishes for platform reporting.
func (s *PGStore) TotalPortions(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COALESCE(SUM(portions), 0) FROM dishes`)
}

func (s *PGStore) list(ctx context.Context, query string, args ...any) ([]*Dish, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Dish
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PGStore) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDish(row rowScanner) (*Dish, error) {
	var d Dish
	var allergens string
	var expiry sql.NullTime
	var lat, lng sql.NullFloat64
	var tripID, hubID, lighthouseID sql.NullString

	err := row.Scan(
		&d.ID, &d.CookID, &d.Title, &d.Description, &allergens, &d.Portions,
		&d.PreparedAt, &expiry, &d.Status, &d.PickupAddress,
		&lat, &lng, &d.QRPayload, &d.QRPath,
		&tripID, &hubID, &lighthouseID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if allergens != "" {
		d.Allergens = strings.Split(allergens, ",")
	}
	if expiry.Valid {
		t := expiry.Time
		d.ExpiryDate = &t
	}
	if lat.Valid && lng.Valid {
		d.PickupCoords = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	d.TripID = toIDPtr(tripID)
	d.HubID = toIDPtr(hubID)
	d.LighthouseID = toIDPtr(lighthouseID)
	return &d, nil
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func toIDPtr(v sql.NullString) *types.ID {
	if !v.Valid {
		return nil
	}
	id := types.ID(v.String)
	return &id
}
