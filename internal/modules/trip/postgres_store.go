package trip

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"wayfare/internal/types"
)

const pgForeignKeyViolation = "23503"

// PostgresStore handles trip persistence in Postgres (see migrations/0001_wayfare.sql).
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const tripColumns = `
	t.id, t.trip_name, t.budget, t.travelers, t.origin, t.destination,
	t.start_date, t.end_date, t.owner, t.created_at,
	COALESCE(array_agg(m.uid ORDER BY m.position) FILTER (WHERE m.uid IS NOT NULL), '{}')`

func (s *PostgresStore) CreateTrip(ctx context.Context, t *Trip) error {
	id := uuid.NewString()
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO trips (id, trip_name, budget, travelers, origin, destination, start_date, end_date, owner, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, id, t.TripName, t.Budget, t.Travelers, t.Origin, t.Destination,
			nullDate(t.StartDate), nullDate(t.EndDate), string(t.Owner), t.CreatedAt)
		if err != nil {
			return err
		}
		for _, m := range t.Members {
			if _, err := tx.Exec(ctx, `
				INSERT INTO trip_members (trip_id, uid) VALUES ($1, $2) ON CONFLICT DO NOTHING
			`, id, string(m)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	t.ID = types.ID(id)
	return nil
}

func (s *PostgresStore) GetTrip(ctx context.Context, id types.ID) (*Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+tripColumns+`
		FROM trips t
		LEFT JOIN trip_members m ON m.trip_id = t.id
		WHERE t.id = $1
		GROUP BY t.id
	`, string(id))
	t, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *PostgresStore) ListTripsByMember(ctx context.Context, uid types.ID) ([]Trip, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tripColumns+`
		FROM trips t
		LEFT JOIN trip_members m ON m.trip_id = t.id
		WHERE t.id IN (SELECT trip_id FROM trip_members WHERE uid = $1)
		GROUP BY t.id
		ORDER BY t.created_at
	`, string(uid))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AddMember(ctx context.Context, tripID, uid types.ID) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO trip_members (trip_id, uid) VALUES ($1, $2) ON CONFLICT DO NOTHING
	`, string(tripID), string(uid))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return ErrNotFound
	}
	return err
}

func (s *PostgresStore) AddItem(ctx context.Context, tripID types.ID, item *ItineraryItem) error {
	id := uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO itinerary_items (id, trip_id, offer_id, title, subtitle, price, image_url, type, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, string(tripID), item.OfferID, item.Title, item.Subtitle, item.Price, item.ImageURL, string(item.Type), item.SavedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	item.ID = types.ID(id)
	return nil
}

func (s *PostgresStore) DeleteItem(ctx context.Context, tripID, itemID types.ID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM itinerary_items WHERE trip_id = $1 AND id = $2`, string(tripID), string(itemID))
	return err
}

func (s *PostgresStore) ItemExists(ctx context.Context, tripID, itemID types.ID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM itinerary_items WHERE trip_id = $1 AND id = $2)
	`, string(tripID), string(itemID)).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) ListItems(ctx context.Context, tripID types.ID) ([]ItineraryItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, offer_id, title, subtitle, price, image_url, type, saved_at
		FROM itinerary_items
		WHERE trip_id = $1
		ORDER BY saved_at, id
	`, string(tripID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ItineraryItem{}
	for rows.Next() {
		var it ItineraryItem
		var id, typ string
		if err := rows.Scan(&id, &it.OfferID, &it.Title, &it.Subtitle, &it.Price, &it.ImageURL, &typ, &it.SavedAt); err != nil {
			return nil, err
		}
		it.ID = types.ID(id)
		it.Type = types.ItemType(typ)
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetUsers(ctx context.Context, uids []types.ID) ([]UserRef, error) {
	ids := lo.Map(uids, func(u types.ID, _ int) string { return string(u) })
	rows, err := s.db.Query(ctx, `SELECT uid, email FROM users WHERE uid = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (s *PostgresStore) SearchUsersByEmail(ctx context.Context, lower, upper string) ([]UserRef, error) {
	rows, err := s.db.Query(ctx, `
		SELECT uid, email FROM users
		WHERE email COLLATE "C" >= $1 AND email COLLATE "C" < $2
		ORDER BY email COLLATE "C"
	`, lower, upper)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]UserRef, error) {
	defer rows.Close()
	out := []UserRef{}
	for rows.Next() {
		var uid, email string
		if err := rows.Scan(&uid, &email); err != nil {
			return nil, err
		}
		out = append(out, UserRef{UID: types.ID(uid), Email: email})
	}
	return out, rows.Err()
}

func scanTrip(row pgx.Row) (*Trip, error) {
	var (
		t          Trip
		id, owner  string
		start, end *time.Time
		members    []string
	)
	err := row.Scan(&id, &t.TripName, &t.Budget, &t.Travelers, &t.Origin, &t.Destination,
		&start, &end, &owner, &t.CreatedAt, &members)
	if err != nil {
		return nil, err
	}
	t.ID = types.ID(id)
	t.Owner = types.ID(owner)
	if start != nil {
		t.StartDate = types.Date{Time: *start}
	}
	if end != nil {
		t.EndDate = types.Date{Time: *end}
	}
	t.Members = lo.Map(members, func(m string, _ int) types.ID { return types.ID(m) })
	return &t, nil
}

func nullDate(d types.Date) *time.Time {
	if d.IsZero() {
		return nil
	}
	return &d.Time
}
