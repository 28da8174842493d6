package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wayfare/internal/types"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, uid types.ID) (*UserProfile, error) {
	p := UserProfile{UID: uid}
	err := s.db.QueryRow(ctx, `
		SELECT email, city, travel_group, experiences, activities, dream_type, updated_at
		FROM users WHERE uid = $1
	`, string(uid)).Scan(&p.Email, &p.City, &p.Group, &p.Experiences, &p.Activities, &p.DreamType, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Experiences = nonNil(p.Experiences)
	p.Activities = nonNil(p.Activities)
	return &p, nil
}

// Save upserts every column so the stored row always equals the latest form submission.
func (s *PostgresStore) Save(ctx context.Context, p *UserProfile) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (uid, email, city, travel_group, experiences, activities, dream_type, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (uid) DO UPDATE SET
			email = EXCLUDED.email,
			city = EXCLUDED.city,
			travel_group = EXCLUDED.travel_group,
			experiences = EXCLUDED.experiences,
			activities = EXCLUDED.activities,
			dream_type = EXCLUDED.dream_type,
			updated_at = EXCLUDED.updated_at
	`, string(p.UID), p.Email, p.City, p.Group, nonNil(p.Experiences), nonNil(p.Activities), p.DreamType, p.UpdatedAt)
	return err
}
