package profile

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"wayfare/internal/types"
)

const collUsers = "users"

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

type userDoc struct {
	Email       string    `firestore:"email"`
	City        string    `firestore:"city"`
	Group       string    `firestore:"group"`
	Experiences []string  `firestore:"experiences"`
	Activities  []string  `firestore:"activities"`
	DreamType   string    `firestore:"dreamType"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func (s *FirestoreStore) Get(ctx context.Context, uid types.ID) (*UserProfile, error) {
	snap, err := s.client.Collection(collUsers).Doc(string(uid)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return &UserProfile{
		UID:         uid,
		Email:       d.Email,
		City:        d.City,
		Group:       d.Group,
		Experiences: nonNil(d.Experiences),
		Activities:  nonNil(d.Activities),
		DreamType:   d.DreamType,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// Save replaces the whole document (no merge).
func (s *FirestoreStore) Save(ctx context.Context, p *UserProfile) error {
	_, err := s.client.Collection(collUsers).Doc(string(p.UID)).Set(ctx, userDoc{
		Email:       p.Email,
		City:        p.City,
		Group:       p.Group,
		Experiences: nonNil(p.Experiences),
		Activities:  nonNil(p.Activities),
		DreamType:   p.DreamType,
		UpdatedAt:   p.UpdatedAt,
	})
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
