package trip

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/samber/lo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"wayfare/internal/types"
)

const (
	collTrips     = "trips"
	collItinerary = "itinerary"
	collUsers     = "users"
)

// FirestoreStore keeps trips as top-level documents with an itinerary sub-collection.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

type tripDoc struct {
	TripName    string    `firestore:"tripName"`
	Budget      float64   `firestore:"budget"`
	Travelers   int       `firestore:"travelers"`
	Origin      string    `firestore:"origin"`
	Destination string    `firestore:"destination"`
	StartDate   *string   `firestore:"startDate"`
	EndDate     *string   `firestore:"endDate"`
	Owner       string    `firestore:"owner"`
	Members     []string  `firestore:"members"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

type itemDoc struct {
	OfferID  string    `firestore:"offerId"`
	Title    string    `firestore:"title"`
	Subtitle string    `firestore:"subtitle"`
	Price    float64   `firestore:"price"`
	ImageURL string    `firestore:"imageUrl"`
	Type     string    `firestore:"type"`
	SavedAt  time.Time `firestore:"savedAt"`
}

type userDoc struct {
	Email string `firestore:"email"`
}

func (s *FirestoreStore) trips() *firestore.CollectionRef {
	return s.client.Collection(collTrips)
}

func (s *FirestoreStore) itinerary(tripID types.ID) *firestore.CollectionRef {
	return s.trips().Doc(string(tripID)).Collection(collItinerary)
}

func (s *FirestoreStore) CreateTrip(ctx context.Context, t *Trip) error {
	ref := s.trips().NewDoc()
	if _, err := ref.Create(ctx, toTripDoc(t)); err != nil {
		return err
	}
	t.ID = types.ID(ref.ID)
	return nil
}

func (s *FirestoreStore) GetTrip(ctx context.Context, id types.ID) (*Trip, error) {
	snap, err := s.trips().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromTripSnap(snap)
}

func (s *FirestoreStore) ListTripsByMember(ctx context.Context, uid types.ID) ([]Trip, error) {
	snaps, err := s.trips().Where("members", "array-contains", string(uid)).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]Trip, 0, len(snaps))
	for _, snap := range snaps {
		t, err := fromTripSnap(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

// AddMember is a set union on the members array.
func (s *FirestoreStore) AddMember(ctx context.Context, tripID, uid types.ID) error {
	_, err := s.trips().Doc(string(tripID)).Update(ctx, []firestore.Update{
		{Path: "members", Value: firestore.ArrayUnion(string(uid))},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (s *FirestoreStore) AddItem(ctx context.Context, tripID types.ID, item *ItineraryItem) error {
	ref := s.itinerary(tripID).NewDoc()
	_, err := ref.Create(ctx, itemDoc{
		OfferID:  item.OfferID,
		Title:    item.Title,
		Subtitle: item.Subtitle,
		Price:    item.Price,
		ImageURL: item.ImageURL,
		Type:     string(item.Type),
		SavedAt:  item.SavedAt,
	})
	if err != nil {
		return err
	}
	item.ID = types.ID(ref.ID)
	return nil
}

func (s *FirestoreStore) DeleteItem(ctx context.Context, tripID, itemID types.ID) error {
	_, err := s.itinerary(tripID).Doc(string(itemID)).Delete(ctx)
	return err
}

func (s *FirestoreStore) ItemExists(ctx context.Context, tripID, itemID types.ID) (bool, error) {
	_, err := s.itinerary(tripID).Doc(string(itemID)).Get(ctx)
	switch {
	case err == nil:
		return true, nil
	case status.Code(err) == codes.NotFound:
		return false, nil
	default:
		return false, err
	}
}

func (s *FirestoreStore) ListItems(ctx context.Context, tripID types.ID) ([]ItineraryItem, error) {
	snaps, err := s.itinerary(tripID).OrderBy("savedAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]ItineraryItem, 0, len(snaps))
	for _, snap := range snaps {
		var d itemDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		out = append(out, ItineraryItem{
			ID:       types.ID(snap.Ref.ID),
			OfferID:  d.OfferID,
			Title:    d.Title,
			Subtitle: d.Subtitle,
			Price:    d.Price,
			ImageURL: d.ImageURL,
			Type:     types.ItemType(d.Type),
			SavedAt:  d.SavedAt,
		})
	}
	return out, nil
}

func (s *FirestoreStore) GetUsers(ctx context.Context, uids []types.ID) ([]UserRef, error) {
	if len(uids) == 0 {
		return []UserRef{}, nil
	}
	refs := lo.Map(uids, func(uid types.ID, _ int) *firestore.DocumentRef {
		return s.client.Collection(collUsers).Doc(string(uid))
	})
	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, err
	}
	out := make([]UserRef, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var d userDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		out = append(out, UserRef{UID: types.ID(snap.Ref.ID), Email: d.Email})
	}
	return out, nil
}

func (s *FirestoreStore) SearchUsersByEmail(ctx context.Context, lower, upper string) ([]UserRef, error) {
	snaps, err := s.client.Collection(collUsers).
		Where("email", ">=", lower).
		Where("email", "<", upper).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]UserRef, 0, len(snaps))
	for _, snap := range snaps {
		var d userDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		out = append(out, UserRef{UID: types.ID(snap.Ref.ID), Email: d.Email})
	}
	return out, nil
}

func toTripDoc(t *Trip) tripDoc {
	return tripDoc{
		TripName:    t.TripName,
		Budget:      t.Budget,
		Travelers:   t.Travelers,
		Origin:      t.Origin,
		Destination: t.Destination,
		StartDate:   dateField(t.StartDate),
		EndDate:     dateField(t.EndDate),
		Owner:       string(t.Owner),
		Members:     lo.Map(t.Members, func(m types.ID, _ int) string { return string(m) }),
		CreatedAt:   t.CreatedAt,
	}
}

func fromTripSnap(snap *firestore.DocumentSnapshot) (*Trip, error) {
	var d tripDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	start, err := parseDateField(d.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDateField(d.EndDate)
	if err != nil {
		return nil, err
	}
	return &Trip{
		ID:          types.ID(snap.Ref.ID),
		TripName:    d.TripName,
		Budget:      d.Budget,
		Travelers:   d.Travelers,
		Origin:      d.Origin,
		Destination: d.Destination,
		StartDate:   start,
		EndDate:     end,
		Owner:       types.ID(d.Owner),
		Members:     lo.Map(d.Members, func(m string, _ int) types.ID { return types.ID(m) }),
		CreatedAt:   d.CreatedAt,
	}, nil
}

func dateField(d types.Date) *string {
	if d.IsZero() {
		return nil
	}
	s := d.String()
	return &s
}

func parseDateField(s *string) (types.Date, error) {
	if s == nil {
		return types.Date{}, nil
	}
	d, err := types.ParseDate(*s)
	if err != nil {
		return types.Date{}, fmt.Errorf("stored date %q: %w", *s, err)
	}
	return d, nil
}
