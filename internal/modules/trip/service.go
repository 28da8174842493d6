package trip

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"wayfare/internal/types"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// CreateTrip stores a new trip owned by owner, who becomes its first member.
func (s *Service) CreateTrip(ctx context.Context, owner types.ID, cmd CreateTripCommand) (*Trip, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}
	cmd.TripName = strings.TrimSpace(cmd.TripName)
	cmd.Origin = strings.TrimSpace(cmd.Origin)
	cmd.Destination = strings.TrimSpace(cmd.Destination)
	if cmd.Travelers == 0 {
		cmd.Travelers = 1
	}
	switch {
	case cmd.TripName == "":
		return nil, fmt.Errorf("%w: tripName is required", ErrBadRequest)
	case cmd.Origin == "":
		return nil, fmt.Errorf("%w: origin is required", ErrBadRequest)
	case cmd.Travelers < 1:
		return nil, fmt.Errorf("%w: travelers must be positive", ErrBadRequest)
	case cmd.Budget < 0:
		return nil, fmt.Errorf("%w: budget must not be negative", ErrBadRequest)
	case !cmd.StartDate.IsZero() && !cmd.EndDate.IsZero() && cmd.EndDate.Before(cmd.StartDate.Time):
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrBadRequest)
	}

	t := &Trip{
		TripName:    cmd.TripName,
		Budget:      cmd.Budget,
		Travelers:   cmd.Travelers,
		Origin:      cmd.Origin,
		Destination: cmd.Destination,
		StartDate:   cmd.StartDate,
		EndDate:     cmd.EndDate,
		Owner:       owner,
		Members:     []types.ID{owner},
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateTrip(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTripsForMember returns every trip uid belongs to, in store order.
func (s *Service) ListTripsForMember(ctx context.Context, uid types.ID) ([]Trip, error) {
	if uid == "" {
		return nil, ErrUnauthorized
	}
	trips, err := s.store.ListTripsByMember(ctx, uid)
	if err != nil {
		return nil, err
	}
	if trips == nil {
		trips = []Trip{}
	}
	return trips, nil
}

func (s *Service) GetTrip(ctx context.Context, caller, tripID types.ID) (*Trip, error) {
	return s.requireMember(ctx, caller, tripID)
}

// AddItineraryItem snapshots offer under the trip. Saving the same offer twice yields two items.
func (s *Service) AddItineraryItem(ctx context.Context, caller, tripID types.ID, offer types.Offer, typ types.ItemType) (*ItineraryItem, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: type must be flight, stays or activity", ErrBadRequest)
	}
	if strings.TrimSpace(offer.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrBadRequest)
	}
	if offer.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrBadRequest)
	}
	if _, err := s.requireMember(ctx, caller, tripID); err != nil {
		return nil, err
	}

	item := &ItineraryItem{
		OfferID:  offer.ID,
		Title:    offer.Title,
		Subtitle: offer.Subtitle,
		Price:    offer.Price,
		ImageURL: offer.ImageURL,
		Type:     typ,
		SavedAt:  s.now().UTC(),
	}
	if err := s.store.AddItem(ctx, tripID, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItineraryItem removes the item and verifies it is gone. Deleting an absent item succeeds.
func (s *Service) DeleteItineraryItem(ctx context.Context, caller, tripID, itemID types.ID) error {
	if itemID == "" {
		return fmt.Errorf("%w: item id is required", ErrBadRequest)
	}
	if _, err := s.requireMember(ctx, caller, tripID); err != nil {
		return err
	}
	if err := s.store.DeleteItem(ctx, tripID, itemID); err != nil {
		return err
	}
	exists, err := s.store.ItemExists(ctx, tripID, itemID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDeleteFailed
	}
	return nil
}

func (s *Service) ListItineraryItems(ctx context.Context, caller, tripID types.ID) ([]ItineraryItem, error) {
	if _, err := s.requireMember(ctx, caller, tripID); err != nil {
		return nil, err
	}
	items, err := s.store.ListItems(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []ItineraryItem{}
	}
	return items, nil
}

// ListMembers resolves member ids to users in membership order.
// Members without a user document are left out.
func (s *Service) ListMembers(ctx context.Context, caller, tripID types.ID) ([]Member, error) {
	t, err := s.requireMember(ctx, caller, tripID)
	if err != nil {
		return nil, err
	}
	users, err := s.store.GetUsers(ctx, t.Members)
	if err != nil {
		return nil, err
	}
	byUID := lo.KeyBy(users, func(u UserRef) types.ID { return u.UID })
	return lo.FilterMap(t.Members, func(uid types.ID, _ int) (Member, bool) {
		u, ok := byUID[uid]
		if !ok {
			return Member{}, false
		}
		return Member{UID: uid, Email: u.Email, Name: displayName(u.Email)}, true
	}), nil
}

// SearchUsersByEmailPrefix finds users whose email starts with prefix.
// A blank prefix returns nothing without touching the store.
func (s *Service) SearchUsersByEmailPrefix(ctx context.Context, prefix string) ([]UserRef, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []UserRef{}, nil
	}
	users, err := s.store.SearchUsersByEmail(ctx, prefix, prefix+emailSentinel)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []UserRef{}
	}
	return users, nil
}

// AddMember adds uid to the trip. Adding an existing member is a no-op.
func (s *Service) AddMember(ctx context.Context, caller, tripID, uid types.ID) (*Trip, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	t, err := s.requireMember(ctx, caller, tripID)
	if err != nil {
		return nil, err
	}
	if lo.Contains(t.Members, uid) {
		return t, nil
	}
	if err := s.store.AddMember(ctx, tripID, uid); err != nil {
		return nil, err
	}
	t.Members = append(t.Members, uid)
	return t, nil
}

// requireMember loads the trip and checks that caller currently belongs to it.
func (s *Service) requireMember(ctx context.Context, caller, tripID types.ID) (*Trip, error) {
	if caller == "" {
		return nil, ErrUnauthorized
	}
	if tripID == "" {
		return nil, fmt.Errorf("%w: trip id is required", ErrBadRequest)
	}
	t, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !lo.Contains(t.Members, caller) {
		return nil, ErrUnauthorized
	}
	return t, nil
}

func displayName(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
