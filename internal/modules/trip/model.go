package trip

import (
	"context"
	"errors"
	"time"

	"wayfare/internal/types"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("not a member of this trip")
	ErrDeleteFailed = errors.New("item still present after delete")
)

// emailSentinel closes the prefix range: every string starting with p sorts below p+emailSentinel.
const emailSentinel = "\uf8ff"

type Trip struct {
	ID          types.ID   `json:"id"`
	TripName    string     `json:"tripName"`
	Budget      float64    `json:"budget"`
	Travelers   int        `json:"travelers"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	StartDate   types.Date `json:"startDate"`
	EndDate     types.Date `json:"endDate"`
	Owner       types.ID   `json:"owner"`
	Members     []types.ID `json:"members"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type CreateTripCommand struct {
	TripName    string
	Budget      float64
	Travelers   int
	Origin      string
	Destination string
	StartDate   types.Date
	EndDate     types.Date
}

type ItineraryItem struct {
	ID       types.ID       `json:"id"`
	OfferID  string         `json:"offerId,omitempty"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	Price    float64        `json:"price"`
	ImageURL string         `json:"imageUrl,omitempty"`
	Type     types.ItemType `json:"type"`
	SavedAt  time.Time      `json:"savedAt"`
}

// UserRef is the identity slice of a user document.
type UserRef struct {
	UID   types.ID `json:"id"`
	Email string   `json:"email"`
}

// Member is a resolved trip member as shown in the sharing view.
type Member struct {
	UID   types.ID `json:"uid"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
}

// Store persists trips, their itinerary sub-collection and reads user documents.
// Implementations assign IDs on create.
type Store interface {
	CreateTrip(ctx context.Context, t *Trip) error
	GetTrip(ctx context.Context, id types.ID) (*Trip, error)
	ListTripsByMember(ctx context.Context, uid types.ID) ([]Trip, error)
	AddMember(ctx context.Context, tripID, uid types.ID) error

	AddItem(ctx context.Context, tripID types.ID, item *ItineraryItem) error
	DeleteItem(ctx context.Context, tripID, itemID types.ID) error
	ItemExists(ctx context.Context, tripID, itemID types.ID) (bool, error)
	ListItems(ctx context.Context, tripID types.ID) ([]ItineraryItem, error)

	// GetUsers returns the users that exist; unknown uids are skipped.
	GetUsers(ctx context.Context, uids []types.ID) ([]UserRef, error)
	// SearchUsersByEmail returns users with lower <= email < upper.
	SearchUsersByEmail(ctx context.Context, lower, upper string) ([]UserRef, error)
}
