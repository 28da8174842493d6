package profile

import (
	"context"
	"errors"
	"time"

	"wayfare/internal/types"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("profile not found")
)

var (
	TravelGroups = []string{
		"Solo Traveler",
		"Family Group",
		"Large Friend Group",
		"Small Friend Group",
		"Companion",
		"Parent & Kids",
	}
	Experiences = []string{
		"Tropical Weather",
		"History & Culture",
		"Natural Wonders",
		"Social/Party",
		"Wildlife/Adventure",
	}
	Activities = []string{
		"Tourist Attractions",
		"Explore Nature",
		"Social/Nightlife",
		"Sports/Recreation",
		"Relaxation/Leisure",
		"Arts/History",
	}
	DreamTypes = []string{
		"The Pursuit of Serenity and Pampering",
		"The Call of Adventure and Challenge",
		"Immersion in Culture and History",
		"Connection with Nature and Wildlife",
		"Laid-Back Exploration and Beauty",
		"Unique Transformative Encounters",
	}
)

// UserProfile is the preferences document stored under the user's uid.
type UserProfile struct {
	UID         types.ID  `json:"uid"`
	Email       string    `json:"email"`
	City        string    `json:"city"`
	Group       string    `json:"group"`
	Experiences []string  `json:"experiences"`
	Activities  []string  `json:"activities"`
	DreamType   string    `json:"dreamType"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Store persists whole profiles; Save replaces any existing document.
type Store interface {
	Get(ctx context.Context, uid types.ID) (*UserProfile, error)
	Save(ctx context.Context, p *UserProfile) error
}
