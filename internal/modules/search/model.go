package search

import (
	"context"
	"errors"

	"wayfare/internal/types"
)

var ErrInvalidRequest = errors.New("missing required parameters")

// Provider is the travel-offer backend. *amadeus.Client satisfies it.
type Provider interface {
	SearchFlights(ctx context.Context, origin, destination string, date types.Date, adults int) ([]types.Offer, error)
	SearchHotels(ctx context.Context, cityCode string, date types.Date, adults int) ([]types.Offer, error)
	SearchActivities(ctx context.Context, destination string) ([]types.Offer, error)
}

// Query is a validated trip search.
type Query struct {
	Origin      string
	Destination string
	Date        types.Date
	Travellers  int
}

// Result always carries three non-nil slices.
type Result struct {
	Flights    []types.Offer `json:"flights"`
	Hotels     []types.Offer `json:"hotels"`
	Activities []types.Offer `json:"activities"`
}
