package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wayfare/internal/types"
)

type Service struct {
	provider Provider
	log      *zap.Logger
}

func NewService(provider Provider, log *zap.Logger) *Service {
	return &Service{provider: provider, log: log.Named("search")}
}

// NewQuery validates raw request fields into a Query.
func NewQuery(origin, destination, date string, travellers int) (Query, error) {
	q := Query{
		Origin:      strings.TrimSpace(origin),
		Destination: strings.TrimSpace(destination),
		Travellers:  travellers,
	}
	if q.Origin == "" || q.Destination == "" || strings.TrimSpace(date) == "" || travellers < 1 {
		return Query{}, ErrInvalidRequest
	}
	d, err := types.ParseDate(date)
	if err != nil {
		return Query{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	q.Date = d
	return q, nil
}

// Aggregate runs the three category searches concurrently. A failing category is logged
// and comes back empty; it never fails the whole search.
func (s *Service) Aggregate(ctx context.Context, q Query) (Result, error) {
	if q.Origin == "" || q.Destination == "" || q.Date.IsZero() || q.Travellers < 1 {
		return Result{}, ErrInvalidRequest
	}

	res := Result{
		Flights:    []types.Offer{},
		Hotels:     []types.Offer{},
		Activities: []types.Offer{},
	}
	var g errgroup.Group
	g.Go(func() error {
		res.Flights = s.degrade("flights", q, func() ([]types.Offer, error) {
			return s.provider.SearchFlights(ctx, q.Origin, q.Destination, q.Date, q.Travellers)
		})
		return nil
	})
	g.Go(func() error {
		res.Hotels = s.degrade("hotels", q, func() ([]types.Offer, error) {
			return s.provider.SearchHotels(ctx, q.Destination, q.Date, q.Travellers)
		})
		return nil
	})
	g.Go(func() error {
		res.Activities = s.degrade("activities", q, func() ([]types.Offer, error) {
			return s.provider.SearchActivities(ctx, q.Destination)
		})
		return nil
	})
	_ = g.Wait()
	return res, nil
}

func (s *Service) degrade(category string, q Query, fn func() ([]types.Offer, error)) []types.Offer {
	offers, err := fn()
	if err != nil {
		s.log.Warn("category search failed",
			zap.String("category", category),
			zap.String("origin", q.Origin),
			zap.String("destination", q.Destination),
			zap.Error(err),
		)
		return []types.Offer{}
	}
	if offers == nil {
		return []types.Offer{}
	}
	return offers
}

func (s *Service) Flights(ctx context.Context, q Query) ([]types.Offer, error) {
	if q.Origin == "" || q.Destination == "" || q.Date.IsZero() || q.Travellers < 1 {
		return nil, ErrInvalidRequest
	}
	return nonNil(s.provider.SearchFlights(ctx, q.Origin, q.Destination, q.Date, q.Travellers))
}

func (s *Service) Hotels(ctx context.Context, destination string, date types.Date, travellers int) ([]types.Offer, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" || date.IsZero() || travellers < 1 {
		return nil, ErrInvalidRequest
	}
	return nonNil(s.provider.SearchHotels(ctx, destination, date, travellers))
}

func (s *Service) Activities(ctx context.Context, destination string) ([]types.Offer, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, fmt.Errorf("%w: destination", ErrInvalidRequest)
	}
	return nonNil(s.provider.SearchActivities(ctx, destination))
}

func nonNil(offers []types.Offer, err error) ([]types.Offer, error) {
	if err != nil {
		return nil, err
	}
	if offers == nil {
		offers = []types.Offer{}
	}
	return offers, nil
}
