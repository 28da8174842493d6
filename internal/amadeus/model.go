package amadeus

import (
	"context"
	"errors"
	"fmt"
)

// MaxResults caps every category returned to callers.
const MaxResults = 5

// ActivityRadiusKm is the search radius around a city's coordinates.
const ActivityRadiusKm = 5

var (
	ErrProviderUnavailable = errors.New("travel provider unavailable")
	ErrLocationNotFound    = errors.New("location not found")
	ErrMalformedResponse   = errors.New("malformed upstream response")
)

// MalformedResponseError reports which provider record failed validation.
type MalformedResponseError struct {
	Resource string
	Index    int
	Field    string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: %s[%d]: invalid %s", ErrMalformedResponse, e.Resource, e.Index, e.Field)
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// ProviderError is a non-2xx answer from the provider. It unwraps to ErrProviderUnavailable.
type ProviderError struct {
	Status int
	Codes  []int
	Detail string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrProviderUnavailable, e.Status, e.Detail)
}

func (e *ProviderError) Unwrap() error { return ErrProviderUnavailable }

func (e *ProviderError) hasCode(code int) bool {
	for _, c := range e.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// CityGeo is a resolved city with coordinates.
type CityGeo struct {
	Name        string
	IATACode    string
	CountryCode string
	Latitude    float64
	Longitude   float64
}

// Geocoder resolves a free-text address when the provider has no coordinates for a city.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}
