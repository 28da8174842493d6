package amadeus

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"wayfare/internal/types"
)

// hotelBatch bounds how many hotel ids go into one offers lookup.
const hotelBatch = 20

// codeNoRooms is returned by hotel-offers when none of the requested properties have availability.
const codeNoRooms = 3664

// LookupCity resolves a city keyword to its first provider match with coordinates.
func (c *Client) LookupCity(ctx context.Context, keyword string) (CityGeo, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return CityGeo{}, ErrLocationNotFound
	}
	q := url.Values{}
	q.Set("keyword", strings.ToUpper(keyword))
	q.Set("subType", "CITY")

	var resp locationsResponse
	if err := c.get(ctx, "/v1/reference-data/locations", q, &resp); err != nil {
		return CityGeo{}, err
	}
	if len(resp.Data) == 0 {
		return CityGeo{}, fmt.Errorf("%w: %q", ErrLocationNotFound, keyword)
	}

	loc := resp.Data[0]
	city := CityGeo{
		Name:        loc.Name,
		IATACode:    loc.IATACode,
		CountryCode: loc.Address.CountryCode,
	}
	if loc.GeoCode != nil && loc.GeoCode.Latitude != nil && loc.GeoCode.Longitude != nil {
		city.Latitude = *loc.GeoCode.Latitude
		city.Longitude = *loc.GeoCode.Longitude
		return city, nil
	}

	if c.geocoder == nil {
		return CityGeo{}, fmt.Errorf("%w: no coordinates for %q", ErrLocationNotFound, keyword)
	}
	address := loc.Name
	if city.CountryCode != "" {
		address += ", " + city.CountryCode
	}
	lat, lng, err := c.geocoder.Geocode(ctx, address)
	if err != nil {
		return CityGeo{}, fmt.Errorf("%w: geocode %q: %v", ErrLocationNotFound, address, err)
	}
	city.Latitude, city.Longitude = lat, lng
	return city, nil
}

func (c *Client) SearchFlights(ctx context.Context, origin, destination string, date types.Date, adults int) ([]types.Offer, error) {
	q := url.Values{}
	q.Set("originLocationCode", origin)
	q.Set("destinationLocationCode", destination)
	q.Set("departureDate", date.String())
	q.Set("adults", strconv.Itoa(adults))
	q.Set("currencyCode", "USD")
	q.Set("max", strconv.Itoa(MaxResults))

	var resp flightOffersResponse
	if err := c.get(ctx, "/v2/shopping/flight-offers", q, &resp); err != nil {
		return nil, err
	}
	out := make([]types.Offer, 0, MaxResults)
	for i, o := range resp.Data {
		if len(out) == MaxResults {
			break
		}
		offer, err := mapFlightOffer(i, o)
		if err != nil {
			return nil, err
		}
		out = append(out, offer)
	}
	return out, nil
}

// SearchHotels lists hotels in the city and prices them with a live offers lookup.
// Hotels without an available offer are left out.
func (c *Client) SearchHotels(ctx context.Context, cityCode string, date types.Date, adults int) ([]types.Offer, error) {
	q := url.Values{}
	q.Set("cityCode", cityCode)

	var list hotelListResponse
	if err := c.get(ctx, "/v1/reference-data/locations/hotels/by-city", q, &list); err != nil {
		return nil, err
	}
	out := make([]types.Offer, 0, MaxResults)
	if len(list.Data) == 0 {
		return out, nil
	}

	listings := make(map[string]hotelListing, len(list.Data))
	ids := make([]string, 0, hotelBatch)
	for _, h := range list.Data {
		if h.HotelID == "" {
			continue
		}
		listings[h.HotelID] = h
		if len(ids) < hotelBatch {
			ids = append(ids, h.HotelID)
		}
	}
	if len(ids) == 0 {
		return out, nil
	}

	q = url.Values{}
	q.Set("hotelIds", strings.Join(ids, ","))
	q.Set("checkInDate", date.String())
	q.Set("adults", strconv.Itoa(adults))
	q.Set("currency", "USD")
	q.Set("bestRateOnly", "true")

	var offers hotelOffersResponse
	if err := c.get(ctx, "/v3/shopping/hotel-offers", q, &offers); err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) && perr.hasCode(codeNoRooms) {
			return out, nil
		}
		return nil, err
	}

	for i, h := range offers.Data {
		if len(out) == MaxResults {
			break
		}
		if !h.Available || len(h.Offers) == 0 {
			continue
		}
		if l, ok := listings[h.Hotel.HotelID]; ok {
			if h.Hotel.Name == "" {
				h.Hotel.Name = l.Name
			}
			if h.Hotel.Rating == "" {
				h.Hotel.Rating = l.Rating
			}
			if len(h.Hotel.Address.Lines) == 0 {
				h.Hotel.Address = l.Address
			}
		}
		offer, err := mapHotelOffer(i, h)
		if err != nil {
			return nil, err
		}
		out = append(out, offer)
	}
	return out, nil
}

// SearchActivities resolves the destination to coordinates and lists activities nearby.
// Activities the provider lists without a price are skipped.
func (c *Client) SearchActivities(ctx context.Context, destination string) ([]types.Offer, error) {
	city, err := c.LookupCity(ctx, destination)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(city.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(city.Longitude, 'f', -1, 64))
	q.Set("radius", strconv.Itoa(ActivityRadiusKm))

	var resp activitiesResponse
	if err := c.get(ctx, "/v1/shopping/activities", q, &resp); err != nil {
		return nil, err
	}
	out := make([]types.Offer, 0, MaxResults)
	for i, a := range resp.Data {
		if len(out) == MaxResults {
			break
		}
		if a.Price == nil || strings.TrimSpace(a.Price.Amount) == "" {
			continue
		}
		offer, err := mapActivity(i, a)
		if err != nil {
			return nil, err
		}
		out = append(out, offer)
	}
	return out, nil
}
