package amadeus

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"wayfare/internal/types"
)

type locationsResponse struct {
	Data []location `json:"data"`
}

type location struct {
	Name     string `json:"name"`
	IATACode string `json:"iataCode"`
	Address  struct {
		CityName    string `json:"cityName"`
		CountryCode string `json:"countryCode"`
	} `json:"address"`
	GeoCode *struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"geoCode"`
}

type flightOffersResponse struct {
	Data []flightOffer `json:"data"`
}

type flightOffer struct {
	ID          string `json:"id"`
	Itineraries []struct {
		Segments []struct {
			CarrierCode string `json:"carrierCode"`
			Number      string `json:"number"`
			Departure   struct {
				IATACode string `json:"iataCode"`
			} `json:"departure"`
			Arrival struct {
				IATACode string `json:"iataCode"`
			} `json:"arrival"`
		} `json:"segments"`
	} `json:"itineraries"`
	Price struct {
		Total string `json:"total"`
	} `json:"price"`
}

type hotelListResponse struct {
	Data []hotelListing `json:"data"`
}

type hotelListing struct {
	HotelID string       `json:"hotelId"`
	Name    string       `json:"name"`
	Rating  flexString   `json:"rating"`
	Address hotelAddress `json:"address"`
}

type hotelAddress struct {
	Lines []string `json:"lines"`
}

type hotelOffersResponse struct {
	Data []hotelOffers `json:"data"`
}

type hotelOffers struct {
	Hotel struct {
		HotelID string       `json:"hotelId"`
		Name    string       `json:"name"`
		Rating  flexString   `json:"rating"`
		Address hotelAddress `json:"address"`
		Media   []struct {
			URI string `json:"uri"`
		} `json:"media"`
	} `json:"hotel"`
	Available bool `json:"available"`
	Offers    []struct {
		ID    string `json:"id"`
		Price struct {
			Total string `json:"total"`
		} `json:"price"`
	} `json:"offers"`
}

type activitiesResponse struct {
	Data []activity `json:"data"`
}

type activity struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ShortDescription string `json:"shortDescription"`
	Price            *struct {
		Amount string `json:"amount"`
	} `json:"price"`
	Pictures []picture `json:"pictures"`
}

// picture accepts both a bare URL string and an {"url": ...} object.
type picture string

func (p *picture) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = picture(s)
		return nil
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*p = picture(obj.URL)
	return nil
}

// flexString accepts a JSON string or number (hotel ratings come as either).
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func mapFlightOffer(i int, o flightOffer) (types.Offer, error) {
	bad := func(field string) error {
		return &MalformedResponseError{Resource: "flight-offers", Index: i, Field: field}
	}
	if o.ID == "" {
		return types.Offer{}, bad("id")
	}
	if len(o.Itineraries) == 0 || len(o.Itineraries[0].Segments) == 0 {
		return types.Offer{}, bad("itineraries[0].segments[0]")
	}
	seg := o.Itineraries[0].Segments[0]
	if seg.CarrierCode == "" || seg.Number == "" {
		return types.Offer{}, bad("carrier")
	}
	if seg.Departure.IATACode == "" || seg.Arrival.IATACode == "" {
		return types.Offer{}, bad("route")
	}
	price, err := parsePrice(o.Price.Total)
	if err != nil {
		return types.Offer{}, bad("price.total")
	}
	return types.Offer{
		ID:       o.ID,
		Title:    seg.CarrierCode + " " + seg.Number,
		Subtitle: seg.Departure.IATACode + " → " + seg.Arrival.IATACode,
		Price:    price,
		ImageURL: "/images/airlines/" + strings.ToLower(seg.CarrierCode) + ".png",
	}, nil
}

func mapHotelOffer(i int, h hotelOffers) (types.Offer, error) {
	bad := func(field string) error {
		return &MalformedResponseError{Resource: "hotel-offers", Index: i, Field: field}
	}
	if h.Hotel.HotelID == "" {
		return types.Offer{}, bad("hotel.hotelId")
	}
	if h.Hotel.Name == "" {
		return types.Offer{}, bad("hotel.name")
	}
	if len(h.Offers) == 0 {
		return types.Offer{}, bad("offers")
	}
	price, err := parsePrice(h.Offers[0].Price.Total)
	if err != nil {
		return types.Offer{}, bad("offers[0].price.total")
	}
	rating := string(h.Hotel.Rating)
	if rating == "" {
		rating = "N/A"
	}
	line := "Address not available"
	if len(h.Hotel.Address.Lines) > 0 && h.Hotel.Address.Lines[0] != "" {
		line = h.Hotel.Address.Lines[0]
	}
	offer := types.Offer{
		ID:       h.Hotel.HotelID,
		Title:    h.Hotel.Name,
		Subtitle: fmt.Sprintf("%s stars - %s", rating, line),
		Price:    price,
	}
	if len(h.Hotel.Media) > 0 {
		offer.ImageURL = h.Hotel.Media[0].URI
	}
	return offer, nil
}

func mapActivity(i int, a activity) (types.Offer, error) {
	bad := func(field string) error {
		return &MalformedResponseError{Resource: "activities", Index: i, Field: field}
	}
	if a.ID == "" {
		return types.Offer{}, bad("id")
	}
	if a.Name == "" {
		return types.Offer{}, bad("name")
	}
	if a.Price == nil {
		return types.Offer{}, bad("price")
	}
	price, err := parsePrice(a.Price.Amount)
	if err != nil {
		return types.Offer{}, bad("price.amount")
	}
	subtitle := strings.TrimSpace(a.ShortDescription)
	if subtitle == "" {
		subtitle = "Activity"
	}
	offer := types.Offer{
		ID:       a.ID,
		Title:    a.Name,
		Subtitle: subtitle,
		Price:    price,
	}
	if len(a.Pictures) > 0 {
		offer.ImageURL = string(a.Pictures[0])
	}
	return offer, nil
}

func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite price %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative price %v", v)
	}
	return v, nil
}
