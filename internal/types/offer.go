// README: Normalized provider offer shared by search, itinerary and the provider adapter.
package types

// ItemType tags an offer with the category it was found under.
type ItemType string

const (
	ItemFlight   ItemType = "flight"
	ItemStays    ItemType = "stays"
	ItemActivity ItemType = "activity"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemFlight, ItemStays, ItemActivity:
		return true
	}
	return false
}

// Offer is a provider result reshaped for the UI. Price is in USD.
type Offer struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl,omitempty"`
}
