package trip

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfare/internal/types"
)

const (
	userA types.ID = "userA"
	userB types.ID = "userB"
	userC types.ID = "userC"
)

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	svc := NewService(store)
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return svc, store
}

func createBali(t *testing.T, svc *Service) *Trip {
	t.Helper()
	trip, err := svc.CreateTrip(context.Background(), userA, CreateTripCommand{TripName: "Bali", Travelers: 2, Origin: "JFK"})
	require.NoError(t, err)
	return trip
}

func TestCreateTripOwnerIsOnlyMember(t *testing.T) {
	svc, _ := newTestService()
	trip := createBali(t, svc)

	assert.NotEmpty(t, trip.ID)
	assert.Equal(t, userA, trip.Owner)
	assert.Equal(t, []types.ID{userA}, trip.Members)
	assert.False(t, trip.CreatedAt.IsZero())

	trips, err := svc.ListTripsForMember(context.Background(), userA)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "Bali", trips[0].TripName)
	assert.Equal(t, []types.ID{userA}, trips[0].Members)

	none, err := svc.ListTripsForMember(context.Background(), userB)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCreateTripValidation(t *testing.T) {
	start, _ := types.ParseDate("2025-06-10")
	end, _ := types.ParseDate("2025-06-01")
	tests := []struct {
		name string
		cmd  CreateTripCommand
	}{
		{"missing name", CreateTripCommand{Origin: "JFK"}},
		{"missing origin", CreateTripCommand{TripName: "Bali"}},
		{"negative travelers", CreateTripCommand{TripName: "Bali", Origin: "JFK", Travelers: -1}},
		{"negative budget", CreateTripCommand{TripName: "Bali", Origin: "JFK", Budget: -5}},
		{"end before start", CreateTripCommand{TripName: "Bali", Origin: "JFK", StartDate: start, EndDate: end}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			_, err := svc.CreateTrip(context.Background(), userA, tt.cmd)
			require.ErrorIs(t, err, ErrBadRequest)
		})
	}
}

func TestCreateTripDefaultsTravelers(t *testing.T) {
	svc, _ := newTestService()
	trip, err := svc.CreateTrip(context.Background(), userA, CreateTripCommand{TripName: "Weekend", Origin: "SFO"})
	require.NoError(t, err)
	assert.Equal(t, 1, trip.Travelers)
}

func TestItineraryAddListDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	trip := createBali(t, svc)
	offer := types.Offer{ID: "f1", Title: "GA 881", Subtitle: "JFK → DPS", Price: 899.5}

	first, err := svc.AddItineraryItem(ctx, userA, trip.ID, offer, types.ItemFlight)
	require.NoError(t, err)
	second, err := svc.AddItineraryItem(ctx, userA, trip.ID, offer, types.ItemFlight)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID, "saving the same offer twice yields two items")
	assert.False(t, first.SavedAt.IsZero())

	items, err := svc.ListItineraryItems(ctx, userA, trip.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "GA 881", items[0].Title)
	assert.Equal(t, 899.5, items[0].Price)
	assert.Equal(t, types.ItemFlight, items[0].Type)
	assert.Equal(t, "f1", items[0].OfferID)

	require.NoError(t, svc.DeleteItineraryItem(ctx, userA, trip.ID, first.ID))
	items, err = svc.ListItineraryItems(ctx, userA, trip.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ID)

	// Deleting again is not an error.
	require.NoError(t, svc.DeleteItineraryItem(ctx, userA, trip.ID, first.ID))
}

func TestAddItineraryItemValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	trip := createBali(t, svc)

	_, err := svc.AddItineraryItem(ctx, userA, trip.ID, types.Offer{Title: "x"}, "cruise")
	require.ErrorIs(t, err, ErrBadRequest)
	_, err = svc.AddItineraryItem(ctx, userA, trip.ID, types.Offer{Title: " "}, types.ItemStays)
	require.ErrorIs(t, err, ErrBadRequest)
	_, err = svc.AddItineraryItem(ctx, userA, trip.ID, types.Offer{Title: "x", Price: -1}, types.ItemActivity)
	require.ErrorIs(t, err, ErrBadRequest)
	_, err = svc.AddItineraryItem(ctx, userA, "missing", types.Offer{Title: "x"}, types.ItemActivity)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteItineraryItemVerifiesRemoval(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	trip := createBali(t, svc)
	item, err := svc.AddItineraryItem(ctx, userA, trip.ID, types.Offer{Title: "Villa"}, types.ItemStays)
	require.NoError(t, err)

	store.keepOnDelete = true
	err = svc.DeleteItineraryItem(ctx, userA, trip.ID, item.ID)
	require.ErrorIs(t, err, ErrDeleteFailed)
}

func TestMutationsRequireMembership(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	trip := createBali(t, svc)
	item, err := svc.AddItineraryItem(ctx, userA, trip.ID, types.Offer{Title: "Villa"}, types.ItemStays)
	require.NoError(t, err)

	_, err = svc.AddMember(ctx, userB, trip.ID, userB)
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.AddItineraryItem(ctx, userB, trip.ID, types.Offer{Title: "x"}, types.ItemStays)
	require.ErrorIs(t, err, ErrUnauthorized)
	err = svc.DeleteItineraryItem(ctx, userB, trip.ID, item.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.ListItineraryItems(ctx, userB, trip.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.ListMembers(ctx, userB, trip.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.GetTrip(ctx, "", trip.ID)
	require.ErrorIs(t, err, ErrUnauthorized)

	items, err := svc.ListItineraryItems(ctx, userA, trip.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1, "rejected delete must not remove the item")
}

func TestAddMemberIsIdempotent(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	trip := createBali(t, svc)
	store.users[userA] = "alice@example.com"
	store.users[userB] = "bob@example.com"

	_, err := svc.AddMember(ctx, userA, trip.ID, userB)
	require.NoError(t, err)
	updated, err := svc.AddMember(ctx, userA, trip.ID, userB)
	require.NoError(t, err)
	assert.Equal(t, []types.ID{userA, userB}, updated.Members)

	got, err := svc.GetTrip(ctx, userB, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.ID{userA, userB}, got.Members)

	members, err := svc.ListMembers(ctx, userB, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []Member{
		{UID: userA, Email: "alice@example.com", Name: "alice"},
		{UID: userB, Email: "bob@example.com", Name: "bob"},
	}, members)

	trips, err := svc.ListTripsForMember(ctx, userB)
	require.NoError(t, err)
	assert.Len(t, trips, 1)
}

func TestListMembersDropsMissingProfiles(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	trip := createBali(t, svc)
	store.users[userA] = "alice@example.com"

	_, err := svc.AddMember(ctx, userA, trip.ID, userC)
	require.NoError(t, err)

	members, err := svc.ListMembers(ctx, userA, trip.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, userA, members[0].UID)
}

func TestSearchUsersByEmailPrefix(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	store.users[userA] = "alice@example.com"
	store.users[userB] = "alicia@example.com"
	store.users[userC] = "bob@example.com"

	got, err := svc.SearchUsersByEmailPrefix(ctx, "ali")
	require.NoError(t, err)
	assert.Equal(t, []UserRef{{UID: userA, Email: "alice@example.com"}, {UID: userB, Email: "alicia@example.com"}}, got)

	got, err = svc.SearchUsersByEmailPrefix(ctx, "zed")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 2, store.searches)

	for _, blank := range []string{"", "   "} {
		got, err = svc.SearchUsersByEmailPrefix(ctx, blank)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Equal(t, 2, store.searches, "blank prefix must not query the store")
}

func TestExportCalendar(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	start, _ := types.ParseDate("2025-06-01")
	end, _ := types.ParseDate("2025-06-07")
	trip, err := svc.CreateTrip(ctx, userA, CreateTripCommand{
		TripName: "Bali", Travelers: 2, Origin: "JFK", Destination: "DPS", Budget: 3000, StartDate: start, EndDate: end,
	})
	require.NoError(t, err)
	_, err = svc.AddItineraryItem(ctx, userA, trip.ID, types.Offer{Title: "GA 881", Subtitle: "JFK → DPS", Price: 899}, types.ItemFlight)
	require.NoError(t, err)

	out, err := svc.ExportCalendar(ctx, userA, trip.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Bali")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250601")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20250608")
	assert.Contains(t, out, "LOCATION:DPS")
	// Long lines are folded, so check the description on an unfolded copy.
	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	assert.Contains(t, unfolded, "[flight] GA 881")

	_, err = svc.ExportCalendar(ctx, userB, trip.ID)
	require.ErrorIs(t, err, ErrUnauthorized)

	undated := createBali(t, svc)
	_, err = svc.ExportCalendar(ctx, userA, undated.ID)
	require.ErrorIs(t, err, ErrBadRequest)
}
