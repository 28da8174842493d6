package trip

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"wayfare/internal/types"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	mu       sync.Mutex
	trips    map[types.ID]*Trip
	order    []types.ID
	items    map[types.ID][]ItineraryItem
	users    map[types.ID]string
	searches int
	// keepOnDelete simulates a store that acknowledges a delete without applying it.
	keepOnDelete bool
}

func newMemStore() *memStore {
	return &memStore{
		trips: map[types.ID]*Trip{},
		items: map[types.ID][]ItineraryItem{},
		users: map[types.ID]string{},
	}
}

func (m *memStore) CreateTrip(_ context.Context, t *Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = types.ID(uuid.NewString())
	cp := *t
	cp.Members = append([]types.ID(nil), t.Members...)
	m.trips[t.ID] = &cp
	m.order = append(m.order, t.ID)
	return nil
}

func (m *memStore) GetTrip(_ context.Context, id types.ID) (*Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	cp.Members = append([]types.ID(nil), t.Members...)
	return &cp, nil
}

func (m *memStore) ListTripsByMember(_ context.Context, uid types.ID) ([]Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Trip
	for _, id := range m.order {
		t := m.trips[id]
		if lo.Contains(t.Members, uid) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) AddMember(_ context.Context, tripID, uid types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[tripID]
	if !ok {
		return ErrNotFound
	}
	if !lo.Contains(t.Members, uid) {
		t.Members = append(t.Members, uid)
	}
	return nil
}

func (m *memStore) AddItem(_ context.Context, tripID types.ID, item *ItineraryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[tripID]; !ok {
		return ErrNotFound
	}
	item.ID = types.ID(uuid.NewString())
	m.items[tripID] = append(m.items[tripID], *item)
	return nil
}

func (m *memStore) DeleteItem(_ context.Context, tripID, itemID types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keepOnDelete {
		return nil
	}
	m.items[tripID] = lo.Reject(m.items[tripID], func(it ItineraryItem, _ int) bool { return it.ID == itemID })
	return nil
}

func (m *memStore) ItemExists(_ context.Context, tripID, itemID types.ID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.ContainsBy(m.items[tripID], func(it ItineraryItem) bool { return it.ID == itemID }), nil
}

func (m *memStore) ListItems(_ context.Context, tripID types.ID) ([]ItineraryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ItineraryItem(nil), m.items[tripID]...), nil
}

func (m *memStore) GetUsers(_ context.Context, uids []types.ID) ([]UserRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []UserRef
	for _, uid := range uids {
		if email, ok := m.users[uid]; ok {
			out = append(out, UserRef{UID: uid, Email: email})
		}
	}
	// Reverse to prove callers do not rely on store order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (m *memStore) SearchUsersByEmail(_ context.Context, lower, upper string) ([]UserRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches++
	var out []UserRef
	for uid, email := range m.users {
		if strings.Compare(email, lower) >= 0 && strings.Compare(email, upper) < 0 {
			out = append(out, UserRef{UID: uid, Email: email})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}
