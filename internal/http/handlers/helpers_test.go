// README: Shared test doubles for handler tests.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"wayfare/internal/ai"
	"wayfare/internal/infra"
	"wayfare/internal/modules/profile"
	"wayfare/internal/modules/trip"
	"wayfare/internal/types"
)

// stubTokenVerifier maps bearer tokens to uids; unknown tokens fail verification.
type stubTokenVerifier struct {
	tokens map[string]*infra.FirebaseToken
}

func (s *stubTokenVerifier) VerifyIDToken(_ context.Context, raw string) (*infra.FirebaseToken, error) {
	if tok, ok := s.tokens[raw]; ok {
		return tok, nil
	}
	return nil, errBadToken
}

type tokenError string

func (e tokenError) Error() string { return string(e) }

const errBadToken = tokenError("invalid token")

func newVerifier() *stubTokenVerifier {
	return &stubTokenVerifier{tokens: map[string]*infra.FirebaseToken{
		"alice-token": {UID: "alice", Claims: map[string]interface{}{"email": "alice@example.com"}},
		"bob-token":   {UID: "bob", Claims: map[string]interface{}{"email": "bob@example.com"}},
		"carol-token": {UID: "carol", Claims: map[string]interface{}{"email": "carol@example.com"}},
	}}
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}

// stubCompleter records the last request and answers with a fixed reply.
type stubCompleter struct {
	reply string
	err   error
	got   []ai.Message
}

func (s *stubCompleter) Name() string { return "stub" }

func (s *stubCompleter) Complete(_ context.Context, msgs []ai.Message, _ ai.Options) (string, error) {
	s.got = msgs
	return s.reply, s.err
}

// memCounter is an in-memory aiusage.Counter.
type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (m *memCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[key]++
	return m.counts[key], nil
}

// tripStore is a minimal in-memory trip.Store.
type tripStore struct {
	mu    sync.Mutex
	seq   int
	trips map[types.ID]*trip.Trip
	items map[types.ID][]trip.ItineraryItem
	users map[types.ID]string
}

func newTripStore() *tripStore {
	return &tripStore{
		trips: map[types.ID]*trip.Trip{},
		items: map[types.ID][]trip.ItineraryItem{},
		users: map[types.ID]string{"alice": "alice@example.com", "bob": "bob@example.com"},
	}
}

func (s *tripStore) nextID(prefix string) types.ID {
	s.seq++
	return types.ID(fmt.Sprintf("%s%d", prefix, s.seq))
}

func (s *tripStore) CreateTrip(_ context.Context, t *trip.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID("trip")
	cp := *t
	cp.Members = append([]types.ID(nil), t.Members...)
	s.trips[t.ID] = &cp
	return nil
}

func (s *tripStore) GetTrip(_ context.Context, id types.ID) (*trip.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok {
		return nil, trip.ErrNotFound
	}
	cp := *t
	cp.Members = append([]types.ID(nil), t.Members...)
	return &cp, nil
}

func (s *tripStore) ListTripsByMember(_ context.Context, uid types.ID) ([]trip.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []trip.Trip
	for _, t := range s.trips {
		for _, m := range t.Members {
			if m == uid {
				out = append(out, *t)
				break
			}
		}
	}
	return out, nil
}

func (s *tripStore) AddMember(_ context.Context, tripID, uid types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok {
		return trip.ErrNotFound
	}
	for _, m := range t.Members {
		if m == uid {
			return nil
		}
	}
	t.Members = append(t.Members, uid)
	return nil
}

func (s *tripStore) AddItem(_ context.Context, tripID types.ID, item *trip.ItineraryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.nextID("item")
	s.items[tripID] = append(s.items[tripID], *item)
	return nil
}

func (s *tripStore) DeleteItem(_ context.Context, tripID, itemID types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[tripID][:0]
	for _, it := range s.items[tripID] {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	s.items[tripID] = kept
	return nil
}

func (s *tripStore) ItemExists(_ context.Context, tripID, itemID types.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items[tripID] {
		if it.ID == itemID {
			return true, nil
		}
	}
	return false, nil
}

func (s *tripStore) ListItems(_ context.Context, tripID types.ID) ([]trip.ItineraryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]trip.ItineraryItem(nil), s.items[tripID]...), nil
}

func (s *tripStore) GetUsers(_ context.Context, uids []types.ID) ([]trip.UserRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []trip.UserRef
	for _, uid := range uids {
		if email, ok := s.users[uid]; ok {
			out = append(out, trip.UserRef{UID: uid, Email: email})
		}
	}
	return out, nil
}

func (s *tripStore) SearchUsersByEmail(_ context.Context, lower, upper string) ([]trip.UserRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []trip.UserRef
	for uid, email := range s.users {
		if email >= lower && email < upper {
			out = append(out, trip.UserRef{UID: uid, Email: email})
		}
	}
	return out, nil
}

// profileStore is an in-memory profile.Store.
type profileStore struct {
	saved map[types.ID]profile.UserProfile
}

func (s *profileStore) Get(_ context.Context, uid types.ID) (*profile.UserProfile, error) {
	p, ok := s.saved[uid]
	if !ok {
		return nil, profile.ErrNotFound
	}
	return &p, nil
}

func (s *profileStore) Save(_ context.Context, p *profile.UserProfile) error {
	s.saved[p.UID] = *p
	return nil
}
