package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"wayfare/internal/types"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// SavePreferencesCommand carries the form fields; identity comes from the verified token.
type SavePreferencesCommand struct {
	City        string
	Group       string
	Experiences []string
	Activities  []string
	DreamType   string
}

func (s *Service) Get(ctx context.Context, uid types.ID) (*UserProfile, error) {
	if uid == "" {
		return nil, ErrNotFound
	}
	return s.store.Get(ctx, uid)
}

// Save validates the command and overwrites the caller's profile wholesale.
func (s *Service) Save(ctx context.Context, uid types.ID, email string, cmd SavePreferencesCommand) (*UserProfile, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	p := &UserProfile{
		UID:         uid,
		Email:       strings.ToLower(strings.TrimSpace(email)),
		City:        strings.TrimSpace(cmd.City),
		Group:       strings.TrimSpace(cmd.Group),
		Experiences: lo.Uniq(lo.Map(cmd.Experiences, trim)),
		Activities:  lo.Uniq(lo.Map(cmd.Activities, trim)),
		DreamType:   strings.TrimSpace(cmd.DreamType),
		UpdatedAt:   s.now().UTC(),
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func validate(p *UserProfile) error {
	if p.City == "" {
		return fmt.Errorf("%w: city is required", ErrBadRequest)
	}
	if p.Group != "" && !lo.Contains(TravelGroups, p.Group) {
		return fmt.Errorf("%w: unknown group %q", ErrBadRequest, p.Group)
	}
	if p.DreamType != "" && !lo.Contains(DreamTypes, p.DreamType) {
		return fmt.Errorf("%w: unknown dreamType %q", ErrBadRequest, p.DreamType)
	}
	if bad, _ := lo.Difference(p.Experiences, Experiences); len(bad) > 0 {
		return fmt.Errorf("%w: unknown experiences %q", ErrBadRequest, bad)
	}
	if bad, _ := lo.Difference(p.Activities, Activities); len(bad) > 0 {
		return fmt.Errorf("%w: unknown activities %q", ErrBadRequest, bad)
	}
	return nil
}

func trim(s string, _ int) string { return strings.TrimSpace(s) }
