package appstate

import (
	"sync"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

// Selector tracks the active profile. The selection is always one of the
// registry's profiles or nothing; it never falls back to a default.
type Selector struct {
	registry *Registry

	mu     sync.RWMutex
	active *Profile
}

// NewSelector returns a selector with nothing selected, revalidated against
// every list registry applies.
func NewSelector(registry *Registry) *Selector {
	s := &Selector{registry: registry}
	registry.OnReplace(s.revalidate)
	return s
}

// Select makes the registry profile with the given id active. A nil id
// clears the selection.
func (s *Selector) Select(profileID *uuid.UUID) error {
	if profileID == nil {
		s.Clear()
		return nil
	}
	return s.registry.withProfiles(func(profiles []Profile) error {
		for i := range profiles {
			if profiles[i].ID == *profileID {
				s.set(&profiles[i])
				return nil
			}
		}
		return ErrProfileNotFound
	})
}

func (s *Selector) set(p *Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.active = nil
		return
	}
	cp := *p
	s.active = &cp
}

// Clear drops the selection.
func (s *Selector) Clear() {
	s.set(nil)
}

// revalidate keeps the selection only if its id is still in profiles, and
// picks up the fresh copy when it is.
func (s *Selector) revalidate(profiles []Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return
	}
	for _, p := range profiles {
		if p.ID == s.active.ID {
			cp := p
			s.active = &cp
			return
		}
	}
	s.active = nil
}

// Active returns the selected profile.
func (s *Selector) Active() (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return Profile{}, false
	}
	return *s.active, true
}

// Role returns the role of the selected profile.
func (s *Selector) Role() (enums.Role, bool) {
	p, ok := s.Active()
	if !ok {
		return "", false
	}
	return p.Role, true
}

func (s *Selector) requireRole(role enums.Role) (Profile, error) {
	p, ok := s.Active()
	if !ok {
		return Profile{}, ErrNoActiveProfile
	}
	if p.Role != role {
		return Profile{}, ErrRoleMismatch
	}
	return p, nil
}

// FarmID returns the farm of the active farmer profile.
func (s *Selector) FarmID() (uuid.UUID, error) {
	p, err := s.requireRole(enums.RoleFarmer)
	if err != nil {
		return uuid.Nil, err
	}
	if p.FarmID == nil {
		return uuid.Nil, ErrProfileNotFound
	}
	return *p.FarmID, nil
}

// CenterID returns the donation center of the active center profile.
func (s *Selector) CenterID() (uuid.UUID, error) {
	p, err := s.requireRole(enums.RoleCenter)
	if err != nil {
		return uuid.Nil, err
	}
	if p.CenterID == nil {
		return uuid.Nil, ErrProfileNotFound
	}
	return *p.CenterID, nil
}

// VolunteerName returns the display name of the active volunteer profile.
func (s *Selector) VolunteerName() (string, error) {
	p, err := s.requireRole(enums.RoleVolunteer)
	if err != nil {
		return "", err
	}
	return p.VolunteerName, nil
}
