package appstate

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	"github.com/fruitnut/fruitnut-backend/pkg/logger"
	"github.com/fruitnut/fruitnut-backend/pkg/navigation"
)

// Snapshot is a consistent copy of the store state.
type Snapshot struct {
	Loading        bool
	Identity       *Identity
	Profiles       []Profile
	ProfilesStatus LoadStatus
	ProfilesErr    error
	Active         *Profile

	stale bool
}

// ActiveRole returns the role of the active profile, if any.
func (s Snapshot) ActiveRole() *enums.Role {
	if s.Active == nil {
		return nil
	}
	role := s.Active.Role
	return &role
}

// NavigationInput converts the snapshot into guard input for route. A failed
// refresh over a list that was loaded earlier still counts as loaded.
func (s Snapshot) NavigationInput(route string) navigation.Input {
	in := navigation.Input{
		Loading:      s.Loading,
		HasIdentity:  s.Identity != nil,
		ProfileCount: len(s.Profiles),
		ActiveRole:   s.ActiveRole(),
		Route:        route,
	}
	switch s.ProfilesStatus {
	case LoadLoaded:
		in.Profiles = navigation.ProfilesLoaded
	case LoadFailed:
		if s.stale {
			in.Profiles = navigation.ProfilesLoaded
		} else {
			in.Profiles = navigation.ProfilesFailed
		}
	default:
		in.Profiles = navigation.ProfilesLoading
	}
	return in
}

// Decide runs the navigation guard against the snapshot.
func (s Snapshot) Decide(route string) navigation.Decision {
	return navigation.Decide(s.NavigationInput(route))
}

// StoreParams wires a Store.
type StoreParams struct {
	Auth     AuthProvider
	Profiles ProfileLoader
	Logger   *logger.Logger
}

// Store is the session state container. It is safe for concurrent use.
type Store struct {
	auth     AuthProvider
	registry *Registry
	selector *Selector
	logg     *logger.Logger

	mu           sync.Mutex
	loading      bool
	bootstrapped bool
	identity     *Identity
	// authEpoch counts sign-in and sign-out events.
	authEpoch uint64

	obsMu        sync.Mutex
	observers    map[uint64]func(Snapshot)
	nextObserver uint64

	unsubscribe func()
}

// NewStore builds a store and subscribes it to provider-raised auth events.
func NewStore(params StoreParams) (*Store, error) {
	if params.Auth == nil {
		return nil, errors.New("auth provider is required")
	}
	if params.Profiles == nil {
		return nil, errors.New("profile loader is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}

	registry := NewRegistry(params.Profiles, logg)
	s := &Store{
		auth:      params.Auth,
		registry:  registry,
		selector:  NewSelector(registry),
		logg:      logg,
		loading:   true,
		observers: map[uint64]func(Snapshot){},
	}
	s.unsubscribe = params.Auth.OnAuthStateChange(s.HandleAuthEvent)
	return s, nil
}

// Close detaches the store from the auth provider.
func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Registry exposes the profile registry.
func (s *Store) Registry() *Registry { return s.registry }

// Selector exposes the active-role selector.
func (s *Store) Selector() *Selector { return s.selector }

// Bootstrap restores any persisted session and ends the loading phase. Only
// the first call does work.
func (s *Store) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	if s.bootstrapped {
		s.mu.Unlock()
		return nil
	}
	s.bootstrapped = true
	epoch := s.authEpoch
	s.mu.Unlock()

	identity, err := s.auth.GetSession(ctx)
	if err != nil {
		s.logg.Error(ctx, "failed to restore session", err)
		identity = nil
	}

	if identity != nil {
		s.mu.Lock()
		superseded := s.authEpoch != epoch
		if !superseded {
			s.identity = cloneIdentity(identity)
		}
		s.mu.Unlock()
		if superseded {
			s.logg.Debug(ctx, "auth event arrived during restore, keeping it")
			identity = nil
		}
	}

	if identity != nil {
		ctx = s.logg.WithUserID(ctx, identity.ID.String())
		s.registry.Load(ctx, identity.ID)
		s.logg.Info(ctx, "session restored")
	}

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()

	s.notify()
	return err
}

// HandleAuthEvent applies an auth event. Observers are notified once the
// event has fully settled.
func (s *Store) HandleAuthEvent(ctx context.Context, event AuthEvent, identity *Identity) {
	ctx = s.logg.WithField(ctx, "auth_event", string(event))

	switch event {
	case EventSignedIn:
		if identity == nil {
			s.logg.Warn(ctx, "sign-in event without identity")
			return
		}
		s.mu.Lock()
		s.identity = cloneIdentity(identity)
		s.authEpoch++
		s.mu.Unlock()
		ctx = s.logg.WithUserID(ctx, identity.ID.String())
		res := s.registry.Load(ctx, identity.ID)
		if res.Status == LoadSuperseded {
			return
		}
	case EventSignedOut:
		s.mu.Lock()
		s.identity = nil
		s.authEpoch++
		s.mu.Unlock()
		s.registry.Clear()
		s.selector.Clear()
	case EventTokenRefreshed, EventUserUpdated:
		if identity == nil {
			return
		}
		s.mu.Lock()
		s.identity = cloneIdentity(identity)
		s.mu.Unlock()
	default:
		s.logg.Warn(ctx, "ignoring unknown auth event")
		return
	}

	s.logg.Debug(ctx, "auth event applied")
	s.notify()
}

// SignIn authenticates with email and password.
func (s *Store) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	identity, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.HandleAuthEvent(ctx, EventSignedIn, identity)
	return cloneIdentity(identity), nil
}

// SignUp creates an identity and signs it in.
func (s *Store) SignUp(ctx context.Context, email, password, confirm string) (*Identity, error) {
	identity, err := s.auth.SignUp(ctx, email, password, confirm)
	if err != nil {
		return nil, err
	}
	s.HandleAuthEvent(ctx, EventSignedIn, identity)
	return cloneIdentity(identity), nil
}

// SignOut ends the session. Local state is cleared even when the provider
// call fails.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.auth.SignOut(ctx)
	if err != nil {
		s.logg.Error(ctx, "provider sign-out failed", err)
	}
	s.HandleAuthEvent(ctx, EventSignedOut, nil)
	return err
}

// Refresh reloads the identity's profiles and notifies observers.
func (s *Store) Refresh(ctx context.Context) LoadResult {
	res := s.registry.Refresh(ctx)
	if res.Status != LoadSuperseded {
		s.notify()
	}
	return res
}

// Select switches the active profile. A nil id returns to the role picker.
func (s *Store) Select(ctx context.Context, profileID *uuid.UUID) error {
	if profileID != nil {
		if _, ok := s.registry.Find(*profileID); !ok {
			return ErrProfileNotFound
		}
	}
	if scoper, ok := s.auth.(ProfileScoper); ok {
		if err := scoper.ScopeToProfile(ctx, profileID); err != nil {
			return err
		}
	}
	if err := s.selector.Select(profileID); err != nil {
		return err
	}
	if profileID != nil {
		s.logg.Info(s.logg.WithProfileID(ctx, profileID.String()), "active profile selected")
	}
	s.notify()
	return nil
}

// Subscribe registers fn for snapshots after every settled change.
// Observers run in subscription order, outside the store's locks.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

// Snapshot returns a consistent copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		Loading:  s.loading,
		Identity: cloneIdentity(s.identity),
	}
	s.mu.Unlock()

	_ = s.registry.withProfiles(func([]Profile) error {
		view := s.registry.viewLocked()
		snap.Profiles = view.profiles
		snap.ProfilesStatus = view.status
		snap.ProfilesErr = view.lastErr
		snap.stale = view.hasData
		if p, ok := s.selector.Active(); ok {
			snap.Active = &p
		}
		return nil
	})
	return snap
}

func (s *Store) notify() {
	snap := s.Snapshot()

	s.obsMu.Lock()
	ids := make([]uint64, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.observers[id])
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
