package appstate

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/pkg/logger"
)

// LoadStatus is the outcome of a profile load.
type LoadStatus string

const (
	LoadIdle       LoadStatus = "idle"
	LoadLoading    LoadStatus = "loading"
	LoadLoaded     LoadStatus = "loaded"
	LoadFailed     LoadStatus = "failed"
	LoadSuperseded LoadStatus = "superseded"
	LoadSkipped    LoadStatus = "skipped"
)

// LoadResult is returned by Load and Refresh. Superseded results were
// discarded because a newer load or a Clear started after them.
type LoadResult struct {
	Status   LoadStatus
	Profiles []Profile
	Err      error
}

// Registry holds the profiles of the current identity.
type Registry struct {
	loader ProfileLoader
	logg   *logger.Logger

	mu         sync.Mutex
	generation uint64
	identityID *uuid.UUID
	profiles   []Profile
	status     LoadStatus
	lastErr    error
	hasData    bool
	onReplace  []func([]Profile)
}

// NewRegistry builds an empty registry.
func NewRegistry(loader ProfileLoader, logg *logger.Logger) *Registry {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Registry{
		loader: loader,
		logg:   logg,
		status: LoadIdle,
	}
}

// OnReplace registers fn to run whenever the held list is replaced. fn runs
// with the registry locked and must not call back into it.
func (r *Registry) OnReplace(fn func([]Profile)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onReplace = append(r.onReplace, fn)
}

// Load fetches the profiles of identityID and replaces the held list. A
// load that finishes after a newer Load or Clear is discarded. On failure
// the previous list of the same identity is kept.
func (r *Registry) Load(ctx context.Context, identityID uuid.UUID) LoadResult {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	if r.identityID == nil || *r.identityID != identityID {
		id := identityID
		r.identityID = &id
		r.replaceLocked(nil)
		r.hasData = false
	}
	r.status = LoadLoading
	r.lastErr = nil
	r.mu.Unlock()

	ctx = r.logg.WithUserID(ctx, identityID.String())
	profiles, err := r.loader.ListProfiles(ctx, identityID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.generation {
		r.logg.Debug(ctx, "discarding superseded profile load")
		return LoadResult{Status: LoadSuperseded}
	}
	if err != nil {
		r.status = LoadFailed
		r.lastErr = err
		r.logg.Error(ctx, "failed to load profiles", err)
		return LoadResult{Status: LoadFailed, Err: err}
	}

	r.replaceLocked(profiles)
	r.hasData = true
	r.status = LoadLoaded
	return LoadResult{Status: LoadLoaded, Profiles: cloneProfiles(r.profiles)}
}

// Refresh reloads the profiles of the identity last passed to Load.
func (r *Registry) Refresh(ctx context.Context) LoadResult {
	r.mu.Lock()
	id := r.identityID
	r.mu.Unlock()
	if id == nil {
		return LoadResult{Status: LoadSkipped, Err: ErrNoIdentity}
	}
	return r.Load(ctx, *id)
}

// Clear drops the held list and invalidates any in-flight load.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	r.identityID = nil
	r.replaceLocked(nil)
	r.hasData = false
	r.status = LoadIdle
	r.lastErr = nil
}

// Profiles returns a copy of the held list.
func (r *Registry) Profiles() []Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneProfiles(r.profiles)
}

// Status returns the status of the latest load and its error, if any.
func (r *Registry) Status() (LoadStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, r.lastErr
}

// Find returns the held profile with the given id.
func (r *Registry) Find(id uuid.UUID) (Profile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

// withProfiles runs fn against the held list with the registry locked, so no
// load can apply while fn runs.
func (r *Registry) withProfiles(fn func([]Profile) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.profiles)
}

type registryView struct {
	profiles []Profile
	status   LoadStatus
	lastErr  error
	hasData  bool
}

func (r *Registry) viewLocked() registryView {
	return registryView{
		profiles: cloneProfiles(r.profiles),
		status:   r.status,
		lastErr:  r.lastErr,
		hasData:  r.hasData,
	}
}

func (r *Registry) replaceLocked(profiles []Profile) {
	r.profiles = cloneProfiles(profiles)
	for _, fn := range r.onReplace {
		fn(cloneProfiles(r.profiles))
	}
}
