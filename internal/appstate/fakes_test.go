package appstate

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

var errBadCredentials = errors.New("invalid credentials")

type fakeAuth struct {
	mu               sync.Mutex
	session          *Identity
	sessionErr       error
	getSessionCalls  int
	passwords        map[string]string
	identities       map[string]Identity
	signOutErr       error
	listeners        map[int]AuthListener
	nextListener     int
	// duringGetSession runs inside GetSession before it returns.
	duringGetSession func(ctx context.Context)
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		passwords:  map[string]string{},
		identities: map[string]Identity{},
		listeners:  map[int]AuthListener{},
	}
}

func (f *fakeAuth) addUser(email, password string) Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := Identity{ID: uuid.New(), Email: email}
	f.passwords[email] = password
	f.identities[email] = id
	return id
}

func (f *fakeAuth) GetSession(ctx context.Context) (*Identity, error) {
	f.mu.Lock()
	f.getSessionCalls++
	session, err, hook := cloneIdentity(f.session), f.sessionErr, f.duringGetSession
	f.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (f *fakeAuth) SignInWithPassword(_ context.Context, email, password string) (*Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.passwords[email]; !ok || pw != password {
		return nil, errBadCredentials
	}
	id := f.identities[email]
	f.session = &id
	return cloneIdentity(&id), nil
}

func (f *fakeAuth) SignUp(_ context.Context, email, password, confirm string) (*Identity, error) {
	if password != confirm {
		return nil, errors.New("passwords do not match")
	}
	id := f.addUser(email, password)
	f.mu.Lock()
	f.session = &id
	f.mu.Unlock()
	return cloneIdentity(&id), nil
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = nil
	return f.signOutErr
}

func (f *fakeAuth) OnAuthStateChange(fn AuthListener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextListener
	f.nextListener++
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

func (f *fakeAuth) emit(ctx context.Context, event AuthEvent, identity *Identity) {
	f.mu.Lock()
	fns := make([]AuthListener, 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(ctx, event, identity)
	}
}

func (f *fakeAuth) listenerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

type scopingAuth struct {
	*fakeAuth
	scopes   []*uuid.UUID
	scopeErr error
}

func (s *scopingAuth) ScopeToProfile(_ context.Context, profileID *uuid.UUID) error {
	if s.scopeErr != nil {
		return s.scopeErr
	}
	s.scopes = append(s.scopes, profileID)
	return nil
}

type fakeLoader struct {
	mu       sync.Mutex
	profiles map[uuid.UUID][]Profile
	err      error
	calls    int
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{profiles: map[uuid.UUID][]Profile{}}
}

func (l *fakeLoader) set(identityID uuid.UUID, profiles ...Profile) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.profiles[identityID] = profiles
}

func (l *fakeLoader) fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

func (l *fakeLoader) ListProfiles(ctx context.Context, identityID uuid.UUID) ([]Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.err != nil {
		return nil, l.err
	}
	return cloneProfiles(l.profiles[identityID]), nil
}

type loadReply struct {
	profiles []Profile
	err      error
}

type gatedRequest struct {
	identityID uuid.UUID
	reply      chan loadReply
}

// gatedLoader hands every call to the test, which answers it explicitly.
type gatedLoader struct {
	requests chan gatedRequest
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{requests: make(chan gatedRequest)}
}

func (g *gatedLoader) ListProfiles(ctx context.Context, identityID uuid.UUID) ([]Profile, error) {
	req := gatedRequest{identityID: identityID, reply: make(chan loadReply, 1)}
	g.requests <- req
	select {
	case r := <-req.reply:
		return r.profiles, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type fakeRouter struct {
	mu       sync.Mutex
	route    string
	replaced []string
	err      error
}

func (r *fakeRouter) Replace(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.route = path
	r.replaced = append(r.replaced, path)
	return nil
}

func (r *fakeRouter) Push(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.route = path
	return nil
}

func (r *fakeRouter) CurrentRoute() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.route
}

func (r *fakeRouter) replacements() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.replaced...)
}

func farmerProfile(userID uuid.UUID) Profile {
	farmID := uuid.New()
	return Profile{ID: uuid.New(), UserID: userID, Role: enums.RoleFarmer, FarmID: &farmID}
}

func centerProfile(userID uuid.UUID) Profile {
	centerID := uuid.New()
	return Profile{ID: uuid.New(), UserID: userID, Role: enums.RoleCenter, CenterID: &centerID}
}

func volunteerProfile(userID uuid.UUID, name string) Profile {
	return Profile{ID: uuid.New(), UserID: userID, Role: enums.RoleVolunteer, VolunteerName: name}
}
