package appstate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fruitnut/fruitnut-backend/pkg/navigation"
)

func startNavigator(t *testing.T, f storeFixture, route string) (*Navigator, *fakeRouter) {
	t.Helper()
	router := &fakeRouter{route: route}
	nav := NewNavigator(f.store, router, nil)
	t.Cleanup(nav.Start())
	return nav, router
}

func TestNavigatorHoldsWhileBooting(t *testing.T) {
	f := newStoreFixture(t)
	nav, router := startNavigator(t, f, "/volunteer/shifts")

	require.Empty(t, router.replacements())
	require.Equal(t, navigation.StateBooting, nav.Last().State)
}

func TestNavigatorNoProfilesGoesToRoleSetup(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Bootstrap(context.Background()))
	f.auth.addUser("ada@example.com", "secret1")
	_, router := startNavigator(t, f, navigation.RolePickerRoute)
	require.Equal(t, []string{navigation.SignInRoute}, router.replacements())

	_, err := f.store.SignIn(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)

	require.Equal(t, []string{navigation.SignInRoute, navigation.RoleSetupRoute}, router.replacements())
	require.Equal(t, navigation.RoleSetupRoute, router.CurrentRoute())
}

func TestNavigatorActiveRoleCorrectsSegment(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Bootstrap(context.Background()))
	id := f.auth.addUser("ada@example.com", "secret1")
	p := volunteerProfile(id.ID, "Ada")
	f.loader.set(id.ID, p)

	_, err := f.store.SignIn(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	_, router := startNavigator(t, f, "/farmer")

	require.NoError(t, f.store.Select(context.Background(), &p.ID))
	require.Equal(t, "/volunteer", router.CurrentRoute())
}

func TestNavigatorPickerRouteSatisfiesPicker(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Bootstrap(context.Background()))
	id := f.auth.addUser("ada@example.com", "secret1")
	f.loader.set(id.ID, farmerProfile(id.ID), centerProfile(id.ID))
	_, err := f.store.SignIn(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)

	nav, router := startNavigator(t, f, navigation.RolePickerRoute)
	require.Empty(t, router.replacements())
	require.Equal(t, navigation.StatePickingRole, nav.Last().State)

	d, err := nav.Evaluate(f.store.Snapshot())
	require.NoError(t, err)
	require.False(t, d.Redirect)
	require.Empty(t, router.replacements())
	require.Equal(t, navigation.RolePickerRoute, router.CurrentRoute())
}

func TestNavigatorSignOutGoesToSignIn(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Bootstrap(context.Background()))
	id := f.auth.addUser("ada@example.com", "secret1")
	p := farmerProfile(id.ID)
	f.loader.set(id.ID, p)
	_, err := f.store.SignIn(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, f.store.Select(context.Background(), &p.ID))

	_, router := startNavigator(t, f, "/farmer/donations")
	require.Empty(t, router.replacements())

	require.NoError(t, f.store.SignOut(context.Background()))
	require.Equal(t, []string{navigation.SignInRoute}, router.replacements())
}

func TestNavigatorSecondEvaluationIsStable(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Bootstrap(context.Background()))
	nav, router := startNavigator(t, f, "/center")
	require.Equal(t, []string{navigation.SignInRoute}, router.replacements())

	d, err := nav.Evaluate(f.store.Snapshot())
	require.NoError(t, err)
	require.False(t, d.Redirect)
	require.Len(t, router.replacements(), 1)
}

func TestNavigatorRouterFailureIsFatal(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Bootstrap(context.Background()))

	router := &fakeRouter{route: "/farmer", err: errors.New("no such route")}
	var fatal error
	nav := NewNavigator(f.store, router, nil, WithFatalHandler(func(err error) { fatal = err }))
	stop := nav.Start()
	defer stop()

	require.Error(t, fatal)
	require.Contains(t, fatal.Error(), navigation.SignInRoute)
}

func TestNavigatorDefaultFatalPanics(t *testing.T) {
	f := newStoreFixture(t)
	require.NoError(t, f.store.Bootstrap(context.Background()))
	router := &fakeRouter{route: "/farmer", err: errors.New("no such route")}
	nav := NewNavigator(f.store, router, nil)

	require.Panics(t, func() { nav.Start() })
}
