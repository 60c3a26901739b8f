package appstate

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRegistryLoadReplacesList(t *testing.T) {
	loader := newFakeLoader()
	userID := uuid.New()
	first := farmerProfile(userID)
	loader.set(userID, first)

	reg := NewRegistry(loader, nil)
	res := reg.Load(context.Background(), userID)
	require.Equal(t, LoadLoaded, res.Status)
	require.Len(t, res.Profiles, 1)

	second := centerProfile(userID)
	loader.set(userID, second)
	res = reg.Load(context.Background(), userID)
	require.Equal(t, LoadLoaded, res.Status)

	profiles := reg.Profiles()
	require.Len(t, profiles, 1)
	require.Equal(t, second.ID, profiles[0].ID)

	status, err := reg.Status()
	require.Equal(t, LoadLoaded, status)
	require.NoError(t, err)
}

func TestRegistryFailedLoadKeepsPreviousList(t *testing.T) {
	loader := newFakeLoader()
	userID := uuid.New()
	p := farmerProfile(userID)
	loader.set(userID, p)

	reg := NewRegistry(loader, nil)
	reg.Load(context.Background(), userID)

	boom := errors.New("connection refused")
	loader.fail(boom)
	res := reg.Refresh(context.Background())
	require.Equal(t, LoadFailed, res.Status)
	require.ErrorIs(t, res.Err, boom)

	status, lastErr := reg.Status()
	require.Equal(t, LoadFailed, status)
	require.ErrorIs(t, lastErr, boom)
	require.Len(t, reg.Profiles(), 1)
}

func TestRegistryFailedFirstLoadIsNotEmpty(t *testing.T) {
	loader := newFakeLoader()
	loader.fail(errors.New("timeout"))
	reg := NewRegistry(loader, nil)

	res := reg.Load(context.Background(), uuid.New())
	require.Equal(t, LoadFailed, res.Status)
	require.Empty(t, reg.Profiles())

	view := reg.viewLocked()
	require.False(t, view.hasData)
}

func TestRegistryCancelledLoadFails(t *testing.T) {
	reg := NewRegistry(newFakeLoader(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := reg.Load(ctx, uuid.New())
	require.Equal(t, LoadFailed, res.Status)
	require.ErrorIs(t, res.Err, context.Canceled)
}

func TestRegistryRefreshWithoutIdentity(t *testing.T) {
	loader := newFakeLoader()
	reg := NewRegistry(loader, nil)

	res := reg.Refresh(context.Background())
	require.Equal(t, LoadSkipped, res.Status)
	require.ErrorIs(t, res.Err, ErrNoIdentity)
	require.Zero(t, loader.calls)
}

func TestRegistryIdentityChangeDropsPreviousList(t *testing.T) {
	loader := newFakeLoader()
	alice, bob := uuid.New(), uuid.New()
	loader.set(alice, farmerProfile(alice))

	reg := NewRegistry(loader, nil)
	reg.Load(context.Background(), alice)
	require.Len(t, reg.Profiles(), 1)

	loader.fail(errors.New("unavailable"))
	res := reg.Load(context.Background(), bob)
	require.Equal(t, LoadFailed, res.Status)
	require.Empty(t, reg.Profiles())
}

func TestRegistryLatestLoadWins(t *testing.T) {
	loader := newGatedLoader()
	reg := NewRegistry(loader, nil)
	userID := uuid.New()

	firstDone := make(chan LoadResult, 1)
	go func() { firstDone <- reg.Load(context.Background(), userID) }()
	firstReq := <-loader.requests

	secondDone := make(chan LoadResult, 1)
	go func() { secondDone <- reg.Load(context.Background(), userID) }()
	secondReq := <-loader.requests

	newer := centerProfile(userID)
	secondReq.reply <- loadReply{profiles: []Profile{newer}}
	require.Equal(t, LoadLoaded, (<-secondDone).Status)

	firstReq.reply <- loadReply{profiles: []Profile{farmerProfile(userID)}}
	require.Equal(t, LoadSuperseded, (<-firstDone).Status)

	profiles := reg.Profiles()
	require.Len(t, profiles, 1)
	require.Equal(t, newer.ID, profiles[0].ID)
}

func TestRegistryClearDiscardsInFlightLoad(t *testing.T) {
	loader := newGatedLoader()
	reg := NewRegistry(loader, nil)
	userID := uuid.New()

	done := make(chan LoadResult, 1)
	go func() { done <- reg.Load(context.Background(), userID) }()
	req := <-loader.requests

	reg.Clear()
	req.reply <- loadReply{profiles: []Profile{farmerProfile(userID)}}

	require.Equal(t, LoadSuperseded, (<-done).Status)
	require.Empty(t, reg.Profiles())
	status, _ := reg.Status()
	require.Equal(t, LoadIdle, status)
}

func TestRegistryFind(t *testing.T) {
	loader := newFakeLoader()
	userID := uuid.New()
	p := volunteerProfile(userID, "Ada")
	loader.set(userID, p)

	reg := NewRegistry(loader, nil)
	reg.Load(context.Background(), userID)

	got, ok := reg.Find(p.ID)
	require.True(t, ok)
	require.Equal(t, "Ada", got.VolunteerName)

	_, ok = reg.Find(uuid.New())
	require.False(t, ok)
}
