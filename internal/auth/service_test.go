package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/internal/profiles"
	pkgAuth "github.com/fruitnut/fruitnut-backend/pkg/auth"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
	"github.com/fruitnut/fruitnut-backend/pkg/navigation"
)

type serviceSetup struct {
	svc      Service
	users    *stubUserRepository
	profiles *stubProfiles
	sessions *stubSessions
	metrics  *stubRecorder
}

func newServiceSetup(t *testing.T) *serviceSetup {
	t.Helper()
	setup := &serviceSetup{
		users:    newStubUserRepository(),
		profiles: &stubProfiles{byUser: map[uuid.UUID][]profiles.ProfileDTO{}},
		sessions: newStubSessions(),
		metrics:  &stubRecorder{},
	}
	svc, err := NewService(ServiceParams{
		UserRepo:       setup.users,
		Profiles:       setup.profiles,
		SessionManager: setup.sessions,
		JWTConfig:      testJWTConfig(),
		Metrics:        setup.metrics,
		Now:            func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	setup.svc = svc
	return setup
}

func TestSignInWithoutProfilesPointsAtRoleSetup(t *testing.T) {
	setup := newServiceSetup(t)
	user := seedUser(t, setup.users, "new@example.com", "orchard")

	resp, err := setup.svc.SignIn(context.Background(), SignInRequest{Email: " New@Example.com ", Password: "orchard"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if resp.NextRoute != navigation.RoleSetupRoute {
		t.Fatalf("expected role setup route, got %s", resp.NextRoute)
	}
	if resp.User.ID != user.ID {
		t.Fatalf("unexpected user %s", resp.User.ID)
	}
	if !setup.users.lastLogin.Equal(testNow) {
		t.Fatalf("last login not recorded")
	}

	claims, err := pkgAuth.ParseAccessTokenAllowExpired(testJWTConfig(), resp.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.HasActiveProfile() {
		t.Fatalf("fresh sign-in token must be unscoped")
	}
	if setup.sessions.tokens[claims.SessionID] != resp.Tokens.RefreshToken {
		t.Fatalf("refresh token not stored under the token's session")
	}
}

func TestSignInWithProfilesPointsAtHome(t *testing.T) {
	setup := newServiceSetup(t)
	user := seedUser(t, setup.users, "farmer@example.com", "orchard")
	setup.profiles.byUser[user.ID] = []profiles.ProfileDTO{farmerProfile(user.ID)}

	resp, err := setup.svc.SignIn(context.Background(), SignInRequest{Email: user.Email, Password: "orchard"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if resp.NextRoute != navigation.RolePickerRoute {
		t.Fatalf("expected home, got %s", resp.NextRoute)
	}
	if len(resp.Profiles) != 1 {
		t.Fatalf("expected one profile, got %d", len(resp.Profiles))
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	setup := newServiceSetup(t)
	user := seedUser(t, setup.users, "farmer@example.com", "orchard")

	cases := []SignInRequest{
		{Email: user.Email, Password: "wrong"},
		{Email: "missing@example.com", Password: "orchard"},
		{Email: "  ", Password: "orchard"},
	}
	for _, req := range cases {
		_, err := setup.svc.SignIn(context.Background(), req)
		requireCode(t, err, pkgerrors.CodeUnauthorized)
	}

	user.IsActive = false
	_, err := setup.svc.SignIn(context.Background(), SignInRequest{Email: user.Email, Password: "orchard"})
	requireCode(t, err, pkgerrors.CodeUnauthorized)

	for _, ev := range setup.metrics.events {
		if ev.event != "sign_in" || ev.ok {
			t.Fatalf("unexpected recorded event %+v", ev)
		}
	}
}

func TestSessionEchoesScope(t *testing.T) {
	setup := newServiceSetup(t)
	user := seedUser(t, setup.users, "farmer@example.com", "orchard")
	profile := farmerProfile(user.ID)
	setup.profiles.byUser[user.ID] = []profiles.ProfileDTO{profile}
	role := enums.RoleFarmer

	resp, err := setup.svc.Session(context.Background(), &pkgAuth.AccessTokenClaims{
		UserID:          user.ID,
		SessionID:       "sid-x",
		ActiveProfileID: &profile.ID,
		ActiveRole:      &role,
	})
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if resp.ActiveProfileID == nil || *resp.ActiveProfileID != profile.ID {
		t.Fatalf("active profile not echoed")
	}

	_, err = setup.svc.Session(context.Background(), &pkgAuth.AccessTokenClaims{UserID: uuid.New()})
	requireCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshRotatesAndKeepsScope(t *testing.T) {
	setup := newServiceSetup(t)
	user := seedUser(t, setup.users, "farmer@example.com", "orchard")
	signIn, err := setup.svc.SignIn(context.Background(), SignInRequest{Email: user.Email, Password: "orchard"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(testJWTConfig(), signIn.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	profileID := uuid.New()
	role := enums.RoleVolunteer
	claims.ActiveProfileID = &profileID
	claims.ActiveRole = &role

	tokens, err := setup.svc.Refresh(context.Background(), claims, signIn.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	rotated, err := pkgAuth.ParseAccessTokenAllowExpired(testJWTConfig(), tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated: %v", err)
	}
	if rotated.SessionID == claims.SessionID {
		t.Fatalf("expected a new session id")
	}
	if rotated.ActiveRole == nil || *rotated.ActiveRole != enums.RoleVolunteer {
		t.Fatalf("scope lost across refresh")
	}

	_, err = setup.svc.Refresh(context.Background(), claims, signIn.Tokens.RefreshToken)
	requireCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestSignOutRevokes(t *testing.T) {
	setup := newServiceSetup(t)
	if err := setup.svc.SignOut(context.Background(), "sid-9"); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if len(setup.sessions.revoked) != 1 || setup.sessions.revoked[0] != "sid-9" {
		t.Fatalf("session not revoked: %v", setup.sessions.revoked)
	}

	setup.sessions.err = errBoom
	err := setup.svc.SignOut(context.Background(), "sid-9")
	requireCode(t, err, pkgerrors.CodeDependency)
}
