package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/fruitnut/fruitnut-backend/pkg/config"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
	"github.com/fruitnut/fruitnut-backend/pkg/navigation"
	"github.com/fruitnut/fruitnut-backend/pkg/security"
)

type registerTestSetup struct {
	service  RegisterService
	userRepo *stubUserRepository
	sessions *stubSessions
}

func newRegisterTestSetup(t *testing.T) *registerTestSetup {
	t.Helper()
	userRepo := newStubUserRepository()
	sessions := newStubSessions()
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return userRepo
		},
		SessionManager: sessions,
		PasswordConfig: config.PasswordConfig{},
		JWTConfig:      testJWTConfig(),
		Now:            func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return &registerTestSetup{service: svc, userRepo: userRepo, sessions: sessions}
}

func TestSignUpCreatesUserAndSession(t *testing.T) {
	setup := newRegisterTestSetup(t)

	resp, err := setup.service.SignUp(context.Background(), SignUpRequest{
		Email:           " Grower@Example.com",
		Password:        "peaches",
		ConfirmPassword: "peaches",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if setup.userRepo.created == nil || setup.userRepo.created.Email != "grower@example.com" {
		t.Fatalf("expected normalized user to be created")
	}
	ok, err := security.VerifyPassword("peaches", setup.userRepo.created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: %v", err)
	}
	if resp.NextRoute != navigation.RoleSetupRoute {
		t.Fatalf("expected role setup route, got %s", resp.NextRoute)
	}
	if resp.Profiles == nil || len(resp.Profiles) != 0 {
		t.Fatalf("expected an empty profile list")
	}
	if len(setup.sessions.tokens) != 1 {
		t.Fatalf("expected one open session")
	}
}

func TestSignUpPasswordPolicy(t *testing.T) {
	setup := newRegisterTestSetup(t)

	cases := []SignUpRequest{
		{Email: "a@example.com", Password: "short", ConfirmPassword: "short"},
		{Email: "a@example.com", Password: "longenough", ConfirmPassword: "different"},
		{Email: "   ", Password: "longenough", ConfirmPassword: "longenough"},
	}
	for _, req := range cases {
		_, err := setup.service.SignUp(context.Background(), req)
		requireCode(t, err, pkgerrors.CodeValidation)
	}
	if setup.userRepo.created != nil {
		t.Fatalf("no user should be created")
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	setup := newRegisterTestSetup(t)
	seedUser(t, setup.userRepo, "taken@example.com", "orchard")

	_, err := setup.service.SignUp(context.Background(), SignUpRequest{
		Email:           "taken@example.com",
		Password:        "orchard",
		ConfirmPassword: "orchard",
	})
	requireCode(t, err, pkgerrors.CodeConflict)
	if len(setup.sessions.tokens) != 0 {
		t.Fatalf("no session should be opened")
	}
}

func TestSignUpCreateFailure(t *testing.T) {
	setup := newRegisterTestSetup(t)
	setup.userRepo.createErr = errBoom

	_, err := setup.service.SignUp(context.Background(), SignUpRequest{
		Email:           "new@example.com",
		Password:        "orchard",
		ConfirmPassword: "orchard",
	})
	requireCode(t, err, pkgerrors.CodeInternal)
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}
