package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fruitnut/fruitnut-backend/internal/profiles"
	"github.com/fruitnut/fruitnut-backend/internal/users"
	"github.com/fruitnut/fruitnut-backend/pkg/auth/session"
	"github.com/fruitnut/fruitnut-backend/pkg/config"
	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
	"github.com/fruitnut/fruitnut-backend/pkg/security"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "fruitnut",
		ExpirationMinutes: 30,
	}
}

type stubUserRepository struct {
	data      map[string]*models.User
	created   *models.User
	lastLogin time.Time
	createErr error
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{data: map[string]*models.User{}}
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.data[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range s.data {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin = at
	return nil
}

func (s *stubUserRepository) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := dto.ToModel()
	s.data[user.Email] = user
	s.created = user
	return user, nil
}

type stubProfiles struct {
	byUser map[uuid.UUID][]profiles.ProfileDTO
}

func (s *stubProfiles) List(ctx context.Context, userID uuid.UUID) ([]profiles.ProfileDTO, error) {
	return s.byUser[userID], nil
}

func (s *stubProfiles) Get(ctx context.Context, userID, profileID uuid.UUID) (*profiles.ProfileDTO, error) {
	for _, p := range s.byUser[userID] {
		if p.ID == profileID {
			p := p
			return &p, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
}

type stubSessions struct {
	tokens  map[string]string
	seq     int
	revoked []string
	err     error
}

func newStubSessions() *stubSessions {
	return &stubSessions{tokens: map[string]string{}}
}

func (s *stubSessions) Generate(ctx context.Context) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	s.seq++
	sid := fmt.Sprintf("sid-%d", s.seq)
	token := fmt.Sprintf("refresh-%d", s.seq)
	s.tokens[sid] = token
	return sid, token, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldSessionID, provided string) (string, string, error) {
	if s.tokens[oldSessionID] != provided || provided == "" {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.tokens, oldSessionID)
	return s.Generate(ctx)
}

func (s *stubSessions) Revoke(ctx context.Context, sessionID string) error {
	if s.err != nil {
		return s.err
	}
	delete(s.tokens, sessionID)
	s.revoked = append(s.revoked, sessionID)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type recordedEvent struct {
	event string
	ok    bool
}

type stubRecorder struct {
	events []recordedEvent
}

func (s *stubRecorder) Record(event string, err error) {
	s.events = append(s.events, recordedEvent{event: event, ok: err == nil})
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func seedUser(t *testing.T, repo *stubUserRepository, email, password string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: mustHashPassword(t, password),
		IsActive:     true,
	}
	repo.data[email] = user
	return user
}

func farmerProfile(userID uuid.UUID) profiles.ProfileDTO {
	farmID := uuid.New()
	return profiles.ProfileDTO{ID: uuid.New(), UserID: userID, Role: enums.RoleFarmer, FarmID: &farmID}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if !pkgerrors.IsCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

var errBoom = errors.New("boom")
