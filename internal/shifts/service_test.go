package shifts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fruitnut/fruitnut-backend/internal/farms"
	"github.com/fruitnut/fruitnut-backend/internal/profiles"
	"github.com/fruitnut/fruitnut-backend/internal/users"
	"github.com/fruitnut/fruitnut-backend/pkg/db"
	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
	"github.com/fruitnut/fruitnut-backend/pkg/migrate/migratetest"
	"github.com/fruitnut/fruitnut-backend/pkg/pagination"
)

type recordedOutcomes []string

func (r *recordedOutcomes) Signup(outcome string) { *r = append(*r, outcome) }

type fixture struct {
	conn     *gorm.DB
	svc      Service
	farmID   uuid.UUID
	outcomes *recordedOutcomes
	users    int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := migratetest.OpenSQLite(t)
	f := &fixture{conn: conn, outcomes: &recordedOutcomes{}}

	owner := f.newUser(t)
	farm, err := farms.NewRepository(conn).Create(context.Background(), owner, farms.CreateFarmDTO{
		Name:      "Orchard Hill",
		OwnerName: "Sam",
	})
	require.NoError(t, err)
	f.farmID = farm.ID

	svc, err := NewService(ServiceParams{
		DB:      db.FromGorm(conn),
		Repo:    NewRepository(conn),
		Metrics: f.outcomes,
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) newUser(t *testing.T) uuid.UUID {
	t.Helper()
	f.users++
	user, err := users.NewRepository(f.conn).Create(context.Background(), users.CreateUserDTO{
		Email:        fmt.Sprintf("user%d@example.com", f.users),
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return user.ID
}

func (f *fixture) volunteer(t *testing.T, name string, waiver bool) uuid.UUID {
	t.Helper()
	profile := &models.UserProfile{
		ID:            uuid.New(),
		UserID:        f.newUser(t),
		Role:          enums.RoleVolunteer,
		VolunteerName: &name,
		WaiverAgreed:  waiver,
	}
	if waiver {
		agreedAt := time.Now().UTC()
		profile.WaiverAgreedAt = &agreedAt
	}
	require.NoError(t, profiles.NewRepository(f.conn).Create(context.Background(), profile))
	return profile.ID
}

func (f *fixture) shift(t *testing.T, limit int) *ShiftDTO {
	t.Helper()
	shift, err := f.svc.Create(context.Background(), f.farmID, CreateShiftDTO{
		Date:           "2025-07-04",
		StartTime:      "08:00",
		EndTime:        "12:00",
		Fruit:          "apricots",
		VolunteerLimit: limit,
	})
	require.NoError(t, err)
	return shift
}

func TestCreateShiftAppliesDefaults(t *testing.T) {
	f := newFixture(t)

	got := f.shift(t, 0)
	require.Equal(t, DefaultVolunteerLimit, got.VolunteerLimit)
	require.Equal(t, enums.ShiftStatusActive, got.Status)
	require.Equal(t, "2025-07-04", got.Date)
	require.Equal(t, "Orchard Hill", got.FarmName)
	require.Zero(t, got.SignedUp)
}

func TestCreateShiftValidation(t *testing.T) {
	f := newFixture(t)
	base := CreateShiftDTO{Date: "2025-07-04", StartTime: "08:00", EndTime: "12:00", Fruit: "figs"}

	cases := map[string]func(in *CreateShiftDTO){
		"bad date":         func(in *CreateShiftDTO) { in.Date = "07/04/2025" },
		"bad start":        func(in *CreateShiftDTO) { in.StartTime = "8am" },
		"end before start": func(in *CreateShiftDTO) { in.EndTime = "07:30" },
		"empty window":     func(in *CreateShiftDTO) { in.EndTime = "08:00" },
		"blank fruit":      func(in *CreateShiftDTO) { in.Fruit = "   " },
		"negative limit":   func(in *CreateShiftDTO) { in.VolunteerLimit = -2 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			_, err := f.svc.Create(context.Background(), f.farmID, in)
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
}

func TestUpdateShiftChecksMergedWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shift := f.shift(t, 3)

	early := "07:00"
	_, err := f.svc.Update(ctx, f.farmID, shift.ID, UpdateShiftDTO{EndTime: &early})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	late := "14:30"
	cancelled := enums.ShiftStatusCancelled
	got, err := f.svc.Update(ctx, f.farmID, shift.ID, UpdateShiftDTO{EndTime: &late, Status: &cancelled})
	require.NoError(t, err)
	require.Equal(t, "14:30", got.EndTime)
	require.Equal(t, enums.ShiftStatusCancelled, got.Status)

	bogus := enums.ShiftStatus("paused")
	_, err = f.svc.Update(ctx, f.farmID, shift.ID, UpdateShiftDTO{Status: &bogus})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.Update(ctx, uuid.New(), shift.ID, UpdateShiftDTO{EndTime: &late})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteShiftScopedToFarm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shift := f.shift(t, 3)

	err := f.svc.Delete(ctx, uuid.New(), shift.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, f.svc.Delete(ctx, f.farmID, shift.ID))
	err = f.svc.Delete(ctx, f.farmID, shift.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestSignUpFillsShift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shift := f.shift(t, 1)
	first := f.volunteer(t, "Ana", true)
	second := f.volunteer(t, "Ben", true)

	signup, err := f.svc.SignUp(ctx, first, shift.ID)
	require.NoError(t, err)
	require.Equal(t, "Ana", signup.VolunteerName)
	require.False(t, signup.LoggedDonation)

	list, err := f.svc.ListForFarm(ctx, f.farmID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.Equal(t, enums.ShiftStatusFull, list.Items[0].Status)
	require.EqualValues(t, 1, list.Items[0].SignedUp)

	_, err = f.svc.SignUp(ctx, second, shift.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	require.Equal(t, []string{"full", "rejected"}, []string(*f.outcomes))
}

func TestUpdateLimitReconcilesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shift := f.shift(t, 1)
	_, err := f.svc.SignUp(ctx, f.volunteer(t, "Ana", true), shift.ID)
	require.NoError(t, err)

	raised := 2
	got, err := f.svc.Update(ctx, f.farmID, shift.ID, UpdateShiftDTO{VolunteerLimit: &raised})
	require.NoError(t, err)
	require.Equal(t, enums.ShiftStatusActive, got.Status)

	_, err = f.svc.SignUp(ctx, f.volunteer(t, "Ben", true), shift.ID)
	require.NoError(t, err)

	lowered := 1
	got, err = f.svc.Update(ctx, f.farmID, shift.ID, UpdateShiftDTO{VolunteerLimit: &lowered})
	require.NoError(t, err)
	require.Equal(t, enums.ShiftStatusFull, got.Status)

	cancelled := enums.ShiftStatusCancelled
	_, err = f.svc.Update(ctx, f.farmID, shift.ID, UpdateShiftDTO{Status: &cancelled})
	require.NoError(t, err)
	got, err = f.svc.Update(ctx, f.farmID, shift.ID, UpdateShiftDTO{VolunteerLimit: &raised})
	require.NoError(t, err)
	require.Equal(t, enums.ShiftStatusCancelled, got.Status)
}

func TestSignUpRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shift := f.shift(t, 5)
	volunteer := f.volunteer(t, "Ana", true)
	unsigned := f.volunteer(t, "Ben", false)

	_, err := f.svc.SignUp(ctx, unsigned, shift.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = f.svc.SignUp(ctx, volunteer, shift.ID)
	require.NoError(t, err)
	_, err = f.svc.SignUp(ctx, volunteer, shift.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = f.svc.SignUp(ctx, volunteer, uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	cancelled := enums.ShiftStatusCancelled
	other := f.shift(t, 5)
	_, err = f.svc.Update(ctx, f.farmID, other.ID, UpdateShiftDTO{Status: &cancelled})
	require.NoError(t, err)
	_, err = f.svc.SignUp(ctx, volunteer, other.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	signups, err := f.svc.ListSignups(ctx, f.farmID, shift.ID)
	require.NoError(t, err)
	require.Len(t, signups, 1)
}

func TestListOpenSkipsCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	open := f.shift(t, 2)
	closed := f.shift(t, 2)
	cancelled := enums.ShiftStatusCancelled
	_, err := f.svc.Update(ctx, f.farmID, closed.ID, UpdateShiftDTO{Status: &cancelled})
	require.NoError(t, err)

	got, err := f.svc.ListOpen(ctx, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, open.ID, got.Items[0].ID)
	require.Empty(t, got.Cursor)
}

func TestListForFarmPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		f.shift(t, 2)
	}

	first, err := f.svc.ListForFarm(ctx, f.farmID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.Cursor)

	second, err := f.svc.ListForFarm(ctx, f.farmID, pagination.Params{Limit: 2, Cursor: first.Cursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	require.Empty(t, second.Cursor)

	_, err = f.svc.ListForFarm(ctx, f.farmID, pagination.Params{Cursor: "%%%"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestLogSignupFeedsContributions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	volunteer := f.volunteer(t, "Ana", true)
	morning := f.shift(t, 4)
	afternoon := f.shift(t, 4)

	var signupIDs []uuid.UUID
	for _, shift := range []*ShiftDTO{morning, afternoon} {
		signup, err := f.svc.SignUp(ctx, volunteer, shift.ID)
		require.NoError(t, err)
		signupIDs = append(signupIDs, signup.ID)
	}

	_, err := f.svc.LogSignup(ctx, f.farmID, morning.ID, signupIDs[0], LogSignupDTO{
		AmountPickedLbs:  decimal.NewFromInt(10),
		AmountDonatedLbs: decimal.NewFromInt(12),
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.LogSignup(ctx, f.farmID, afternoon.ID, signupIDs[0], LogSignupDTO{
		AmountPickedLbs:  decimal.NewFromInt(10),
		AmountDonatedLbs: decimal.NewFromInt(5),
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	logged, err := f.svc.LogSignup(ctx, f.farmID, morning.ID, signupIDs[0], LogSignupDTO{
		AmountPickedLbs:  decimal.RequireFromString("40.5"),
		AmountDonatedLbs: decimal.RequireFromString("32.25"),
	})
	require.NoError(t, err)
	require.True(t, logged.LoggedDonation)
	require.True(t, decimal.RequireFromString("40.5").Equal(logged.AmountPickedLbs))

	_, err = f.svc.LogSignup(ctx, f.farmID, afternoon.ID, signupIDs[1], LogSignupDTO{
		AmountPickedLbs:  decimal.NewFromInt(20),
		AmountDonatedLbs: decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	got, err := f.svc.Contributions(ctx, volunteer)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	require.Equal(t, 2, got.ShiftCount)
	require.True(t, decimal.RequireFromString("60.5").Equal(got.TotalPickedLbs), got.TotalPickedLbs.String())
	require.True(t, decimal.RequireFromString("52.25").Equal(got.TotalDonatedLbs), got.TotalDonatedLbs.String())
	require.Equal(t, "Orchard Hill", got.Items[0].FarmName)

	empty, err := f.svc.Contributions(ctx, f.volunteer(t, "Cy", true))
	require.NoError(t, err)
	require.Empty(t, empty.Items)
	require.True(t, empty.TotalPickedLbs.IsZero())
}

func TestCreateShiftUnknownCenter(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()

	_, err := f.svc.Create(context.Background(), f.farmID, CreateShiftDTO{
		CenterID:  &missing,
		Date:      "2025-07-04",
		StartTime: "08:00",
		EndTime:   "12:00",
		Fruit:     "plums",
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
