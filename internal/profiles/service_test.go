package profiles

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fruitnut/fruitnut-backend/internal/centers"
	"github.com/fruitnut/fruitnut-backend/internal/farms"
	"github.com/fruitnut/fruitnut-backend/internal/users"
	"github.com/fruitnut/fruitnut-backend/pkg/db"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
	"github.com/fruitnut/fruitnut-backend/pkg/migrate/migratetest"
)

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	conn   *gorm.DB
	svc    Service
	userID uuid.UUID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := migratetest.OpenSQLite(t)
	user, err := users.NewRepository(conn).Create(context.Background(), users.CreateUserDTO{
		Email:        "setup@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		DB:   db.FromGorm(conn),
		Repo: NewRepository(conn),
		Now:  func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return fixture{conn: conn, svc: svc, userID: user.ID}
}

func strPtr(v string) *string { return &v }

func TestSetupCreatesOneProfilePerRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.svc.Setup(ctx, f.userID, SetupRequest{
		Roles:     []enums.Role{enums.RoleFarmer, enums.RoleVolunteer, enums.RoleCenter, enums.RoleFarmer},
		Farm:      &farms.CreateFarmDTO{Name: "  Orchard Hill ", OwnerName: "Sam"},
		Volunteer: &VolunteerSetup{VolunteerName: "Sam P", Phone: strPtr("  ")},
		Center: &CenterSetup{
			Mode:            enums.CenterSetupCreate,
			CreateCenterDTO: centers.CreateCenterDTO{Name: "Valley Pantry", Address: strPtr("1 Main St")},
		},
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	byRole := map[enums.Role]ProfileDTO{}
	for _, p := range got {
		byRole[p.Role] = p
	}
	require.Equal(t, "Orchard Hill", *byRole[enums.RoleFarmer].FarmName)
	require.Equal(t, "Valley Pantry", *byRole[enums.RoleCenter].CenterName)
	require.Equal(t, "Sam P", *byRole[enums.RoleVolunteer].VolunteerName)
	require.Nil(t, byRole[enums.RoleVolunteer].Phone)
	require.False(t, byRole[enums.RoleVolunteer].WaiverAgreed)
}

func TestSetupRejectsHeldRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Setup(ctx, f.userID, SetupRequest{
		Roles:     []enums.Role{enums.RoleVolunteer},
		Volunteer: &VolunteerSetup{VolunteerName: "Kim"},
	})
	require.NoError(t, err)

	_, err = f.svc.Setup(ctx, f.userID, SetupRequest{
		Roles:     []enums.Role{enums.RoleFarmer, enums.RoleVolunteer},
		Farm:      &farms.CreateFarmDTO{Name: "Second Farm"},
		Volunteer: &VolunteerSetup{VolunteerName: "Kim again"},
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)

	list, err := f.svc.List(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	var farmCount int64
	require.NoError(t, f.conn.Table("farms").Count(&farmCount).Error)
	require.Zero(t, farmCount)
}

func TestSetupJoinsExistingCenter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	center, err := centers.NewRepository(f.conn).Create(ctx, centers.CreateCenterDTO{Name: "Shared Pantry"})
	require.NoError(t, err)

	got, err := f.svc.Setup(ctx, f.userID, SetupRequest{
		Roles:  []enums.Role{enums.RoleCenter},
		Center: &CenterSetup{Mode: enums.CenterSetupJoin, CenterID: &center.ID},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, center.ID, *got[0].CenterID)
}

func TestSetupMissingCenterRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	missing := uuid.New()

	_, err := f.svc.Setup(ctx, f.userID, SetupRequest{
		Roles:     []enums.Role{enums.RoleVolunteer, enums.RoleCenter},
		Volunteer: &VolunteerSetup{VolunteerName: "Lee"},
		Center:    &CenterSetup{Mode: enums.CenterSetupJoin, CenterID: &missing},
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)

	list, err := f.svc.List(ctx, f.userID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestSetupValidation(t *testing.T) {
	f := newFixture(t)
	cases := map[string]SetupRequest{
		"no roles":            {},
		"unknown role":        {Roles: []enums.Role{"admin"}},
		"farmer without farm": {Roles: []enums.Role{enums.RoleFarmer}},
		"blank volunteer":     {Roles: []enums.Role{enums.RoleVolunteer}, Volunteer: &VolunteerSetup{VolunteerName: " "}},
		"bad center mode":     {Roles: []enums.Role{enums.RoleCenter}, Center: &CenterSetup{Mode: "adopt"}},
		"join without id":     {Roles: []enums.Role{enums.RoleCenter}, Center: &CenterSetup{Mode: enums.CenterSetupJoin}},
		"create without name": {Roles: []enums.Role{enums.RoleCenter}, Center: &CenterSetup{Mode: enums.CenterSetupCreate}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Setup(context.Background(), f.userID, req)
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
}

func TestVolunteerProfileFlows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Setup(ctx, f.userID, SetupRequest{
		Roles:     []enums.Role{enums.RoleVolunteer, enums.RoleFarmer},
		Volunteer: &VolunteerSetup{VolunteerName: "Robin"},
		Farm:      &farms.CreateFarmDTO{Name: "Berry Patch"},
	})
	require.NoError(t, err)
	var volunteerID, farmerID uuid.UUID
	for _, p := range created {
		if p.Role == enums.RoleVolunteer {
			volunteerID = p.ID
		} else {
			farmerID = p.ID
		}
	}

	updated, err := f.svc.UpdateVolunteer(ctx, f.userID, volunteerID, UpdateVolunteerDTO{
		VolunteerName: strPtr(" Robin Q "),
		Phone:         strPtr("555-0199"),
	})
	require.NoError(t, err)
	require.Equal(t, "Robin Q", *updated.VolunteerName)
	require.Equal(t, "555-0199", *updated.Phone)

	_, err = f.svc.UpdateVolunteer(ctx, f.userID, volunteerID, UpdateVolunteerDTO{VolunteerName: strPtr("")})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.SignWaiver(ctx, f.userID, volunteerID, WaiverRequest{})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	signed, err := f.svc.SignWaiver(ctx, f.userID, volunteerID, WaiverRequest{Agreed: true})
	require.NoError(t, err)
	require.True(t, signed.WaiverAgreed)
	require.NotNil(t, signed.WaiverAgreedAt)
	require.True(t, signed.WaiverAgreedAt.Equal(fixedNow))

	_, err = f.svc.SignWaiver(ctx, f.userID, farmerID, WaiverRequest{Agreed: true})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	_, err = f.svc.Get(ctx, uuid.New(), volunteerID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
