package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fruitnut/fruitnut-backend/internal/appstate"
	"github.com/fruitnut/fruitnut-backend/internal/centers"
	"github.com/fruitnut/fruitnut-backend/internal/farms"
	"github.com/fruitnut/fruitnut-backend/internal/profiles"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

type setupOptions struct {
	farmer    bool
	farmName  string
	ownerName string
	farmEmail string
	farmPhone string
	farmAddr  string

	volunteer     bool
	volunteerName string
	phone         string

	centerMode  string
	centerID    string
	centerName  string
	centerAddr  string
	centerPhone string
	centerEmail string
}

func newSetupCommand() *cobra.Command {
	var opts setupOptions

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Add farmer, volunteer or center roles to your account",
		Example: `  fruitnut setup --farmer --farm-name "Sunny Acres" --owner-name Pat
  fruitnut setup --volunteer --volunteer-name Pat --phone 555-0100
  fruitnut setup --center join --center-id 3f1c...
  fruitnut setup --center create --center-name "Eastside Pantry"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			if sess.Store.Snapshot().Identity == nil {
				return appstate.ErrNoIdentity
			}
			req, err := opts.request()
			if err != nil {
				return err
			}

			if _, err := sess.Client.SetupRoles(cmd.Context(), req); err != nil {
				return err
			}
			if res := sess.Store.Refresh(cmd.Context()); res.Err != nil {
				return fmt.Errorf("roles created but reloading profiles failed: %w", res.Err)
			}
			fmt.Fprintln(sess.Out, "Roles set up")
			printProfiles(sess.Out, sess.Store.Snapshot())
			_, err = sess.navigate("")
			return err
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.farmer, "farmer", false, "add the farmer role")
	f.StringVar(&opts.farmName, "farm-name", "", "farm name")
	f.StringVar(&opts.ownerName, "owner-name", "", "farm owner name")
	f.StringVar(&opts.farmEmail, "farm-email", "", "farm contact email")
	f.StringVar(&opts.farmPhone, "farm-phone", "", "farm contact phone")
	f.StringVar(&opts.farmAddr, "farm-address", "", "farm address")
	f.BoolVar(&opts.volunteer, "volunteer", false, "add the volunteer role")
	f.StringVar(&opts.volunteerName, "volunteer-name", "", "volunteer display name")
	f.StringVar(&opts.phone, "phone", "", "volunteer phone")
	f.StringVar(&opts.centerMode, "center", "", `add the center role: "join" an existing center or "create" one`)
	f.StringVar(&opts.centerID, "center-id", "", "center to join")
	f.StringVar(&opts.centerName, "center-name", "", "name of the center to create")
	f.StringVar(&opts.centerAddr, "center-address", "", "address of the center to create")
	f.StringVar(&opts.centerPhone, "center-phone", "", "phone of the center to create")
	f.StringVar(&opts.centerEmail, "center-email", "", "email of the center to create")
	return cmd
}

// request validates the flag combination locally; the API re-checks it.
func (o setupOptions) request() (profiles.SetupRequest, error) {
	var req profiles.SetupRequest

	if o.farmer {
		if strings.TrimSpace(o.farmName) == "" || strings.TrimSpace(o.ownerName) == "" {
			return req, errors.New("--farmer needs --farm-name and --owner-name")
		}
		req.Roles = append(req.Roles, enums.RoleFarmer)
		req.Farm = &farms.CreateFarmDTO{
			Name:      strings.TrimSpace(o.farmName),
			OwnerName: strings.TrimSpace(o.ownerName),
			Email:     optional(o.farmEmail),
			Phone:     optional(o.farmPhone),
			Address:   optional(o.farmAddr),
		}
	}

	if o.volunteer {
		if strings.TrimSpace(o.volunteerName) == "" {
			return req, errors.New("--volunteer needs --volunteer-name")
		}
		req.Roles = append(req.Roles, enums.RoleVolunteer)
		req.Volunteer = &profiles.VolunteerSetup{
			VolunteerName: strings.TrimSpace(o.volunteerName),
			Phone:         optional(o.phone),
		}
	}

	if o.centerMode != "" {
		mode, err := enums.ParseCenterSetupMode(strings.ToLower(o.centerMode))
		if err != nil {
			return req, err
		}
		center := &profiles.CenterSetup{Mode: mode}
		switch mode {
		case enums.CenterSetupJoin:
			id, err := uuid.Parse(strings.TrimSpace(o.centerID))
			if err != nil {
				return req, errors.New("--center join needs a valid --center-id")
			}
			center.CenterID = &id
		case enums.CenterSetupCreate:
			if strings.TrimSpace(o.centerName) == "" {
				return req, errors.New("--center create needs --center-name")
			}
			center.CreateCenterDTO = centers.CreateCenterDTO{
				Name:    strings.TrimSpace(o.centerName),
				Address: optional(o.centerAddr),
				Phone:   optional(o.centerPhone),
				Email:   optional(o.centerEmail),
			}
		}
		req.Roles = append(req.Roles, enums.RoleCenter)
		req.Center = center
	}

	if len(req.Roles) == 0 {
		return req, errors.New("choose at least one of --farmer, --volunteer or --center")
	}
	return req, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
