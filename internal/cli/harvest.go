package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fruitnut/fruitnut-backend/internal/client"
	"github.com/fruitnut/fruitnut-backend/internal/donations"
	"github.com/fruitnut/fruitnut-backend/internal/shifts"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

type listFlags struct {
	as     string
	limit  int
	cursor string
}

func (f *listFlags) bind(cmd *cobra.Command, roles ...enums.Role) {
	cmd.Flags().StringVar(&f.as, "as", "", "role to act as ("+joinRoles(roles)+")")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&f.cursor, "cursor", "", "cursor from the previous page")
}

func (f listFlags) page() client.Page {
	return client.Page{Limit: f.limit, Cursor: f.cursor}
}

// roleScoped resolves the role for a read and makes it the active role.
func roleScoped(cmd *cobra.Command, as string, allowed ...enums.Role) (*Session, enums.Role, error) {
	sess, err := sessionFrom(cmd)
	if err != nil {
		return nil, "", err
	}
	role, err := pickRole(sess.Store.Snapshot(), as, allowed...)
	if err != nil {
		return nil, "", err
	}
	if _, err := sess.activate(cmd.Context(), role); err != nil {
		return nil, "", err
	}
	return sess, role, nil
}

func newShiftsCommand() *cobra.Command {
	var flags listFlags
	allowed := []enums.Role{enums.RoleFarmer, enums.RoleVolunteer}

	cmd := &cobra.Command{
		Use:   "shifts",
		Short: "List your farm's shifts, or the open shifts as a volunteer",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, role, err := roleScoped(cmd, flags.as, allowed...)
			if err != nil {
				return err
			}
			var result *shifts.ListResult
			if role == enums.RoleFarmer {
				result, err = sess.Client.FarmShifts(cmd.Context(), flags.page())
			} else {
				result, err = sess.Client.OpenShifts(cmd.Context(), flags.page())
			}
			if err != nil {
				return err
			}
			printShifts(sess.Out, result)
			return nil
		},
	}
	flags.bind(cmd, allowed...)
	return cmd
}

func newDonationsCommand() *cobra.Command {
	var flags listFlags
	allowed := []enums.Role{enums.RoleFarmer, enums.RoleCenter}

	cmd := &cobra.Command{
		Use:   "donations",
		Short: "List your farm's donations, or the pending assignments of your center",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, role, err := roleScoped(cmd, flags.as, allowed...)
			if err != nil {
				return err
			}
			var result *donations.ListResult
			if role == enums.RoleFarmer {
				result, err = sess.Client.FarmDonations(cmd.Context(), flags.page())
			} else {
				result, err = sess.Client.Assignments(cmd.Context(), flags.page())
			}
			if err != nil {
				return err
			}
			printDonations(sess.Out, result)
			return nil
		},
	}
	flags.bind(cmd, allowed...)
	return cmd
}

func newReportsCommand() *cobra.Command {
	var as string
	allowed := []enums.Role{enums.RoleFarmer, enums.RoleCenter}

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Show the donation report of your farm or center",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, role, err := roleScoped(cmd, as, allowed...)
			if err != nil {
				return err
			}
			var report any
			if role == enums.RoleFarmer {
				report, err = sess.Client.FarmReport(cmd.Context())
			} else {
				report, err = sess.Client.CenterReport(cmd.Context())
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(sess.Out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "role to act as ("+joinRoles(allowed)+")")
	return cmd
}

func printShifts(w io.Writer, result *shifts.ListResult) {
	if len(result.Items) == 0 {
		fmt.Fprintln(w, "No shifts")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tFRUIT\tFARM\tSIGNED UP\tSTATUS")
	for _, s := range result.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s-%s\t%s\t%s\t%d/%d\t%s\n",
			s.ID, s.Date, s.StartTime, s.EndTime, s.Fruit, s.FarmName, s.SignedUp, s.VolunteerLimit, s.Status)
	}
	_ = tw.Flush()
	printCursor(w, result.Cursor)
}

func printDonations(w io.Writer, result *donations.ListResult) {
	if len(result.Items) == 0 {
		fmt.Fprintln(w, "No donations")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tFRUIT\tFARM\tPICKED LBS\tDONATED LBS\tSTATUS")
	for _, d := range result.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Date, d.Fruit, d.FarmName, d.AmountPickedLbs.StringFixed(1), d.AmountDonatedLbs.StringFixed(1), d.Status)
	}
	_ = tw.Flush()
	printCursor(w, result.Cursor)
}

func printCursor(w io.Writer, cursor string) {
	if cursor != "" {
		fmt.Fprintf(w, "More results: --cursor %s\n", cursor)
	}
}
