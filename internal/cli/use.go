package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	"github.com/fruitnut/fruitnut-backend/pkg/navigation"
)

func newUseCommand() *cobra.Command {
	var route string

	cmd := &cobra.Command{
		Use:   "use <farmer|volunteer|center|none>",
		Short: "Switch the active role and show where the app lands",
		Long: `Select one of your profiles as the active role. "none" returns to the role picker.
The selection lasts for this command only; the session file never stores it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			if sess.Store.Snapshot().Identity == nil {
				return fmt.Errorf("not signed in, run `fruitnut login`")
			}

			arg := strings.ToLower(strings.TrimSpace(args[0]))
			if arg == "none" {
				if err := sess.Store.Select(cmd.Context(), nil); err != nil {
					return err
				}
				fmt.Fprintln(sess.Out, "No active role")
			} else {
				role, err := enums.ParseRole(arg)
				if err != nil {
					return err
				}
				profile, err := sess.activate(cmd.Context(), role)
				if err != nil {
					return err
				}
				fmt.Fprintf(sess.Out, "Active role: %s (%s)\n", profile.Role, profile.ID)
			}

			decision, err := sess.navigate(route)
			if err != nil {
				return err
			}
			printDecision(sess.Out, navigation.Normalize(route), decision)
			return nil
		},
	}
	cmd.Flags().StringVar(&route, "route", navigation.RolePickerRoute, "route to open after switching")
	return cmd
}
