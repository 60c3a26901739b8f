package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fruitnut/fruitnut-backend/internal/appstate"
	"github.com/fruitnut/fruitnut-backend/pkg/navigation"
)

func newSignUpCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Example: `  fruitnut signup --email grower@example.com
  printf 'secret1\nsecret1\n' | fruitnut signup --email grower@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			confirm := password
			if password == "" {
				values, err := readSecrets(os.Stdin, cmd.ErrOrStderr(), "Password: ", "Confirm password: ")
				if err != nil {
					return err
				}
				password, confirm = values[0], values[1]
			}

			identity, err := sess.Store.SignUp(cmd.Context(), strings.TrimSpace(email), password, confirm)
			if err != nil {
				return err
			}
			fmt.Fprintf(sess.Out, "Signed up as %s\n", identity.Email)
			_, err = sess.navigate("")
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			if password == "" {
				values, err := readSecrets(os.Stdin, cmd.ErrOrStderr(), "Password: ")
				if err != nil {
					return err
				}
				password = values[0]
			}

			identity, err := sess.Store.SignIn(cmd.Context(), strings.TrimSpace(email), password)
			if err != nil {
				return err
			}
			fmt.Fprintf(sess.Out, "Signed in as %s\n", identity.Email)
			printProfiles(sess.Out, sess.Store.Snapshot())
			_, err = sess.navigate("")
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			if sess.Store.Snapshot().Identity == nil {
				fmt.Fprintln(sess.Out, "Not signed in")
				return nil
			}
			if err := sess.Store.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(sess.Out, "Signed out")
			_, err = sess.navigate("")
			return err
		},
	}
}

func newStatusCommand() *cobra.Command {
	var route string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the session, profiles and where the app would open",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			snap := sess.Store.Snapshot()
			if snap.Identity == nil {
				fmt.Fprintln(sess.Out, "Not signed in")
			} else {
				fmt.Fprintf(sess.Out, "Signed in as %s (%s)\n", snap.Identity.Email, snap.Identity.ID)
				printProfiles(sess.Out, snap)
			}
			printDecision(sess.Out, navigation.Normalize(route), snap.Decide(navigation.Normalize(route)))
			return nil
		},
	}
	cmd.Flags().StringVar(&route, "route", navigation.RolePickerRoute, "route to evaluate")
	return cmd
}

func printProfiles(w io.Writer, snap appstate.Snapshot) {
	switch snap.ProfilesStatus {
	case appstate.LoadFailed:
		fmt.Fprintf(w, "Profiles unavailable: %v\n", snap.ProfilesErr)
		if len(snap.Profiles) == 0 {
			return
		}
	case appstate.LoadLoaded:
	default:
		fmt.Fprintln(w, "Profiles loading")
		return
	}
	if len(snap.Profiles) == 0 {
		fmt.Fprintln(w, "No profiles yet, run `fruitnut setup`")
		return
	}
	for _, p := range snap.Profiles {
		marker := " "
		if snap.Active != nil && snap.Active.ID == p.ID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-9s %s\n", marker, p.Role, p.ID)
	}
}

func printDecision(w io.Writer, route string, d navigation.Decision) {
	fmt.Fprintf(w, "Route %s: %s", route, d.State)
	if d.Role != "" {
		fmt.Fprintf(w, " (%s)", d.Role)
	}
	if d.Redirect {
		fmt.Fprintf(w, ", redirect to %s", d.Target)
	}
	fmt.Fprintln(w)
}
