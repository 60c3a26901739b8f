// Package cli is the terminal front end of the client core.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fruitnut/fruitnut-backend/internal/appstate"
	"github.com/fruitnut/fruitnut-backend/internal/client"
	"github.com/fruitnut/fruitnut-backend/pkg/logger"
	"github.com/fruitnut/fruitnut-backend/pkg/navigation"
)

type contextKey string

const cliContextKey contextKey = "cliContext"

// Session holds the client core wired for one command run.
type Session struct {
	Client    *client.Client
	Store     *appstate.Store
	Router    *TerminalRouter
	Navigator *appstate.Navigator
	Logger    *logger.Logger
	Out       io.Writer

	stopNavigator func()
}

// Close stops the navigator and releases the store subscription.
func (s *Session) Close() {
	if s == nil {
		return
	}
	if s.stopNavigator != nil {
		s.stopNavigator()
	}
	if s.Store != nil {
		s.Store.Close()
	}
}

var (
	apiURL      string
	sessionFile string
	logLevel    string
)

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var sess *Session

	rootCmd := &cobra.Command{
		Use:           "fruitnut",
		Short:         "FruitNut from the terminal",
		Long:          `Sign in, set up roles, switch the active role and browse shifts, donations and reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := client.LoadConfig()
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.BaseURL = apiURL
			}
			if sessionFile != "" {
				cfg.SessionFile = sessionFile
			}

			logg := logger.New(logger.Options{
				ServiceName: "fruitnut-cli",
				Level:       logger.ParseLevel(logLevel),
				Format:      "console",
				Output:      cmd.ErrOrStderr(),
			})

			c, err := client.NewFromConfig(cfg, client.WithLogger(logg))
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			sess, err = NewSession(cmd.Context(), c, logg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey, sess))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			sess.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides FRUITNUT_API_URL)")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session-file", "", "session file path (overrides FRUITNUT_SESSION_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newSignUpCommand(),
		newLoginCommand(),
		newLogoutCommand(),
		newStatusCommand(),
		newSetupCommand(),
		newUseCommand(),
		newShiftsCommand(),
		newDonationsCommand(),
		newReportsCommand(),
	)
	return rootCmd
}

// NewSession wires a store and navigator over c and restores any saved
// session. The router starts on the role picker and follows every state
// change from then on, including provider-raised sign-outs.
func NewSession(ctx context.Context, c *client.Client, logg *logger.Logger, out io.Writer) (*Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := appstate.NewStore(appstate.StoreParams{Auth: c, Profiles: c, Logger: logg})
	if err != nil {
		return nil, err
	}
	router := NewTerminalRouter(navigation.RolePickerRoute, out)
	nav := appstate.NewNavigator(store, router, logg, appstate.WithFatalHandler(func(err error) {
		logg.Error(ctx, "navigation failed", err)
	}))

	if err := store.Bootstrap(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return &Session{
		Client:        c,
		Store:         store,
		Router:        router,
		Navigator:     nav,
		Logger:        logg,
		Out:           out,
		stopNavigator: nav.Start(),
	}, nil
}

func sessionFrom(cmd *cobra.Command) (*Session, error) {
	if cmd.Context() == nil {
		return nil, errors.New("command context missing")
	}
	sess, ok := cmd.Context().Value(cliContextKey).(*Session)
	if !ok || sess == nil {
		return nil, errors.New("session not initialised")
	}
	return sess, nil
}

// navigate moves the router to route and lets the guard redirect from there.
func (s *Session) navigate(route string) (navigation.Decision, error) {
	if route != "" {
		if err := s.Router.Push(navigation.Normalize(route)); err != nil {
			return navigation.Decision{}, err
		}
	}
	return s.Navigator.Evaluate(s.Store.Snapshot())
}
