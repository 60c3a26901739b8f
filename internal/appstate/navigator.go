package appstate

import (
	"context"
	"fmt"
	"sync"

	"github.com/fruitnut/fruitnut-backend/pkg/logger"
	"github.com/fruitnut/fruitnut-backend/pkg/navigation"
)

// Navigator applies guard decisions to a Router whenever the store changes.
type Navigator struct {
	store  *Store
	router Router
	logg   *logger.Logger
	fatal  func(error)

	mu   sync.Mutex
	last navigation.Decision
}

// NavigatorOption customises a Navigator.
type NavigatorOption func(*Navigator)

// WithFatalHandler replaces the default panic on router failures.
func WithFatalHandler(fn func(error)) NavigatorOption {
	return func(n *Navigator) { n.fatal = fn }
}

// NewNavigator builds a navigator over store and router.
func NewNavigator(store *Store, router Router, logg *logger.Logger, opts ...NavigatorOption) *Navigator {
	if logg == nil {
		logg = logger.Nop()
	}
	n := &Navigator{
		store:  store,
		router: router,
		logg:   logg,
		fatal:  func(err error) { panic(err) },
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Start evaluates the current state once and then on every snapshot.
func (n *Navigator) Start() (stop func()) {
	unsubscribe := n.store.Subscribe(func(snap Snapshot) {
		if _, err := n.Evaluate(snap); err != nil {
			n.fatal(err)
		}
	})
	if _, err := n.Evaluate(n.store.Snapshot()); err != nil {
		n.fatal(err)
	}
	return unsubscribe
}

// Evaluate decides against the router's current route and replaces the
// route when the guard asks for a redirect.
func (n *Navigator) Evaluate(snap Snapshot) (navigation.Decision, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	route := n.router.CurrentRoute()
	decision := snap.Decide(route)
	n.last = decision

	if !decision.Redirect {
		return decision, nil
	}

	ctx := n.logg.WithFields(context.Background(), map[string]any{
		"state": string(decision.State),
		"from":  route,
		"to":    decision.Target,
	})
	n.logg.Debug(ctx, "navigation redirect")
	if err := n.router.Replace(decision.Target); err != nil {
		return decision, fmt.Errorf("replace route %q: %w", decision.Target, err)
	}
	return decision, nil
}

// Last returns the most recent decision.
func (n *Navigator) Last() navigation.Decision {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}
