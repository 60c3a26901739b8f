package cli

import (
	"fmt"
	"io"
	"sync"
)

// TerminalRouter is a Router that keeps a route stack and prints every
// redirect.
type TerminalRouter struct {
	mu        sync.Mutex
	stack     []string
	out       io.Writer
	redirects int
}

func NewTerminalRouter(initial string, out io.Writer) *TerminalRouter {
	if out == nil {
		out = io.Discard
	}
	return &TerminalRouter{stack: []string{initial}, out: out}
}

// Replace swaps the top of the stack.
func (r *TerminalRouter) Replace(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	from := r.stack[len(r.stack)-1]
	r.stack[len(r.stack)-1] = path
	r.redirects++
	_, err := fmt.Fprintf(r.out, "-> %s (from %s)\n", path, from)
	return err
}

func (r *TerminalRouter) Push(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stack = append(r.stack, path)
	return nil
}

func (r *TerminalRouter) CurrentRoute() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stack[len(r.stack)-1]
}

// Redirects counts Replace calls.
func (r *TerminalRouter) Redirects() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.redirects
}
