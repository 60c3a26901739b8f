package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readSecrets prompts on w for each value and reads it without echo when in
// is a terminal. Piped input is read one line per prompt.
func readSecrets(in *os.File, w io.Writer, prompts ...string) ([]string, error) {
	fd := int(in.Fd())
	interactive := term.IsTerminal(fd)
	reader := bufio.NewReader(in)

	out := make([]string, 0, len(prompts))
	for _, prompt := range prompts {
		fmt.Fprint(w, prompt)
		if interactive {
			raw, err := term.ReadPassword(fd)
			fmt.Fprintln(w)
			if err != nil {
				return nil, fmt.Errorf("failed to read password: %w", err)
			}
			out = append(out, string(raw))
			continue
		}
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		out = append(out, strings.TrimRight(line, "\r\n"))
	}
	return out, nil
}
