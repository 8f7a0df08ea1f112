package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// errNoTerminal is returned when a token is needed but stdin cannot prompt.
var errNoTerminal = errors.New("no GitHub token: set GITHUB_TOKEN or pass --token")

// tokenPrompt reads a token from the terminal without echo.
func tokenPrompt(out io.Writer) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", errNoTerminal
		}
		fmt.Fprint(out, "GitHub token: ")
		token, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		return string(token), nil
	}
}
