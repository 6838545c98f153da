package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"sprintpulse/internal/core"
)

// errCancelled is returned by confirm when the user declines.
var errCancelled = errors.New("cancelled")

// commit shows the action's prompt, collects confirmation or input, and
// applies the action. A declined prompt is not an error.
func (a *app) commit(ctx context.Context, cmd *cobra.Command, store *core.Store, action core.PendingAction) error {
	input, err := a.confirm(cmd.OutOrStdout(), action.Prompt())
	if errors.Is(err, errCancelled) {
		fmt.Fprintln(cmd.OutOrStdout(), styleMuted.Render("Cancelled."))
		return nil
	}
	if err != nil {
		return err
	}
	return store.Commit(ctx, action, input)
}

func (a *app) confirm(out io.Writer, p core.Prompt) (string, error) {
	fmt.Fprintln(out, styleH2.Render(p.Title))
	if p.Body != "" {
		fmt.Fprintln(out, p.Body)
	}
	if p.NeedsInput {
		if p.Placeholder != "" {
			fmt.Fprint(out, styleMuted.Render("("+p.Placeholder+") "))
		}
		fmt.Fprint(out, "> ")
		line, err := a.readLine()
		if err != nil {
			return "", err
		}
		if line == "" {
			return "", errCancelled
		}
		return line, nil
	}
	if a.yes {
		return "", nil
	}
	fmt.Fprintf(out, "%s [y/N] ", p.ConfirmLabel)
	line, err := a.readLine()
	if err != nil {
		return "", err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return "", nil
	default:
		return "", errCancelled
	}
}

// readLine reads one trimmed line. End of input counts as an empty answer.
func (a *app) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
