package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vocusapp/vocus/internal/app"
	"github.com/vocusapp/vocus/internal/clarify"
	"github.com/vocusapp/vocus/internal/domain"
	"github.com/vocusapp/vocus/internal/services"
)

// maxClarificationRounds bounds the slot-filling dialog so a misheard
// answer cannot loop forever.
const maxClarificationRounds = 3

type sayOptions struct {
	autoYes  bool
	planOnly bool
}

func newSayCommand(container *app.Container) *cobra.Command {
	var opts sayOptions

	cmd := &cobra.Command{
		Use:   "say [utterance]",
		Short: "Run a natural-language command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompter := NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			text := strings.Join(args, " ")
			return runUtterance(cmd.Context(), container, prompter, cmd.OutOrStdout(), text, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.autoYes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&opts.planOnly, "plan-only", false, "Show what would happen without applying")

	return cmd
}

// runUtterance drives one utterance through the full pipeline: parse,
// guidance, clarification, confirmation, apply, grace window.
func runUtterance(ctx context.Context, container *app.Container, prompter *Prompter, out io.Writer, text string, opts sayOptions) error {
	svc := container.Commands

	intent, err := svc.ParseIntentHybrid(ctx, text, true)
	if err != nil {
		return err
	}
	if intent == nil {
		renderUnparseable(out)
		return nil
	}

	if ci, ok := intent.(domain.ClassificationIntent); ok {
		renderGuidance(out, svc.Guidance(ctx, ci.Classification, text))
		return nil
	}

	intent, done, err := clarifyLoop(ctx, svc, prompter, out, intent)
	if err != nil || !done {
		return err
	}

	result, err := svc.Execute(ctx, intent, true)
	if err != nil {
		return err
	}
	if !result.OK {
		renderFailure(ctx, out, container, result, intent)
		return nil
	}

	if opts.planOnly {
		fmt.Fprintf(out, "Would do: %s\n", result.Confirmation)
		return nil
	}

	if result.PendingConfirmation && !opts.autoYes && container.Config.Execution.ConfirmBeforeApply {
		yes, err := prompter.Confirm(result.Confirmation)
		if err != nil {
			return err
		}
		if !yes {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	applied, err := svc.Execute(ctx, intent, false)
	if err != nil {
		return err
	}
	if !applied.OK {
		renderFailure(ctx, out, container, applied, intent)
		return nil
	}
	fmt.Fprintln(out, applied.Confirmation)

	return waitOutGrace(ctx, container, prompter, out)
}

// clarifyLoop fills missing slots interactively. Returns the completed
// intent, or done=false when the dialog was exhausted without an answer.
func clarifyLoop(ctx context.Context, svc *services.CommandService, prompter *Prompter, out io.Writer, intent domain.Intent) (domain.Intent, bool, error) {
	for round := 0; round < maxClarificationRounds; round++ {
		req, err := svc.NeedsClarification(ctx, intent)
		if err != nil {
			return intent, false, err
		}
		if req == nil {
			return intent, true, nil
		}

		answer, err := prompter.Ask(req.Question, req.Suggestions)
		if err != nil {
			return intent, false, err
		}
		if answer == "" {
			fmt.Fprintln(out, "Cancelled.")
			return intent, false, nil
		}

		filled, ok := clarify.Fill(intent, req.Missing, answer, time.Now())
		if !ok {
			fmt.Fprintln(out, "Sorry, I didn't understand that.")
			continue
		}
		intent = filled
	}

	if req, _ := svc.NeedsClarification(ctx, intent); req != nil {
		fmt.Fprintln(out, "Let's start over. Try stating the full command in one sentence.")
		return intent, false, nil
	}
	return intent, true, nil
}

// waitOutGrace keeps the process alive through the grace window so the
// deferred apply can fire, and offers a last-chance undo while it waits.
func waitOutGrace(ctx context.Context, container *app.Container, prompter *Prompter, out io.Writer) error {
	grace := container.Commands.Grace
	if grace.Delay <= 0 || !grace.Pending() {
		return nil
	}

	if prompter.WaitForUndo(grace.Delay) {
		result, err := container.Commands.Undo(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result.Confirmation)
		return nil
	}

	// Timer and prompt race at the window boundary; flush is a no-op when
	// the apply already ran.
	grace.Flush()
	return nil
}

func renderUnparseable(out io.Writer) {
	fmt.Fprintln(out, "Sorry, I couldn't work out what to do with that.")
	fmt.Fprintln(out, "Try something like: vocus \"Block instagram for 30 minutes\"")
}

func renderGuidance(out io.Writer, g *clarify.Guidance) {
	if g == nil {
		return
	}
	fmt.Fprintln(out, g.Message)
	for _, s := range g.Suggestions {
		fmt.Fprintf(out, "  - %s\n", s)
	}
}

func renderFailure(ctx context.Context, out io.Writer, container *app.Container, result domain.ExecutionResult, intent domain.Intent) {
	switch {
	case result.NeedsPermission:
		fmt.Fprintln(out, "Notification permission is required for reminders. Enable it in your system settings and retry.")
	case result.Reason == domain.ReasonAliasNotFound:
		target := ""
		if bi, ok := intent.(domain.BlockIntent); ok {
			target = bi.Target
		}
		fmt.Fprintf(out, "I don't know %q yet.\n", target)
		names, err := container.Aliases.Names(ctx)
		if err == nil && len(names) > 0 {
			fmt.Fprintln(out, "Did you mean:")
			for _, name := range clarify.RankAliases(target, names) {
				fmt.Fprintf(out, "  - %s\n", name)
			}
		}
		fmt.Fprintln(out, "Add it with: vocus alias add <name> <resource>")
	case result.Reason == services.ReasonUnparseable:
		renderUnparseable(out)
	case result.Reason != "":
		fmt.Fprintf(out, "Couldn't do that: %s\n", result.Reason)
	default:
		fmt.Fprintln(out, "Couldn't do that.")
	}
}
