package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vocusapp/vocus/internal/app"
	"github.com/vocusapp/vocus/internal/clarify"
	"github.com/vocusapp/vocus/internal/domain"
	"github.com/vocusapp/vocus/internal/infrastructure/speech"
	"github.com/vocusapp/vocus/internal/services"
)

func newListenCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Process utterances continuously from stdin",
		Long:  "Reads transcripts line by line (a trailing \"...\" marks an interim result) and runs each settled utterance through the pipeline. Ctrl-C or EOF stops the session.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			handler := &listenHandler{container: container, out: out}

			session := &services.VoiceSession{
				Source:   &speech.StdinSource{Reader: cmd.InOrStdin()},
				Handle:   handler.handle,
				Logger:   container.Logger,
				Debounce: time.Duration(container.Config.Voice.DebounceMS) * time.Millisecond,
				Watchdog: time.Duration(container.Config.Voice.WatchdogMS) * time.Millisecond,
			}

			fmt.Fprintln(out, "Listening. Say a command, or \"undo\" to reverse the last one.")
			err := session.Run(cmd.Context())
			if err == io.EOF || err == context.Canceled {
				return nil
			}
			return err
		},
	}
}

// listenHandler carries the clarification state between utterances: when a
// slot is missing, the next utterance is first tried as the answer.
type listenHandler struct {
	container *app.Container
	out       io.Writer

	pendingIntent  domain.Intent
	pendingMissing string
}

func (h *listenHandler) handle(ctx context.Context, text string) {
	svc := h.container.Commands
	fmt.Fprintf(h.out, "\n> %s\n", text)

	if text == "undo" || text == "cancel" {
		h.clearPending()
		result, err := svc.Undo(ctx)
		if err != nil {
			fmt.Fprintf(h.out, "Undo failed: %v\n", err)
			return
		}
		if !result.OK {
			fmt.Fprintln(h.out, "Nothing to undo.")
			return
		}
		fmt.Fprintln(h.out, result.Confirmation)
		return
	}

	intent := h.resumePending(text)
	if intent == nil {
		// Spoken commands never get a silent default duration; a missing
		// one must come back as a clarification question.
		parsed, err := svc.ParseIntentHybrid(ctx, text, false)
		if err != nil {
			fmt.Fprintf(h.out, "Error: %v\n", err)
			return
		}
		if parsed == nil {
			renderUnparseable(h.out)
			return
		}
		if ci, ok := parsed.(domain.ClassificationIntent); ok {
			renderGuidance(h.out, svc.Guidance(ctx, ci.Classification, text))
			return
		}
		intent = parsed
	}

	req, err := svc.NeedsClarification(ctx, intent)
	if err != nil {
		fmt.Fprintf(h.out, "Error: %v\n", err)
		return
	}
	if req != nil {
		h.pendingIntent = intent
		h.pendingMissing = req.Missing
		fmt.Fprintln(h.out, req.Question)
		for _, s := range req.Suggestions {
			fmt.Fprintf(h.out, "  - %s\n", s)
		}
		return
	}
	h.clearPending()

	// Hands-free mode applies without a confirmation prompt; the grace
	// window is the safety net, with "undo" as the next utterance.
	result, err := svc.Execute(ctx, intent, false)
	if err != nil {
		fmt.Fprintf(h.out, "Error: %v\n", err)
		return
	}
	if !result.OK {
		renderFailure(ctx, h.out, h.container, result, intent)
		return
	}
	fmt.Fprintln(h.out, result.Confirmation)
}

// resumePending tries the utterance as the answer to an open clarification.
// Returns nil when there is no pending question or the answer did not fit,
// in which case the utterance is treated as a fresh command.
func (h *listenHandler) resumePending(text string) domain.Intent {
	if h.pendingIntent == nil {
		return nil
	}
	filled, ok := clarify.Fill(h.pendingIntent, h.pendingMissing, text, time.Now())
	if !ok {
		return nil
	}
	return filled
}

func (h *listenHandler) clearPending() {
	h.pendingIntent = nil
	h.pendingMissing = ""
}
