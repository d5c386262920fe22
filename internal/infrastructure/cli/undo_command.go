package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vocusapp/vocus/internal/app"
	"github.com/vocusapp/vocus/internal/services"
)

func newUndoCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Reverse the last applied command",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			result, err := container.Commands.Undo(cmd.Context())
			if err != nil {
				return err
			}
			if !result.OK {
				switch result.Reason {
				case services.ReasonNothingToUndo:
					fmt.Fprintln(out, "Nothing to undo.")
				case services.ReasonCannotUndoStop:
					fmt.Fprintln(out, "The last action was a stop; there is nothing to restore.")
				default:
					fmt.Fprintln(out, "Couldn't undo the last action.")
				}
				return nil
			}
			fmt.Fprintln(out, result.Confirmation)
			return nil
		},
	}
}
