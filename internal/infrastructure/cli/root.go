package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vocusapp/vocus/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	sayCmd := newSayCommand(container)

	root := &cobra.Command{
		Use:   "vocus [utterance]",
		Short: "Vocus - voice command assistant",
		Long:  "Vocus understands natural-language commands for focus blocking and reminders, with clarification dialogs and undo.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			sayCmd.SetArgs(args)
			return sayCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(sayCmd)
	root.AddCommand(newListenCommand(container))
	root.AddCommand(newUndoCommand(container))
	root.AddCommand(newUsageCommand(container))
	root.AddCommand(newAliasCommand(container))
	root.AddCommand(newConfigCommand(container))
	root.AddCommand(newDoctorCommand(container))

	cobra.OnFinalize(func() {
		container.Close()
	})
	return root, nil
}
