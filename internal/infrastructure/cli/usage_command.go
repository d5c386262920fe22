package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vocusapp/vocus/internal/app"
)

func newUsageCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show today's cloud parsing quota",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			quota := container.Usage.Remaining(cmd.Context())

			if quota.Unlimited {
				fmt.Fprintln(out, "Cloud parsing: unlimited (premium)")
				return nil
			}
			fmt.Fprintf(out, "Cloud parsing today: %d of %d used, %d remaining\n",
				quota.Used, quota.Limit, quota.Remaining)
			if !quota.CanUse {
				fmt.Fprintln(out, "Daily limit reached; commands fall back to local parsing until tomorrow.")
			}
			return nil
		},
	}
}
