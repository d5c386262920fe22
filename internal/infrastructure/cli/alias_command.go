package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vocusapp/vocus/internal/app"
)

func newAliasCommand(container *app.Container) *cobra.Command {
	aliasCmd := &cobra.Command{
		Use:   "alias",
		Short: "Manage blocking-target aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listAliases(cmd, container)
		},
	}

	aliasCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List known aliases",
			RunE: func(cmd *cobra.Command, args []string) error {
				return listAliases(cmd, container)
			},
		},
		&cobra.Command{
			Use:   "add <name> <resource>",
			Short: "Register an alias for a blockable resource",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := container.Aliases.Add(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q -> %s\n", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Remove an alias",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := container.Aliases.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", args[0])
				return nil
			},
		},
	)

	return aliasCmd
}

func listAliases(cmd *cobra.Command, container *app.Container) error {
	out := cmd.OutOrStdout()
	names, err := container.Aliases.Names(cmd.Context())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(out, "No aliases yet. Add one with: vocus alias add <name> <resource>")
		return nil
	}
	for _, name := range names {
		resource, ok, err := container.Aliases.Lookup(cmd.Context(), name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%s -> %s\n", name, resource)
	}
	return nil
}
