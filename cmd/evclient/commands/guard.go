package commands

import (
	"fmt"

	"github.com/jrsteele09/go-events-client/guard"
	"github.com/spf13/cobra"
)

func newGuardCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guard",
		Short: "Inspect view access for the current session",
	}

	var notFound bool
	check := &cobra.Command{
		Use:   "check <path>",
		Short: "Decide whether the current session may open a view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []guard.Option{guard.WithLogger(a.logger)}
			if notFound {
				opts = append(opts, guard.WithUnknownAsNotFound())
			}
			d := guard.Default(opts...).Evaluate(args[0], a.session)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", d.Kind, d.Location())
			return nil
		},
	}
	check.Flags().BoolVar(&notFound, "not-found", false, "send unknown paths to the not-found view")

	cmd.AddCommand(check)
	return cmd
}
