package commands

import (
	"github.com/jrsteele09/go-events-client/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the evclient command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	var a *app

	rootCmd := &cobra.Command{
		Use:           "evclient",
		Short:         "Command line client for the events backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}
			built, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			*a = *built
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			displayAppname(cmd.OutOrStdout(), config.New().GetAppName())
			return cmd.Help()
		},
	}
	a = &app{}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file path (YAML)")
	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "backend API root, overrides api.base_url")

	rootCmd.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newEventsCommand(a),
		newCategoriesCommand(a),
		newGuardCommand(a),
	)
	return rootCmd
}

// skipsApp reports whether cmd runs without config, storage or a client.
func skipsApp(cmd *cobra.Command) bool {
	if !cmd.HasParent() || cmd.Name() == "help" {
		return true
	}
	return cmd.Parent().Name() == "completion"
}
