package commands

import (
	"fmt"
	"strconv"

	"github.com/jrsteele09/go-events-client/categories"
	"github.com/jrsteele09/go-events-client/events"
	"github.com/jrsteele09/go-events-client/internal/paging"
	"github.com/spf13/cobra"
)

func newEventsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Browse events",
	}

	var p paging.Params
	pageFlags := func(c *cobra.Command) {
		c.Flags().IntVar(&p.PageNum, "page", 0, "page number, starting at 0")
		c.Flags().IntVar(&p.PageSize, "size", paging.DefaultPageSize, "page size")
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List events",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := events.NewStore(events.NewService(a.client), events.WithStoreLogger(a.logger))
			if err := st.Load(cmd.Context(), p); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), st.Page())
		},
	}
	pageFlags(list)

	search := &cobra.Command{
		Use:   "search <title>",
		Short: "Search events by title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := events.NewService(a.client).SearchByTitle(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		},
	}
	pageFlags(search)

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid event id %q", args[0])
			}
			e, err := events.NewService(a.client).Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), e)
		},
	}

	cmd.AddCommand(list, search, get)
	return cmd
}

func newCategoriesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Browse categories",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := categories.NewService(a.client).List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	})
	return cmd
}
