package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search entities by name or county",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, closeStore, err := initService(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		limit, _ := cmd.Flags().GetInt("limit")
		term := strings.Join(args, " ")

		return printJSON(svc.SearchEntities(ctx, term, limit))
	},
}

func init() {
	searchCmd.Flags().Int("limit", 10, "maximum results")
	rootCmd.AddCommand(searchCmd)
}
