package main

import (
	"github.com/spf13/cobra"
)

var countyCmd = &cobra.Command{
	Use:   "county",
	Short: "County-level views",
}

var countyEntitiesCmd = &cobra.Command{
	Use:   "entities <county>",
	Short: "List the entities of a county",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, closeStore, err := initService(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		entityType, _ := cmd.Flags().GetString("type")

		return printJSON(svc.GetCountyEntities(ctx, args[0], entityType))
	},
}

var countySummaryCmd = &cobra.Command{
	Use:   "summary <county>",
	Short: "Aggregate statistics for a county",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, closeStore, err := initService(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		return printJSON(svc.GetCountySummary(ctx, args[0]))
	},
}

func init() {
	countyEntitiesCmd.Flags().String("type", "", "filter by entity type")
	countyCmd.AddCommand(countyEntitiesCmd, countySummaryCmd)
	rootCmd.AddCommand(countyCmd)
}
