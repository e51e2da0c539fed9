package main

import (
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fiscal analysis across entities",
	Long:  "Commands for scoring, comparing, and ranking entities.",
}

var scoreCmd = &cobra.Command{
	Use:   "score <code>",
	Short: "Compute the fiscal health assessment for an entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, closeStore, err := initService(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		return printJSON(svc.HealthScore(ctx, args[0]))
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <code> <code> [code...]",
	Short: "Compare entities side by side",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, closeStore, err := initService(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		return printJSON(svc.CompareEntities(ctx, args))
	},
}

var peersCmd = &cobra.Command{
	Use:   "peers <code>",
	Short: "Find similarly sized entities of the same type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, closeStore, err := initService(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		rangePct, _ := cmd.Flags().GetFloat64("range")
		limit, _ := cmd.Flags().GetInt("limit")

		return printJSON(svc.GetPeers(ctx, args[0], rangePct, limit))
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank <metric>",
	Short: "Rank entities by population, eav, or employees",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, closeStore, err := initService(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		entityType, _ := cmd.Flags().GetString("type")
		county, _ := cmd.Flags().GetString("county")
		order, _ := cmd.Flags().GetString("order")
		limit, _ := cmd.Flags().GetInt("limit")

		return printJSON(svc.RankEntities(ctx, args[0], entityType, county, order, limit))
	},
}

func init() {
	peersCmd.Flags().Float64("range", 0.25, "population range fraction")
	peersCmd.Flags().Int("limit", 10, "maximum peers")

	rankCmd.Flags().String("type", "", "filter by entity type")
	rankCmd.Flags().String("county", "", "filter by county")
	rankCmd.Flags().String("order", "top", "top or bottom")
	rankCmd.Flags().Int("limit", 10, "maximum results")

	analyzeCmd.AddCommand(scoreCmd, compareCmd, peersCmd, rankCmd)
	rootCmd.AddCommand(analyzeCmd)
}
