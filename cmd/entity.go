package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/prairiedata/fiscal-cli/internal/model"
	"github.com/prairiedata/fiscal-cli/internal/service"
)

var entityCmd = &cobra.Command{
	Use:   "entity",
	Short: "Inspect a single entity",
	Long:  "Commands for viewing one entity's profile and financial detail by code, e.g. 016/020/30.",
}

// entityOp builds the common show-one-thing-for-a-code command shape.
func entityOp(use, short string, fn func(ctx context.Context, svc *service.Service, code string) model.Response) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <code>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, closeStore, err := initService(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			return printJSON(fn(ctx, svc, args[0]))
		},
	}
}

func init() {
	entityCmd.AddCommand(
		entityOp("show", "Show the full entity record", func(ctx context.Context, svc *service.Service, code string) model.Response {
			return svc.GetEntity(ctx, code)
		}),
		entityOp("revenues", "Show revenue by category", func(ctx context.Context, svc *service.Service, code string) model.Response {
			return svc.GetRevenues(ctx, code)
		}),
		entityOp("expenditures", "Show expenditure by category", func(ctx context.Context, svc *service.Service, code string) model.Response {
			return svc.GetExpenditures(ctx, code)
		}),
		entityOp("fund-balances", "Show fund balances by classification", func(ctx context.Context, svc *service.Service, code string) model.Response {
			return svc.GetFundBalances(ctx, code)
		}),
		entityOp("debt", "Show debt by instrument", func(ctx context.Context, svc *service.Service, code string) model.Response {
			return svc.GetDebt(ctx, code)
		}),
		entityOp("pensions", "Show reported pension systems", func(ctx context.Context, svc *service.Service, code string) model.Response {
			return svc.GetPensions(ctx, code)
		}),
	)
	rootCmd.AddCommand(entityCmd)
}
