package main

import (
	"fmt"

	"github.com/fekuna/omnipos-storefront-service/internal/notification/dto"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newReindexCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Copy every product into the Elasticsearch product index",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.ProductUC.ReindexProducts(cmd.Context())
			if err != nil {
				rt.logger.Error("reindex failed", zap.Int("indexed", n), zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d products\n", n)
			return nil
		},
	}
}

func newReconcileCmd(rt *cliEnv) *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run one notification reconciliation sweep and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var res *dto.ReconcileResult
			if productID != "" {
				res, err = a.NotificationUC.ReconcileProduct(cmd.Context(), productID)
			} else {
				res, err = a.NotificationUC.ReconcileAll(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked %d, flipped %d, failed %d, skipped %d\n",
				res.Checked, res.Flipped, res.Failed, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&productID, "product", "", "only reconcile notifications for this product id")
	return cmd
}
