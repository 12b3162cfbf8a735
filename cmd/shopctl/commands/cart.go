package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/imrishuroy/go-storefront/internal/cart"
)

var reconcileUser string

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect and repair carts",
}

var cartReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Drop a user's line items whose product no longer exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		return runReconcile(cmd.Context(), a.Carts, a.Orphans, reconcileUser, cmd.OutOrStdout())
	},
}

func init() {
	cartReconcileCmd.Flags().StringVar(&reconcileUser, "user", "", "User (subject) id")
	_ = cartReconcileCmd.MarkFlagRequired("user")

	cartCmd.AddCommand(cartReconcileCmd)
	rootCmd.AddCommand(cartCmd)
}

type cartReader interface {
	FindByUser(ctx context.Context, userID string) (*cart.Cart, error)
}

type orphanRemover interface {
	Remove(ctx context.Context, msg cart.ReconcileMessage) (int, error)
}

func runReconcile(ctx context.Context, carts cartReader, remover orphanRemover, userID string, out io.Writer) error {
	c, err := carts.FindByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("find cart: %w", err)
	}
	removed := 0
	if c != nil {
		removed, err = remover.Remove(ctx, cart.ReconcileMessage{UserID: userID, ProductIDs: c.ProductIDs()})
		if err != nil {
			return err
		}
	}
	if jsonOutput {
		return json.NewEncoder(out).Encode(map[string]any{"user_id": userID, "removed": removed})
	}
	fmt.Fprintf(out, "user %s: removed %d orphaned line item(s)\n", userID, removed)
	return nil
}
