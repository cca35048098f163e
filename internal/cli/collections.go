package cli

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/example/ec-storefront/internal/domain/catalog"
)

// lookup resolves a product id against the catalog cache.
func (a *App) lookup(ctx context.Context, arg string) (catalog.Product, error) {
	id, err := parseID(arg)
	if err != nil {
		return catalog.Product{}, err
	}
	p, ok := a.manager.Product(ctx, id)
	if !ok {
		return catalog.Product{}, errors.Wrapf(ErrNotFound, "product %d", id)
	}
	return p, nil
}

// reportSync surfaces a remote failure the manager swallowed.
func (a *App) reportSync() {
	if err := a.manager.LastSyncError(); err != nil {
		a.printf("warning: not synchronized with the service: %v\n", err)
	}
}

func (a *App) printCart() {
	for _, l := range a.manager.Cart() {
		a.printf("%d\t%s\tx%d\t%d\n", l.ID, l.Product.Title, l.Quantity, l.Subtotal())
	}
	a.printf("items: %d\ttotal: %d\n", a.manager.CartItemCount(), a.manager.CartTotal())
	if a.manager.CartDiverged() {
		a.printf("local edits not on the service; run `cart sync` to discard them\n")
	}
}

func (a *App) cartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			a.printCart()
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <productId> [quantity]",
			Short: "Add a product",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				p, err := a.lookup(ctx, args[0])
				if err != nil {
					return err
				}
				quantity := 1
				if len(args) == 2 {
					if quantity, err = strconv.Atoi(args[1]); err != nil {
						return errors.Errorf("invalid quantity %q", args[1])
					}
				}
				if err := a.manager.AddToCart(ctx, p, quantity); err != nil {
					return err
				}
				a.reportSync()
				a.printCart()
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <lineId>",
			Short: "Remove a cart line",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				a.manager.RemoveFromCart(cmd.Context(), id)
				a.printCart()
				return nil
			},
		},
		&cobra.Command{
			Use:   "update <lineId> <quantity>",
			Short: "Set a line quantity; zero removes it",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				quantity, err := strconv.Atoi(args[1])
				if err != nil {
					return errors.Errorf("invalid quantity %q", args[1])
				}
				a.manager.UpdateCartQuantity(cmd.Context(), id, quantity)
				a.printCart()
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a.manager.ClearCart(cmd.Context())
				a.printCart()
				return nil
			},
		},
		&cobra.Command{
			Use:   "sync",
			Short: "Reload cart and wishlist from the service",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := a.manager.Reconcile(cmd.Context()); err != nil {
					return err
				}
				a.printCart()
				return nil
			},
		},
	)
	return cmd
}

func (a *App) printWishlist() {
	for _, e := range a.manager.Wishlist() {
		a.printf("%d\t%s\t%d\n", e.ID, e.Product.Title, e.Product.Price)
	}
}

func (a *App) wishlistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show the wishlist",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			a.printWishlist()
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <productId>",
			Short: "Save a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				p, err := a.lookup(ctx, args[0])
				if err != nil {
					return err
				}
				if err := a.manager.AddToWishlist(ctx, p); err != nil {
					return err
				}
				a.reportSync()
				a.printWishlist()
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <entryId>",
			Short: "Remove a wishlist entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				a.manager.RemoveFromWishlist(cmd.Context(), id)
				a.printWishlist()
				return nil
			},
		},
		&cobra.Command{
			Use:   "has <productId>",
			Short: "Report whether a product is saved",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				a.printf("%t\n", a.manager.IsInWishlist(id))
				return nil
			},
		},
	)
	return cmd
}
