package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/example/ec-storefront/internal/client"
	"github.com/example/ec-storefront/internal/domain/catalog"
)

var ErrNotFound = errors.New("not found")

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	a.printf("%s\n", b)
	return nil
}

func (a *App) printProducts(products []catalog.Product) {
	for _, p := range products {
		a.printf("%d\t%s\t%s\t%d\t%d likes\n", p.ID, p.Title, p.Category, p.Price, p.Likes)
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// ============================================
// Catalog
// ============================================

func (a *App) productsCommand() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var products []catalog.Product
			if category != "" {
				products = a.manager.ProductsByCategory(ctx, category)
			} else {
				products = a.manager.Products(ctx)
			}
			if err := a.manager.CatalogErr(); err != nil && len(products) == 0 {
				return errors.Wrap(err, "load catalog")
			}
			a.printProducts(products)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only this category")
	return cmd
}

func (a *App) productCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, ok := a.manager.Product(cmd.Context(), id)
			if !ok {
				return errors.Wrapf(ErrNotFound, "product %d", id)
			}
			return a.printJSON(p)
		},
	}
}

func (a *App) searchCommand() *cobra.Command {
	var remote bool
	var filter client.FilterParams
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")
			if !remote {
				a.printProducts(a.manager.Search(ctx, query))
				return nil
			}
			filter.Query = query
			products, err := a.remote.Filter(ctx, filter)
			if err != nil {
				return err
			}
			if err := a.remote.AddRecentSearch(ctx, query); err != nil {
				a.logger.WithError(err).Debug("remember search remotely")
			}
			a.printProducts(products)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "use the service filter endpoint")
	cmd.Flags().StringVar(&filter.Size, "size", "", "size, with --remote")
	cmd.Flags().StringVar(&filter.Color, "color", "", "color, with --remote")
	cmd.Flags().StringVar(&filter.Sort, "sort", "", "price|-price|likes|-likes|rates, with --remote")
	cmd.Flags().Int64Var(&filter.MinPrice, "min-price", 0, "minimum price, with --remote")
	cmd.Flags().Int64Var(&filter.MaxPrice, "max-price", 0, "maximum price, with --remote")
	return cmd
}

func (a *App) categoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, c := range a.manager.Categories(cmd.Context()) {
				a.printf("%s\n", c)
			}
			return nil
		},
	}
}

// like bumps the local counter and reports the server's count.
func (a *App) likeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "like <id>",
		Short: "Like a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a.manager.Products(ctx)
			if !a.manager.LikeProduct(id) {
				return errors.Wrapf(ErrNotFound, "product %d", id)
			}
			likes, err := a.remote.LikeProduct(ctx, id)
			if err != nil {
				return err
			}
			a.printf("%d likes\n", likes)
			return nil
		},
	}
}

func (a *App) rateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <id> <0-5>",
		Short: "Rate a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Errorf("invalid rating %q", args[1])
			}
			return a.remote.RateProduct(cmd.Context(), id, rating)
		},
	}
}

func (a *App) recentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recents",
		Short: "Show recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, q := range a.manager.RecentSearches() {
				a.printf("%s\n", q)
			}
			remote, err := a.remote.RecentSearches(cmd.Context())
			if err != nil {
				a.logger.WithError(err).Debug("load remote recents")
				return nil
			}
			for _, r := range remote {
				a.printf("%s\t(service)\n", r.Name)
			}
			return nil
		},
	}
}

// ============================================
// Session
// ============================================

func (a *App) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Sign in and load the account cart and wishlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.manager.Login(cmd.Context(), args[0], args[1])
			if !res.Success {
				return errors.New(res.Error)
			}
			a.printf("signed in as %s\n", res.User.DisplayName())
			return nil
		},
	}
}

func (a *App) signupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "signup <username> <email> <password>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.manager.Signup(cmd.Context(), args[0], args[1], args[2])
			if !res.Success {
				return errors.New(res.Error)
			}
			a.printf("account created for %s\n", res.User.DisplayName())
			return nil
		},
	}
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.manager.Logout(cmd.Context())
			a.printf("signed out\n")
			return nil
		},
	}
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, ok := a.manager.User()
			if !ok {
				a.printf("guest\n")
				return nil
			}
			return a.printJSON(u)
		},
	}
}
