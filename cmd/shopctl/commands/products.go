package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/imrishuroy/go-storefront/internal/catalog"
)

var (
	listOwner string
	listSort  string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Inspect the catalog",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Long: `List products, optionally for one owner.

Examples:
  shopctl products list --sort price-lowtohigh
  shopctl products list --owner 6f1c... --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sort, ok := catalog.ParseSort(listSort)
		if !ok {
			return fmt.Errorf("unknown sort %q", listSort)
		}
		a, err := loadApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		products, err := a.Catalog.List(cmd.Context(), catalog.Filter{OwnerID: listOwner}, sort)
		if err != nil {
			return err
		}
		return printProducts(cmd.OutOrStdout(), products)
	},
}

func init() {
	productsListCmd.Flags().StringVar(&listOwner, "owner", "", "Only products owned by this subject id")
	productsListCmd.Flags().StringVar(&listSort, "sort", "", "newest, price-lowtohigh, price-hightolow, title-atoz or title-ztoa")

	productsCmd.AddCommand(productsListCmd)
	rootCmd.AddCommand(productsCmd)
}

func printProducts(out io.Writer, products []catalog.Product) error {
	if jsonOutput {
		return json.NewEncoder(out).Encode(products)
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPRICE\tSALE\tSTOCK\tOWNER")
	for _, p := range products {
		sale := "-"
		if p.SalePrice != nil {
			sale = p.SalePrice.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", p.ID, p.Title, p.Price, sale, p.TotalStock, p.Owner.ID)
	}
	return w.Flush()
}
