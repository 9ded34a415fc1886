package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"catalog-admin/catalog"
	"catalog-admin/models"
)

const (
	queryFlag    = "query"
	categoryFlag = "category"
)

var productListFlags = map[string]cobraflags.Flag{
	queryFlag: &cobraflags.StringFlag{
		Name:  queryFlag,
		Usage: "Case-insensitive text matched against name and description",
	},
	categoryFlag: &cobraflags.StringFlag{
		Name:  categoryFlag,
		Usage: "Exact category to show",
	},
}

func newProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the product catalog",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List products, newest first",
		RunE:  runProductList,
	}
	cobraflags.RegisterMap(list, productListFlags)

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List distinct product categories",
		RunE:  runCategories,
	}

	cmd.AddCommand(list, categories)
	return cmd
}

func loadProducts(cmd *cobra.Command) ([]models.Product, error) {
	cfg, log, err := bootstrap()
	if err != nil {
		return nil, err
	}
	defer func() { _ = log.Sync() }()

	if _, err := signedIn(cfg.SessionDir, cfg.PasetoSecretKey); err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	defer st.Close(context.Background())

	products, err := st.ListProducts(ctx)
	if err != nil {
		return nil, cliError(err)
	}
	return products, nil
}

func runProductList(cmd *cobra.Command, _ []string) error {
	products, err := loadProducts(cmd)
	if err != nil {
		return err
	}
	view := catalog.Filter(products,
		productListFlags[queryFlag].GetString(),
		productListFlags[categoryFlag].GetString())
	return printProducts(cmd.OutOrStdout(), view)
}

func runCategories(cmd *cobra.Command, _ []string) error {
	products, err := loadProducts(cmd)
	if err != nil {
		return err
	}
	for _, c := range catalog.Categories(products) {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	return nil
}

func printProducts(out io.Writer, view catalog.View) error {
	switch view.State() {
	case catalog.ViewEmpty:
		_, err := fmt.Fprintln(out, "No products yet.")
		return err
	case catalog.ViewNoMatch:
		_, err := fmt.Fprintln(out, "No products match the current filters.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tACTIVE\tIMAGES")
	for _, p := range view.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%t\t%d\n",
			p.ID, p.Name, p.Category, p.Price.StringFixed(2), p.StockQuantity, p.IsActive, len(p.Images))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d of %d products\n", len(view.Items), view.Total)
	return err
}
