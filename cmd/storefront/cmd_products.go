package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	productsPage     int
	productsCategory string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List a page of the product catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		page, err := app.catalog.LoadPage(cmd.Context(), productsPage, productsCategory)
		if err != nil {
			return err
		}

		// Quantity badges come from the server cart when signed in.
		if app.session.IsLoggedIn(cmd.Context()) {
			_, _ = app.cart.Load(cmd.Context())
		}

		if len(page.Products) == 0 {
			fmt.Println("No products found.")
			return nil
		}
		for _, p := range page.Products {
			qty := app.cart.QuantityOf(p.ID)
			badge := ""
			if qty > 0 {
				badge = fmt.Sprintf("  [in cart: %d]", qty)
			}
			fmt.Printf("%4d  %-32s R%-10s %s%s\n", p.ID, p.Name, p.Price.StringFixed(2), p.Category, badge)
		}
		fmt.Printf("\nPage %d of %d (%d products)\n",
			page.Pagination.Page, page.Pagination.TotalPages, page.Pagination.TotalItems)
		return nil
	},
}

func init() {
	productsCmd.Flags().IntVar(&productsPage, "page", 1, "page number")
	productsCmd.Flags().StringVar(&productsCategory, "category", "", "filter by category")
	rootCmd.AddCommand(productsCmd)
}
