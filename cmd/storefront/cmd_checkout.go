package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Thamsanqa-bit/penden-storefront/internal/checkout"
	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
)

var checkoutAddr domain.Address

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Confirm the order and get a payment link",
	Long: `Submits the current cart with the given shipping address, then requests a
payment intent and prints the hosted gateway URL to complete payment in a
browser.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		if _, err := app.cart.Load(cmd.Context()); err != nil {
			return describeAuthError(err)
		}

		flow := checkout.NewFlow(app.api, app.cart, logger)
		order, err := flow.Confirm(cmd.Context(), checkoutAddr)
		if err != nil {
			var vErr *checkout.ValidationError
			switch {
			case errors.Is(err, checkout.ErrEmptyCart):
				return errors.New("your cart is empty, add some products before checkout")
			case errors.As(err, &vErr):
				for _, fieldErr := range vErr.Errors {
					fmt.Printf("  - %s\n", fieldErr)
				}
				return errors.New("address is incomplete")
			default:
				return describeAuthError(err)
			}
		}
		fmt.Printf("Order %s confirmed, total R%s.\n", order.ID, order.Total.StringFixed(2))

		paymentURL, err := flow.Pay(cmd.Context())
		if err != nil {
			// Order is already placed; payment can be retried.
			return fmt.Errorf("payment could not be initiated (order %s is confirmed, retry later): %w", order.ID, err)
		}
		fmt.Printf("Complete payment at:\n  %s\n", paymentURL)
		return nil
	},
}

func init() {
	checkoutCmd.Flags().StringVar(&checkoutAddr.FullName, "name", "", "full name")
	checkoutCmd.Flags().StringVar(&checkoutAddr.Phone, "phone", "", "phone number")
	checkoutCmd.Flags().StringVar(&checkoutAddr.Street, "street", "", "street address")
	checkoutCmd.Flags().StringVar(&checkoutAddr.City, "city", "", "city")
	checkoutCmd.Flags().StringVar(&checkoutAddr.Province, "province", "", "province")
	checkoutCmd.Flags().StringVar(&checkoutAddr.PostalCode, "postal-code", "", "postal code")
	checkoutCmd.Flags().StringVar(&checkoutAddr.Country, "country", "South Africa", "country")
	checkoutCmd.Flags().StringVar(&checkoutAddr.Email, "email", "", "email (optional)")
	rootCmd.AddCommand(checkoutCmd)
}
