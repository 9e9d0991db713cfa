package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Thamsanqa-bit/penden-storefront/internal/api"
	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		snapshot, err := app.cart.Load(cmd.Context())
		if err != nil {
			return describeAuthError(err)
		}
		printCart(snapshot)
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id> [quantity]",
	Short: "Add a product to the cart",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		productID, delta, err := parseLineArgs(args)
		if err != nil {
			return err
		}
		if err := app.cart.AddLine(cmd.Context(), productID, delta); err != nil {
			return describeAuthError(err)
		}
		printCart(app.cart.Snapshot())
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id> [quantity|all]",
	Short: "Remove quantity from a cart line, or the whole line with \"all\"",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		productID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("product id must be an integer: %q", args[0])
		}

		if len(args) == 2 && args[1] == "all" {
			err = app.cart.RemoveAll(cmd.Context(), productID)
		} else {
			_, delta, argErr := parseLineArgs(args)
			if argErr != nil {
				return argErr
			}
			err = app.cart.RemoveLine(cmd.Context(), productID, delta)
		}
		if err != nil {
			return describeAuthError(err)
		}
		printCart(app.cart.Snapshot())
		return nil
	},
}

func parseLineArgs(args []string) (int64, int, error) {
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("product id must be an integer: %q", args[0])
	}
	delta := 1
	if len(args) == 2 {
		delta, err = strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, fmt.Errorf("quantity must be an integer: %q", args[1])
		}
	}
	return productID, delta, nil
}

func printCart(cart domain.Cart) {
	if cart.IsEmpty() {
		fmt.Println("Your cart is empty.")
		return
	}
	for _, line := range cart.Lines {
		fmt.Printf("%4d  %-32s %3d x R%-10s = R%s\n",
			line.ProductID, line.Name, line.Quantity,
			line.UnitPrice.StringFixed(2), line.Subtotal().StringFixed(2))
	}
	fmt.Printf("\nTotal: R%s (%d items)\n", cart.TotalPrice.StringFixed(2), cart.TotalItems)
}

func describeAuthError(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return errors.New("you are not signed in; run `storefront login` first")
	}
	return err
}

func init() {
	cartCmd.AddCommand(cartAddCmd, cartRemoveCmd)
	rootCmd.AddCommand(cartCmd)
}
