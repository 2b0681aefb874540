package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ashendes/wigshop/internal/currency"
	"github.com/ashendes/wigshop/internal/models"
	"github.com/ashendes/wigshop/internal/pricing"
)

func newCartCmd(s *settings) *cobra.Command {
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Work with the cart of a running storefront",
	}
	cartCmd.AddCommand(
		newCartListCmd(s),
		newCartAddCmd(s),
		newCartRemoveCmd(s),
		newCartCheckoutCmd(s),
	)
	return cartCmd
}

func newCartListCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show cart items, count and total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := s.storefront().Cart(cmd.Context(), s.currency)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(resp.Items) == 0 {
				fmt.Fprintln(out, "Cart is empty")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tQTY\tPRICE\tSUMMARY")
			for _, item := range resp.Items {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", item.ID, item.Quantity, item.DisplayPrice, item.Summary)
			}
			w.Flush()
			fmt.Fprintf(out, "\n%d item(s), total %s\n", resp.Count, resp.DisplayTotal)
			return nil
		},
	}
}

func newCartAddCmd(s *settings) *cobra.Command {
	var (
		price  int
		preset string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a configuration to the cart",
		Long: `Add the configuration described by the dimension flags. Without --price
the item is priced locally at the checkout schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := stateFromFlags(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("price") {
				price = pricing.ComputePrice(state).Total
			}

			item, err := s.storefront().AddItem(cmd.Context(), models.AddItemRequest{
				State:    state,
				Price:    &price,
				PresetID: preset,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s at %s\n", item.ID, item.Summary, currency.Format(item.Price, s.currency))
			return nil
		},
	}

	for _, f := range dimensionFlags {
		cmd.Flags().String(f.flag, "", f.dim.Label())
	}
	cmd.Flags().IntVar(&price, "price", 0, "Frozen price in USD (default: computed)")
	cmd.Flags().StringVar(&preset, "preset", "", "Preset the configuration started from")
	return cmd
}

func newCartRemoveCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove an item from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := s.storefront().RemoveItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !resp.Removed {
				fmt.Fprintf(cmd.OutOrStdout(), "No item %s in the cart\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s, %d item(s) left\n", args[0], resp.Count)
			return nil
		},
	}
}

func newCartCheckoutCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for everything in the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := s.storefront().Checkout(cmd.Context(), s.currency)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s %s: %s\n", resp.OrderID, resp.Status, resp.DisplayTotal)
			return nil
		},
	}
}
