package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ashendes/wigshop/internal/currency"
	"github.com/ashendes/wigshop/internal/options"
	"github.com/ashendes/wigshop/internal/pricing"
)

func newOptionsCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "options [dimension]",
		Short: "List the option catalogue with per-option prices",
		Long: `List every dimension, or one, with each value priced against the default
build using the step schedule (pricing.step_schedule).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dims := options.Dimensions
			if len(args) == 1 {
				d, ok := options.ParseDimension(args[0])
				if !ok {
					return fmt.Errorf("unknown dimension %q", args[0])
				}
				dims = []options.Dimension{d}
			}

			name := ""
			if s.cfg != nil {
				name = s.cfg.Pricing.StepSchedule
			}
			sched, ok := pricing.ScheduleByName(name)
			if !ok {
				return fmt.Errorf("unknown schedule %q", name)
			}
			calc := pricing.NewCalculator(sched)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DIMENSION\tVALUE\tPRICE\tDISPLAY\t")
			for _, d := range dims {
				def := options.ParseSet(d, options.DefaultValue(d))
				for _, v := range options.Values(d) {
					probe := options.Default()
					probe.Assign(d, v)
					price := calc.DimensionPrice(d, probe)

					marker := ""
					if def.Has(v) {
						marker = "default"
					}
					fmt.Fprintf(w, "%s\t%s\t%+d\t%s\t%s\n", d.Label(), v, price, currency.Format(price, s.currency), marker)
				}
			}
			return w.Flush()
		},
	}
}

func newCurrenciesCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List display currencies and their rates against USD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tSYMBOL\tRATE\tEXAMPLE")
			for _, c := range currency.All() {
				fmt.Fprintf(w, "%s\t%s\t%g\t%s\n", c.Code, c.Symbol, c.Rate, currency.Format(pricing.BasePrice, c.Code))
			}
			return w.Flush()
		},
	}
}
