package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ashendes/wigshop/internal/currency"
	"github.com/ashendes/wigshop/internal/models"
	"github.com/ashendes/wigshop/internal/options"
	"github.com/ashendes/wigshop/internal/pricing"
)

// dimensionFlags maps a flag name to the dimension it selects
var dimensionFlags = []struct {
	flag string
	dim  options.Dimension
}{
	{"cap-size", options.CapSize},
	{"length", options.Length},
	{"density", options.Density},
	{"lace", options.Lace},
	{"texture", options.Texture},
	{"color", options.Color},
	{"hairline", options.Hairline},
	{"styling", options.Styling},
	{"addons", options.AddOns},
}

func newQuoteCmd(s *settings) *cobra.Command {
	var (
		schedule string
		remote   bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a wig configuration",
		Long: `Price a configuration built from the defaults plus any dimension flags.
Multi-select dimensions (hairline, styling, addons) take comma-separated values.

Example:
  wigctl quote --length '30"' --color "JET BLACK" --hairline LAGOS,PEAK --currency EUR`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := stateFromFlags(cmd)
			if err != nil {
				return err
			}

			if remote {
				resp, err := s.storefront().Quote(cmd.Context(), models.QuoteRequest{
					State:    state,
					Schedule: schedule,
					Currency: s.currency,
				})
				if err != nil {
					return err
				}
				printQuote(cmd.OutOrStdout(), state, pricing.Quote{
					Breakdown: resp.Breakdown,
					BasePrice: resp.BasePrice,
					Total:     resp.Total,
				}, resp.Schedule, resp.Currency)
				return nil
			}

			sched, ok := pricing.ScheduleByName(schedule)
			if !ok {
				return fmt.Errorf("unknown schedule %q", schedule)
			}
			calc := pricing.NewCalculator(sched)
			printQuote(cmd.OutOrStdout(), state, calc.Compute(state), sched.Name, s.currency)
			return nil
		},
	}

	for _, f := range dimensionFlags {
		cmd.Flags().String(f.flag, "", fmt.Sprintf("%s (default %q)", f.dim.Label(), options.DefaultValue(f.dim)))
	}
	cmd.Flags().StringVar(&schedule, "schedule", pricing.ScheduleCheckout, "Price schedule: checkout or option_page")
	cmd.Flags().BoolVar(&remote, "remote", false, "Ask the storefront instead of pricing locally")
	return cmd
}

// stateFromFlags starts from the defaults and applies every dimension flag that was set
func stateFromFlags(cmd *cobra.Command) (options.ConfigurationState, error) {
	state := options.Default()
	for _, f := range dimensionFlags {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		v, err := cmd.Flags().GetString(f.flag)
		if err != nil {
			return state, err
		}
		state.Assign(f.dim, strings.ToUpper(strings.TrimSpace(v)))
	}
	if err := state.Validate(); err != nil {
		return state, err
	}
	return state, nil
}

func printQuote(out io.Writer, state options.ConfigurationState, q pricing.Quote, schedule, code string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIMENSION\tSELECTION\tPRICE")
	for _, d := range options.Dimensions {
		fmt.Fprintf(w, "%s\t%s\t%+d\n", d.Label(), state.Get(d), q.Breakdown.Get(d))
	}
	fmt.Fprintf(w, "Base\t\t%d\n", q.BasePrice)
	fmt.Fprintf(w, "Total\t\t%d\n", q.Total)
	w.Flush()

	fmt.Fprintf(out, "\n%s\n", pricing.Summary(state))
	fmt.Fprintf(out, "%s (%s schedule)\n", currency.Format(q.Total, code), schedule)
}
