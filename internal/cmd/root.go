package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ashendes/wigshop/internal/client"
	"github.com/ashendes/wigshop/internal/config"
	"github.com/ashendes/wigshop/internal/logging"
)

// settings are resolved once per invocation from flags and configuration
type settings struct {
	configPath string
	server     string
	currency   string
	cfg        *config.Config
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	s := &settings{}

	root := &cobra.Command{
		Use:   "wigctl",
		Short: "wigctl - quote wig builds and manage the storefront cart",
		Long: `wigctl prices wig configurations with the same rules the storefront
uses, lists the option catalogue and display currencies, and works with
the cart of a running storefront service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load()
		},
	}

	root.PersistentFlags().StringVar(&s.configPath, "config", "", "Config file (default: search ./, ./deploy/, $HOME/.wigshop/, /etc/wigshop/)")
	root.PersistentFlags().StringVar(&s.server, "server", "", "Storefront base URL (default: admin.storefront_url)")
	root.PersistentFlags().StringVar(&s.currency, "currency", "", "Display currency code (default: cart.default_currency)")

	root.AddCommand(
		newQuoteCmd(s),
		newOptionsCmd(s),
		newCurrenciesCmd(s),
		newCartCmd(s),
	)
	return root
}

func (s *settings) load() error {
	var (
		cfg *config.Config
		err error
	)
	if s.configPath != "" {
		cfg, err = config.LoadFile(s.configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logging.Configure(cfg.Log.Level); err != nil {
		return err
	}

	if s.server == "" {
		s.server = cfg.Admin.StorefrontURL
	}
	if s.currency == "" {
		s.currency = cfg.Cart.DefaultCurrency
	}
	s.cfg = cfg
	return nil
}

func (s *settings) storefront() *client.Storefront {
	opts := client.Options{BaseURL: s.server, Service: "wigctl"}
	if s.cfg != nil {
		opts.Timeout = s.cfg.Admin.Timeout
		opts.BulkheadSize = s.cfg.Admin.BulkheadSize
		opts.BulkheadWait = s.cfg.Admin.BulkheadWait
	}
	return client.New(opts)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
