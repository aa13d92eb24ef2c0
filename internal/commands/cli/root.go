// Package cli provides the CLI command structure for cardimage.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kaique-kira/xml-card-reader/internal/config"
	"github.com/kaique-kira/xml-card-reader/internal/logging"
)

// NewRootCommand creates and returns the root command with all subcommands.
func NewRootCommand() (*cobra.Command, error) {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "cardimage",
		Short: "EMV card image parser and card simulation utilities",
		Long: `Parse EMV card image XML into card assets with their expected APDUs,
and run the TLV and 3DES operations used when simulating a card.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Initialize configuration before running any command.
			var err error
			if cfgFile != "" {
				err = config.Load(cfgFile)
			} else {
				err = config.Initialize()
			}
			if err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			// Global flags override config file settings.
			if err := config.BindFlags(cmd.Root().PersistentFlags(), map[string]string{
				"log.level":  "log-level",
				"log.format": "log-format",
			}); err != nil {
				return err
			}

			cfg := config.Get()

			// --debug overrides the configured level.
			if debug, _ := cmd.Root().PersistentFlags().GetBool("debug"); debug {
				logging.InitLogger(os.Stderr, true, cfg.Log.Format != "json")

				return nil
			}

			return logging.Configure(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		},
	}

	// Add persistent flags that affect all commands.
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cardimage/config.yaml)")

	rootCmd.PersistentFlags().
		String("log-level", "info", "logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "human", "logging format (human, json)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging (shortcut for --log-level debug)")

	// Register all commands.
	if err := RegisterCommands(rootCmd); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}

	return rootCmd, nil
}
