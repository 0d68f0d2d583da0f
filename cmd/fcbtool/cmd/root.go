package cmd

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFCB/internal/config"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/fcb"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/metrics"
)

var (
	// Global settings
	cfg = config.DefaultConfig()
	log = logr.Discard()

	// Selection flags, shared by several commands
	family   string
	memType  string
	revision string

	output string
)

var rootCmd = &cobra.Command{
	Use:   "fcbtool",
	Short: "Flash Configuration Block encoder and decoder",
	Long: `A tool for inspecting and building Flash Configuration Blocks (FCB),
the 512-byte structure a boot ROM reads to configure external flash.

Examples:
  fcbtool families                                           # List supported families
  fcbtool template -f mimxrt1170 -t flexspi_nor -o fcb.yaml  # Write a starting configuration
  fcbtool build fcb.yaml -o fcb.bin                          # Build the binary block
  fcbtool parse fcb.bin -f mimxrt1170 -t flexspi_nor         # Decode a binary block`,
	Version:       fcb.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		log = cfg.Logger(cmd.ErrOrStderr())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if cfg.MetricsFile == "" {
			return nil
		}
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.Database, "database", cfg.Database,
		"device database directory (default: embedded database)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "verbose output")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (console, json)")
	flags.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile,
		"write counters in prometheus textfile format")
}

// addSelectionFlags registers the family/type/revision flags on cmd.
func addSelectionFlags(cmd *cobra.Command, required bool) {
	cmd.Flags().StringVarP(&family, "family", "f", "", "device family")
	cmd.Flags().StringVarP(&memType, "type", "t", "", "memory type")
	cmd.Flags().StringVarP(&revision, "revision", "r", "latest", "silicon revision")
	if required {
		cmd.MarkFlagRequired("family")
		cmd.MarkFlagRequired("type")
	}
}

func addOutputFlag(cmd *cobra.Command, usage string) {
	cmd.Flags().StringVarP(&output, "output", "o", "", usage)
}

// newLoader opens the configured database.
func newLoader() (*fcb.Loader, error) {
	store, err := cfg.Provider()
	if err != nil {
		return nil, fmt.Errorf("failed to load device database: %w", err)
	}
	loader, err := fcb.NewLoader(store)
	if err != nil {
		return nil, err
	}
	loader.Log = log.WithName("fcb")
	return loader, nil
}

// writeOutput writes data to --output, or to stdout when it is not set.
func writeOutput(cmd *cobra.Command, data []byte) error {
	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	log.Info("Wrote file", "path", output, "bytes", len(data))
	return nil
}
