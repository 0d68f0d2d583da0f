package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFCB/pkg/fcb"
)

var buildCmd = &cobra.Command{
	Use:   "build <config-file>",
	Short: "Build a binary FCB from a configuration document",
	Long: `Build a Flash Configuration Block from a YAML or JSON configuration
document. Registers the document leaves out keep their reset values.

Examples:
  fcbtool build fcb.yaml -o fcb.bin`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	addOutputFlag(buildCmd, "output binary file")
	buildCmd.MarkFlagRequired("output")
}

func runBuild(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	loader, err := newLoader()
	if err != nil {
		return err
	}

	seg, err := fcb.Load(loader, data)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, seg.Serialize()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Built %d-byte FCB for %s (%s, %s): %s\n",
		fcb.Size, seg.Family, seg.Revision, seg.MemType, output)
	return nil
}
