package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFCB/pkg/fcb"
)

var verifyCmd = &cobra.Command{
	Use:   "verify-db",
	Short: "Check every layout of the device database",
	Long: `Build the schema and template of every family, revision and memory type
in the device database and check that each template reproduces the reset
block. Useful after editing a database given with --database.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}
	selections, err := fcb.Selections(loader)
	if err != nil {
		return err
	}
	if err := fcb.VerifyDatabase(cmd.Context(), loader); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Verified %d layouts\n", len(selections))
	return nil
}
