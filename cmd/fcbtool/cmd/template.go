package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFCB/pkg/fcb"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/schema"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a commented configuration template",
	Long: `Write a YAML configuration document holding the reset value of every
configurable register, annotated with descriptions and allowed values.

Examples:
  fcbtool template -f mimxrt1170 -t flexspi_nor
  fcbtool template -f mimxrt1050 -t flexspi_nand -r a1 -o fcb.yaml`,
	Args: cobra.NoArgs,
	RunE: runTemplate,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the validation schema as JSON",
	Long: `Print the JSON schema of configuration documents. Without --family only
the family selection is described.

Examples:
  fcbtool schema
  fcbtool schema -f mimxrt1170 -t flexspi_nor`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(schemaCmd)

	addSelectionFlags(templateCmd, true)
	addOutputFlag(templateCmd, "output file (default: stdout)")

	addSelectionFlags(schemaCmd, false)
	addOutputFlag(schemaCmd, "output file (default: stdout)")
}

func runTemplate(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}
	tmpl, err := fcb.Template(loader, family, memType, revision)
	if err != nil {
		return err
	}
	if tmpl == "" {
		return fmt.Errorf("family %s has no FCB support (supported: %v)", family, loader.Families())
	}
	return writeOutput(cmd, []byte(tmpl))
}

func runSchema(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}

	var root *schema.Property
	if family == "" {
		root = fcb.FamilySchema(loader.Provider())
	} else {
		root, err = fcb.FullSchema(loader, family, memType, revision)
		if err != nil {
			return err
		}
	}

	data, err := marshalIndent(root)
	if err != nil {
		return err
	}
	return writeOutput(cmd, data)
}

func marshalIndent(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
