package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFCB/pkg/fcb"
)

var (
	offset       int
	showRegs     bool
	exportFormat string
)

var parseCmd = &cobra.Command{
	Use:   "parse <binary-file>",
	Short: "Decode a binary FCB and display its registers",
	Long: `Decode a Flash Configuration Block from a binary file and display the
selection it was decoded with and, optionally, every register value.

Examples:
  fcbtool parse fcb.bin -f mimxrt1170 -t flexspi_nor
  fcbtool parse --registers boot.img -f mimxrt1050 -t flexspi_nor --offset 0x400`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

var exportCmd = &cobra.Command{
	Use:   "export <binary-file>",
	Short: "Convert a binary FCB into a configuration document",
	Long: `Decode a Flash Configuration Block and write it as a commented YAML
configuration document, or as plain JSON.

Examples:
  fcbtool export fcb.bin -f mimxrt1170 -t flexspi_nor -o fcb.yaml
  fcbtool export boot.img -f mimxrt1050 -t flexspi_nor --offset 0x400 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(exportCmd)

	addSelectionFlags(parseCmd, true)
	parseCmd.Flags().IntVar(&offset, "offset", 0, "byte offset of the FCB in the file")
	parseCmd.Flags().BoolVar(&showRegs, "registers", false, "show every register value")

	addSelectionFlags(exportCmd, true)
	addOutputFlag(exportCmd, "output file (default: stdout)")
	exportCmd.Flags().IntVar(&offset, "offset", 0, "byte offset of the FCB in the file")
	exportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "document format (yaml, json)")
}

func parseSegment(filename string) (*fcb.Segment, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	loader, err := newLoader()
	if err != nil {
		return nil, err
	}
	seg, err := fcb.Parse(loader, data, offset, family, memType, revision)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return seg, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	seg, err := parseSegment(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, seg.String())

	if !showRegs && !cfg.Verbose {
		return nil
	}
	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OFFSET\tREGISTER\tVALUE")
	for _, r := range seg.Registers() {
		fmt.Fprintf(w, "0x%03X\t%s\t%s\n", r.Offset, r.Name, r.FormatHex(r.Value()))
	}
	return w.Flush()
}

func runExport(cmd *cobra.Command, args []string) error {
	seg, err := parseSegment(args[0])
	if err != nil {
		return err
	}

	var data []byte
	switch exportFormat {
	case "yaml":
		data, err = seg.Export()
	case "json":
		data, err = marshalIndent(fcb.ToDocument(seg))
	default:
		return fmt.Errorf("unknown format %q", exportFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	return writeOutput(cmd, data)
}
