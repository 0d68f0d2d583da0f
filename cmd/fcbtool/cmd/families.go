package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFCB/pkg/devicedb"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/fcb"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/layout"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/regs"
)

var familiesCmd = &cobra.Command{
	Use:   "families",
	Short: "List families with FCB support",
	Long: `List every family of the device database supporting the FCB, with its
revisions and the memory types of its latest revision.`,
	Args: cobra.NoArgs,
	RunE: runFamilies,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the register layout of a selection",
	Long: `Show every register of the FCB layout selected by family, memory type
and revision: offset, width, reset value and access. With --layout, show a
layout description file instead, for example one being written for a custom
--database.

Examples:
  fcbtool info -f mimxrt1170 -t flexspi_nor
  fcbtool info -f mimxrt1050 -t flexspi_nand --fields
  fcbtool info --layout my_nor.regs`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

var (
	showFields bool
	layoutFile string
)

func init() {
	rootCmd.AddCommand(familiesCmd)
	rootCmd.AddCommand(infoCmd)

	addSelectionFlags(infoCmd, false)
	infoCmd.Flags().BoolVar(&showFields, "fields", false, "show bitfields")
	infoCmd.Flags().StringVar(&layoutFile, "layout", "", "layout description file to show instead of a selection")
}

func runFamilies(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}
	provider := loader.Provider()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FAMILY\tREVISIONS\tMEMORY TYPES")
	for _, name := range loader.Families() {
		revs, err := provider.Revisions(name)
		if err != nil {
			return err
		}
		types, err := provider.MemoryTypes(name, devicedb.LatestRevision, devicedb.FeatureFCB)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, strings.Join(revs, ", "), strings.Join(types, ", "))
	}
	return w.Flush()
}

func runInfo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if layoutFile != "" {
		bank, err := layout.LoadFile(layoutFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Layout %s: 0x%X bytes, %s endian\n\n", bank.Name, bank.Size, bank.Order)
		return printRegisters(out, bank.Registers())
	}

	if family == "" || memType == "" {
		return fmt.Errorf("--family and --type are required without --layout")
	}
	loader, err := newLoader()
	if err != nil {
		return err
	}
	seg, err := fcb.New(loader, family, memType, revision)
	if err != nil {
		return err
	}
	fmt.Fprint(out, seg.String())
	fmt.Fprintln(out)
	return printRegisters(out, seg.Registers())
}

func printRegisters(out io.Writer, registers []*regs.Register) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OFFSET\tREGISTER\tBITS\tRESET\tACCESS")
	for _, r := range registers {
		access := "rw"
		if r.Reserved() {
			access = "reserved"
		}
		fmt.Fprintf(w, "0x%03X\t%s\t%d\t%s\t%s\n", r.Offset, r.Name, r.Width, r.FormatHex(r.ResetValue()), access)
		if !showFields {
			continue
		}
		for _, f := range r.Bitfields {
			fmt.Fprintf(w, "\t  .%s\t%d:%d\t\t\n", f.Name, f.Offset+f.Width-1, f.Offset)
		}
	}
	return w.Flush()
}
