package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceFCB/internal/config"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/devicedb"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/fcb"
)

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Reset flags to prevent accumulation between runs
	*cfg = *config.DefaultConfig()
	family, memType, revision = "", "", "latest"
	output = ""
	offset = 0
	showRegs, showFields = false, false
	layoutFile = ""
	exportFormat = "yaml"

	var buf, logs bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&logs)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetBlock(t *testing.T, fam, mt string) []byte {
	t.Helper()
	store, err := devicedb.Default()
	if err != nil {
		t.Fatalf("Default database: %v", err)
	}
	loader, err := fcb.NewLoader(store)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	seg, err := fcb.New(loader, fam, mt, "latest")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return seg.Serialize()
}

// TestTemplateBuildParseE2E tests template -> build -> parse -> export
func TestTemplateBuildParseE2E(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "fcb.yaml")
	binFile := filepath.Join(dir, "fcb.bin")
	exportFile := filepath.Join(dir, "export.yaml")
	metricsFile := filepath.Join(dir, "fcb.prom")

	if _, err := run(t, "template", "-f", "mimxrt1170", "-t", "flexspi_nor", "-o", cfgFile); err != nil {
		t.Fatalf("template failed: %v", err)
	}
	tmpl, err := os.ReadFile(cfgFile)
	if err != nil {
		t.Fatalf("Template not written: %v", err)
	}
	if !strings.HasPrefix(string(tmpl), "# Flash Configuration Block template for mimxrt1170.") {
		t.Errorf("Unexpected template header:\n%s", tmpl[:80])
	}

	out, err := run(t, "build", cfgFile, "-o", binFile, "--metrics-file", metricsFile)
	if err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Built 512-byte FCB for mimxrt1170") {
		t.Errorf("Unexpected build output: %s", out)
	}
	bin, err := os.ReadFile(binFile)
	if err != nil {
		t.Fatalf("Binary not written: %v", err)
	}
	if !bytes.Equal(bin, resetBlock(t, "mimxrt1170", "flexspi_nor")) {
		t.Error("Template must build the reset block")
	}
	if prom, err := os.ReadFile(metricsFile); err != nil || !strings.Contains(string(prom), "fcb_config_loads_total") {
		t.Errorf("Metrics file missing counters: %v\n%s", err, prom)
	}

	out, err = run(t, "parse", binFile, "-f", "mimxrt1170", "-t", "flexspi_nor", "--registers")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	for _, want := range []string{"FCB Segment:", "Family:           mimxrt1170", "Revision:         b0", "pageSize", "0x00000100"} {
		if !strings.Contains(out, want) {
			t.Errorf("Parse output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "export", binFile, "-f", "mimxrt1170", "-t", "flexspi_nor", "-o", exportFile); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := run(t, "build", exportFile, "-o", binFile); err != nil {
		t.Fatalf("build of export failed: %v", err)
	}
	rebuilt, _ := os.ReadFile(binFile)
	if !bytes.Equal(rebuilt, bin) {
		t.Error("Exported document must rebuild the same block")
	}
}

func TestParseE2EErrors(t *testing.T) {
	dir := t.TempDir()
	short := filepath.Join(dir, "short.bin")
	badTag := filepath.Join(dir, "bad.bin")
	os.WriteFile(short, make([]byte, 100), 0o644)
	os.WriteFile(badTag, make([]byte, fcb.Size), 0o644)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"truncated", []string{"parse", short, "-f", "mimxrt1170", "-t", "flexspi_nor"}, "(100 < 512)"},
		{"signature", []string{"parse", badTag, "-f", "mimxrt1170", "-t", "flexspi_nor"}, "does not match"},
		{"unknown family", []string{"parse", badTag, "-f", "nochip", "-t", "flexspi_nor"}, "nochip"},
		{"unknown type", []string{"parse", badTag, "-f", "mimxrt1010", "-t", "flexspi_nand"}, "nand"},
		{"missing file", []string{"parse", filepath.Join(dir, "missing"), "-f", "mimxrt1170", "-t", "flexspi_nor"}, "failed to read file"},
		{"template without fcb", []string{"template", "-f", "lpc55s6x", "-t", "flexspi_nor"}, "no FCB support"},
		{"bad log format", []string{"families", "--log-format", "xml"}, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestFamiliesE2E(t *testing.T) {
	out, err := run(t, "families")
	if err != nil {
		t.Fatalf("families failed: %v", err)
	}
	if !strings.Contains(out, "mimxrt1050") || !strings.Contains(out, "a0, a1") {
		t.Errorf("Unexpected families output:\n%s", out)
	}
	if strings.Contains(out, "lpc55s6x") {
		t.Errorf("lpc55s6x has no FCB support:\n%s", out)
	}
}

func TestInfoE2E(t *testing.T) {
	out, err := run(t, "info", "-f", "mimxrt1050", "-t", "flexspi_nand", "--fields")
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{"tag", "reserved", "pageDataSize", ".source"} {
		if !strings.Contains(out, want) {
			t.Errorf("Info output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoLayoutFileE2E(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.regs")
	data := `layout "custom_nor" size 0x200 endian little
register tag @ 0x000 : 32 reset 0x42464346 reserved
register pageSize @ 0x004 : 32 reset 512 "Page size" {
    field low @ 0 : 16
}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("Failed to write layout: %v", err)
	}

	out, err := run(t, "info", "--layout", path, "--fields")
	if err != nil {
		t.Fatalf("info --layout failed: %v", err)
	}
	for _, want := range []string{"Layout custom_nor: 0x200 bytes, little endian", "pageSize", "0x00000200", ".low", "15:0"} {
		if !strings.Contains(out, want) {
			t.Errorf("Info output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "info", "--layout", filepath.Join(t.TempDir(), "missing.regs")); err == nil {
		t.Error("Expected error for missing layout file")
	}
	if _, err := run(t, "info"); err == nil || !strings.Contains(err.Error(), "required") {
		t.Errorf("Expected missing selection error, got %v", err)
	}
}

func TestSchemaE2E(t *testing.T) {
	out, err := run(t, "schema")
	if err != nil {
		t.Fatalf("schema failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("Schema is not JSON: %v\n%s", err, out)
	}
	if _, ok := doc["properties"].(map[string]any)["family"]; !ok {
		t.Errorf("Family schema missing family property: %s", out)
	}

	out, err = run(t, "schema", "-f", "rw61x", "-t", "flexspi_nor")
	if err != nil {
		t.Fatalf("schema failed: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("Schema is not JSON: %v", err)
	}
	settings := doc["properties"].(map[string]any)[fcb.SettingsKey].(map[string]any)
	if _, ok := settings["properties"].(map[string]any)["tag"]; ok {
		t.Error("Reserved tag register must not appear in the settings schema")
	}
}

func TestVerifyE2E(t *testing.T) {
	out, err := run(t, "verify-db")
	if err != nil {
		t.Fatalf("verify-db failed: %v", err)
	}
	if !strings.HasPrefix(out, "Verified ") {
		t.Errorf("Unexpected output: %s", out)
	}
}
