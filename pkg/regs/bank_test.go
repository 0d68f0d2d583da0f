package regs

import (
	"bytes"
	"errors"
	"math/big"
	"testing"
)

func testBank(t *testing.T) *Bank {
	t.Helper()
	bank := NewBank("test", 16, LittleEndian)
	regsToAdd := []*Register{
		{Name: "tag", Offset: 0, Width: 32, Reset: big.NewInt(0x42464346), Access: AccessReserved},
		{Name: "version", Offset: 4, Width: 32, Reset: big.NewInt(0x56010400),
			Bitfields: []*Bitfield{
				{Name: "bugfix", Offset: 0, Width: 8},
				{Name: "minor", Offset: 8, Width: 8},
				{Name: "major", Offset: 16, Width: 8},
				{Name: "ascii", Offset: 24, Width: 8},
			}},
		{Name: "clkSrc", Offset: 8, Width: 8,
			Bitfields: []*Bitfield{
				{Name: "source", Offset: 0, Width: 2, Enum: []EnumValue{
					{Name: "Internal", Value: 0},
					{Name: "DqsPad", Value: 1},
					{Name: "SckPad", Value: 2},
				}},
				{Name: "invert", Offset: 7, Width: 1},
			}},
		{Name: "pageSize", Offset: 12, Width: 32},
	}
	for _, r := range regsToAdd {
		if err := bank.Add(r); err != nil {
			t.Fatalf("Failed to add register %s: %v", r.Name, err)
		}
	}
	return bank
}

func TestBankBytesResetDefaults(t *testing.T) {
	bank := testBank(t)

	want := []byte{
		0x46, 0x43, 0x46, 0x42, // FCFB
		0x00, 0x04, 0x01, 0x56,
		0x00, 0x00, 0x00, 0x00, // clkSrc + 3 byte gap
		0x00, 0x00, 0x00, 0x00,
	}
	if got := bank.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("Bytes() = % X, want % X", got, want)
	}
}

func TestBankBigEndian(t *testing.T) {
	bank := NewBank("be", 4, BigEndian)
	if err := bank.Add(&Register{Name: "word", Offset: 0, Width: 32, Reset: big.NewInt(0x01020304)}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got := bank.Bytes(); !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("Bytes() = % X, want 01 02 03 04", got)
	}
}

func TestBankSetBytesRoundTrip(t *testing.T) {
	bank := testBank(t)
	buf := []byte{
		0x46, 0x43, 0x46, 0x42,
		0x03, 0x02, 0x01, 0x56,
		0x82, 0x00, 0x00, 0x00,
		0x00, 0x01, 0x00, 0x00,
		0xEE, 0xEE, // trailing bytes are ignored
	}
	if err := bank.SetBytes(buf); err != nil {
		t.Fatalf("SetBytes failed: %v", err)
	}

	reg, _ := bank.Find("pageSize")
	if v, _ := reg.Uint64(); v != 0x100 {
		t.Errorf("pageSize = 0x%X, want 0x100", v)
	}
	clk, _ := bank.Find("clkSrc")
	if v, _ := clk.Get("source"); v != 2 {
		t.Errorf("clkSrc.source = %d, want 2", v)
	}
	if v, _ := clk.Get("invert"); v != 1 {
		t.Errorf("clkSrc.invert = %d, want 1", v)
	}

	if got := bank.Bytes(); !bytes.Equal(got, buf[:16]) {
		t.Errorf("Bytes() after SetBytes = % X, want % X", got, buf[:16])
	}

	other := testBank(t)
	if err := other.SetBytes(bank.Bytes()); err != nil {
		t.Fatalf("SetBytes failed: %v", err)
	}
	if !bank.Equal(other) {
		t.Errorf("Round trip mismatch, differing registers: %v", bank.Diff(other))
	}
}

func TestBankSetBytesReservedKeepsReset(t *testing.T) {
	bank := testBank(t)
	buf := make([]byte, 16)
	copy(buf, "XXXX")
	if err := bank.SetBytes(buf); err != nil {
		t.Fatalf("SetBytes failed: %v", err)
	}
	tag, _ := bank.Find("tag")
	if v, _ := tag.Uint64(); v != 0x42464346 {
		t.Errorf("Reserved tag = 0x%X, want reset value 0x42464346", v)
	}
}

func TestBankSetBytesTruncated(t *testing.T) {
	bank := testBank(t)
	err := bank.SetBytes(make([]byte, 15))

	var trunc *TruncatedInputError
	if !errors.As(err, &trunc) {
		t.Fatalf("Expected TruncatedInputError, got %v", err)
	}
	if trunc.Required != 16 || trunc.Actual != 15 {
		t.Errorf("TruncatedInputError = %+v, want Required=16 Actual=15", trunc)
	}
}

func TestBankFind(t *testing.T) {
	bank := testBank(t)

	if _, err := bank.Find("pageSize"); err != nil {
		t.Errorf("Find(pageSize) failed: %v", err)
	}

	for _, name := range []string{"PageSize", "page", "pageSize ", ""} {
		_, err := bank.Find(name)
		var unknown *UnknownRegisterError
		if !errors.As(err, &unknown) {
			t.Errorf("Find(%q): expected UnknownRegisterError, got %v", name, err)
		}
	}
}

func TestBankAddRejectsBadLayout(t *testing.T) {
	tests := []struct {
		name string
		reg  *Register
	}{
		{"overlap", &Register{Name: "overlap", Offset: 2, Width: 32}},
		{"duplicate", &Register{Name: "tag", Offset: 9, Width: 8}},
		{"out of bank", &Register{Name: "tail", Offset: 15, Width: 16}},
		{"reset too wide", &Register{Name: "wide", Offset: 9, Width: 8, Reset: big.NewInt(0x100)}},
		{"field outside register", &Register{Name: "f", Offset: 9, Width: 8,
			Bitfields: []*Bitfield{{Name: "x", Offset: 4, Width: 5}}}},
		{"overlapping fields", &Register{Name: "f", Offset: 9, Width: 8,
			Bitfields: []*Bitfield{{Name: "a", Offset: 0, Width: 4}, {Name: "b", Offset: 3, Width: 2}}}},
		{"enum too wide", &Register{Name: "f", Offset: 9, Width: 8,
			Bitfields: []*Bitfield{{Name: "a", Offset: 0, Width: 1, Enum: []EnumValue{{Name: "Two", Value: 2}}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank := testBank(t)
			if err := bank.Add(tt.reg); err == nil {
				t.Errorf("Expected error adding %s", tt.reg.Name)
			}
		})
	}
}

func TestRegisterNonByteWidth(t *testing.T) {
	bank := NewBank("odd", 2, LittleEndian)
	reg := &Register{Name: "odd", Offset: 0, Width: 12}
	if err := bank.Add(reg); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if reg.Size() != 2 {
		t.Errorf("Size() = %d, want 2", reg.Size())
	}

	// Bits above the declared width are dropped on decode.
	if err := bank.SetBytes([]byte{0xFF, 0xFF}); err != nil {
		t.Fatalf("SetBytes failed: %v", err)
	}
	if v, _ := reg.Uint64(); v != 0xFFF {
		t.Errorf("Value = 0x%X, want 0xFFF", v)
	}
	if err := reg.SetValue(big.NewInt(0x1000)); err == nil {
		t.Error("Expected error storing 13-bit value in 12-bit register")
	}
}

func TestLargeRegister(t *testing.T) {
	bank := NewBank("lut", 16, LittleEndian)
	reg := &Register{Name: "lut", Offset: 0, Width: 128}
	if err := bank.Add(reg); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = byte(i)
	}
	if err := bank.SetBytes(buf); err != nil {
		t.Fatalf("SetBytes failed: %v", err)
	}
	if got := bank.Bytes(); !bytes.Equal(got, buf) {
		t.Errorf("Bytes() = % X, want % X", got, buf)
	}
	want := "0x0F0E0D0C0B0A09080706050403020100"
	if got := bank.Config()["lut"]; got != want {
		t.Errorf("Config()[lut] = %v, want %s", got, want)
	}
}

func TestBankClone(t *testing.T) {
	bank := testBank(t)
	page, _ := bank.Find("pageSize")
	if err := page.SetValue(big.NewInt(512)); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	clone := bank.Clone()
	if !bank.Equal(clone) {
		t.Fatal("Clone must equal the original")
	}

	cp, _ := clone.Find("pageSize")
	if err := cp.SetValue(big.NewInt(1024)); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if v, _ := page.Uint64(); v != 512 {
		t.Errorf("Original changed through clone: pageSize = %d", v)
	}
	if diff := bank.Diff(clone); len(diff) != 1 || diff[0] != "pageSize" {
		t.Errorf("Diff = %v, want [pageSize]", diff)
	}
	if diff := bank.Diff(nil); len(diff) != len(bank.Registers()) {
		t.Errorf("Diff(nil) = %v, want every register", diff)
	}
}
