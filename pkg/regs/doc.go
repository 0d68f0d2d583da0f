// Package regs models a bank of fixed-layout registers as found in boot ROM
// configuration blocks.
//
// A Bank is an ordered list of Registers that together describe one complete
// binary block. Each Register sits at a byte offset, has a bit width and a
// reset value, and may be subdivided into named Bitfields. Bitfields can carry
// an enumeration of named values.
//
// # Representations
//
// The same bank state can be read or written in two forms:
//
//   - raw bytes: Bank.Bytes and Bank.SetBytes encode every register at its
//     offset using the bank's byte order; gaps are zero-filled.
//   - settings: Bank.Config and Bank.LoadConfig convert to and from a nested
//     map keyed by register name, suitable for YAML or JSON documents.
//
// Reserved registers never leave their reset value through either path: they
// are skipped when decoding bytes and are rejected as config keys.
//
// # Usage
//
//	bank := regs.NewBank("example", 8, regs.LittleEndian)
//	_ = bank.Add(&regs.Register{Name: "tag", Offset: 0, Width: 32,
//		Reset: big.NewInt(0x42464346), Access: regs.AccessReserved})
//	_ = bank.Add(&regs.Register{Name: "ctrl", Offset: 4, Width: 32,
//		Bitfields: []*regs.Bitfield{{Name: "enable", Offset: 0, Width: 1}}})
//	bank.Reset()
//
//	err := bank.LoadConfig(map[string]any{"ctrl": map[string]any{"enable": 1}})
//	raw := bank.Bytes() // 46 43 46 42 01 00 00 00
//
// A bank is not safe for concurrent mutation. Read-only calls (Bytes, Config,
// Find) may run concurrently with each other.
package regs
