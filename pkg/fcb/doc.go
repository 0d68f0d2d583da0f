// Package fcb encodes and decodes the Flash Configuration Block (FCB), the
// 512-byte structure a boot ROM reads to learn how to talk to external flash.
//
// The layout of the block depends on the device family, its silicon revision
// and the memory type. A Loader resolves such a selection through a
// devicedb.Provider and builds a fresh register bank for every operation.
//
// # Overview
//
// The package provides:
//   - Loader: selection validation and layout loading
//   - Segment: binary codec with size and signature checks
//   - Document: the editable YAML/JSON form of a segment
//   - FullSchema, Template: validation schema and annotated template
//   - VerifyDatabase: consistency check of every layout in a database
//
// # Usage
//
//	// 1. Open the device database
//	db, err := devicedb.Default()
//	loader, err := fcb.NewLoader(db)
//
//	// 2. Decode a block found at the start of an image
//	seg, err := fcb.Parse(loader, image, 0, "mimxrt1170", "flexspi_nor", "latest")
//
//	// 3. Export it for editing
//	doc, err := seg.Export()
//
//	// 4. Build a binary from an edited document
//	seg, err = fcb.Load(loader, edited)
//	bin := seg.Serialize()
//
// # Binary Layout
//
// The block is always Size bytes. The first register, tag, holds the ASCII
// signature "FCFB" and is reserved: configuration documents cannot change it
// and decoding never takes it from the input. All other registers are
// little-endian. Bytes following the block in the input are ignored.
//
// # Document Format
//
//	family: mimxrt1170
//	revision: latest
//	type: flexspi_nor
//	fcb_settings:
//	  readSampleClkSrc:
//	    source: LoopbackFromDqsPad
//	  pageSize: "0x00000100"
//
// Registers without bitfields are written as hex strings. Registers with
// bitfields are broken down per field, using enumeration names where the
// layout declares them. A bitfield register with bits set outside every
// field is written as a hex string instead, so no bits are lost. Registers
// missing from fcb_settings keep their reset value.
package fcb
