package schema

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/OpenTraceLab/OpenTraceFCB/pkg/regs"
)

// FormatNumber marks values that may be given as integers or numeric strings
// (decimal, 0x, 0b).
const FormatNumber = "number"

// Settings derives the schema of a bank's configuration: one property per
// non-reserved register, in layout order. Ranges come from bit widths and
// enumerations from the layout; template values are the reset values.
func Settings(name, title string, bank *regs.Bank) *Property {
	settings := Object(name, title)
	settings.Closed = true
	for _, r := range bank.Registers() {
		if r.Reserved() {
			continue
		}
		settings.Properties = append(settings.Properties, registerProperty(r))
	}
	return settings
}

func registerProperty(r *regs.Register) *Property {
	reset := r.ResetValue()
	p := &Property{
		Name:        r.Name,
		Title:       r.Name,
		Description: r.Description,
		Types:       []Type{TypeString, TypeInteger},
		Format:      FormatNumber,
		Minimum:     new(big.Int),
		Maximum:     maxForWidth(r.Width),
		Default:     r.FormatHex(reset),
	}
	if len(r.Bitfields) == 0 {
		return p
	}

	p.Types = []Type{TypeObject, TypeString, TypeInteger}
	p.Closed = true
	for _, f := range r.Bitfields {
		p.Properties = append(p.Properties, bitfieldProperty(f, fieldValue(reset, f)))
	}
	return p
}

func bitfieldProperty(f *regs.Bitfield, reset uint64) *Property {
	p := &Property{
		Name:        f.Name,
		Title:       f.Name,
		Description: describeField(f),
		Types:       []Type{TypeString, TypeInteger},
		Format:      FormatNumber,
		Minimum:     new(big.Int),
		Maximum:     new(big.Int).SetUint64(f.Max()),
		Default:     reset,
	}
	if len(f.Enum) > 0 {
		p.Enum = make([]string, len(f.Enum))
		for i, e := range f.Enum {
			p.Enum[i] = e.Name
		}
		if name, ok := f.EnumName(reset); ok {
			p.Default = name
		}
	}
	return p
}

func describeField(f *regs.Bitfield) string {
	var b strings.Builder
	b.WriteString(f.Description)
	if b.Len() > 0 {
		b.WriteString(" ")
	}
	if f.Width == 1 {
		fmt.Fprintf(&b, "(bit %d)", f.Offset)
	} else {
		fmt.Fprintf(&b, "(bits %d..%d)", f.Offset, f.Offset+f.Width-1)
	}
	for _, e := range f.Enum {
		fmt.Fprintf(&b, "\n- %s (%d)", e.Name, e.Value)
		if e.Description != "" {
			fmt.Fprintf(&b, ": %s", e.Description)
		}
	}
	return b.String()
}

func maxForWidth(width int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return m.Sub(m, big.NewInt(1))
}

func fieldValue(v *big.Int, f *regs.Bitfield) uint64 {
	x := new(big.Int).Rsh(v, uint(f.Offset))
	return x.And(x, maxForWidth(f.Width)).Uint64()
}
