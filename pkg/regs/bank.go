package regs

import (
	"fmt"
)

// Bank is an ordered collection of registers describing one binary block.
type Bank struct {
	Name  string
	Size  int // total size in bytes
	Order ByteOrder

	registers []*Register
	index     map[string]*Register
}

// NewBank creates an empty bank of the given byte size.
func NewBank(name string, size int, order ByteOrder) *Bank {
	return &Bank{
		Name:  name,
		Size:  size,
		Order: order,
		index: make(map[string]*Register),
	}
}

// Add appends a register to the layout. The register must fit in the bank,
// must not overlap any register added before it and its name must be unique.
// The register starts at its reset value.
func (b *Bank) Add(r *Register) error {
	if err := r.validate(); err != nil {
		return err
	}
	if _, dup := b.index[r.Name]; dup {
		return fmt.Errorf("regs: duplicate register %s", r.Name)
	}
	end := r.Offset + r.Size()
	if end > b.Size {
		return fmt.Errorf("regs: register %s (0x%X..0x%X) exceeds bank size 0x%X",
			r.Name, r.Offset, end-1, b.Size)
	}
	for _, other := range b.registers {
		if r.Offset < other.Offset+other.Size() && other.Offset < end {
			return fmt.Errorf("regs: register %s overlaps %s", r.Name, other.Name)
		}
	}
	r.reset()
	b.registers = append(b.registers, r)
	b.index[r.Name] = r
	return nil
}

// Registers returns the registers in layout order.
func (b *Bank) Registers() []*Register {
	out := make([]*Register, len(b.registers))
	copy(out, b.registers)
	return out
}

// Find returns the register with exactly the given name.
func (b *Bank) Find(name string) (*Register, error) {
	if r, ok := b.index[name]; ok {
		return r, nil
	}
	return nil, &UnknownRegisterError{Name: name}
}

// Reset puts every register back to its reset value.
func (b *Bank) Reset() {
	for _, r := range b.registers {
		r.reset()
	}
}

// Bytes encodes the whole bank. The result is always Size bytes long.
func (b *Bank) Bytes() []byte {
	out := make([]byte, b.Size)
	for _, r := range b.registers {
		copy(out[r.Offset:], r.Bytes(b.Order))
	}
	return out
}

// SetBytes decodes every non-reserved register from buf. Bytes past Size are
// ignored. The bank is untouched when buf is too short.
func (b *Bank) SetBytes(buf []byte) error {
	if len(buf) < b.Size {
		return &TruncatedInputError{Required: b.Size, Actual: len(buf)}
	}
	for _, r := range b.registers {
		if r.Reserved() {
			r.reset()
			continue
		}
		r.setBytes(buf[r.Offset:r.Offset+r.Size()], b.Order)
	}
	return nil
}

// Clone returns an independent copy of the bank, values included. Bitfield
// descriptions are shared since they are never modified.
func (b *Bank) Clone() *Bank {
	c := NewBank(b.Name, b.Size, b.Order)
	for _, r := range b.registers {
		cr := *r
		cr.value = r.Value()
		if r.Reset != nil {
			cr.Reset = r.ResetValue()
		}
		c.registers = append(c.registers, &cr)
		c.index[cr.Name] = &cr
	}
	return c
}

// Equal reports whether both banks hold the same registers with the same
// values.
func (b *Bank) Equal(other *Bank) bool {
	if other == nil || len(b.registers) != len(other.registers) {
		return false
	}
	for i, r := range b.registers {
		o := other.registers[i]
		if r.Name != o.Name || r.Offset != o.Offset || r.Width != o.Width {
			return false
		}
		if r.Value().Cmp(o.Value()) != 0 {
			return false
		}
	}
	return true
}

// Diff lists registers whose values differ between the two banks. Registers
// are matched by name. Every register differs from a nil bank.
func (b *Bank) Diff(other *Bank) []string {
	var names []string
	for _, r := range b.registers {
		if other == nil {
			names = append(names, r.Name)
			continue
		}
		o, ok := other.index[r.Name]
		if !ok || r.Value().Cmp(o.Value()) != 0 {
			names = append(names, r.Name)
		}
	}
	return names
}
