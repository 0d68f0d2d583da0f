package regs

import (
	"fmt"
	"math/big"
)

// ByteOrder selects how multi-byte register values are laid out.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big"
	}
	return "little"
}

// Access tags a register as writable from configuration or not.
type Access int

const (
	AccessNormal Access = iota
	AccessReserved
)

// EnumValue is one named value of a bitfield enumeration.
type EnumValue struct {
	Name        string
	Value       uint64
	Description string
}

// Bitfield is a named range of bits inside a register.
type Bitfield struct {
	Name        string
	Offset      int // bit offset from the register LSB
	Width       int // 1..64
	Description string
	Enum        []EnumValue
}

// Max returns the largest value the bitfield can hold.
func (f *Bitfield) Max() uint64 {
	if f.Width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(f.Width) - 1
}

// EnumName returns the enumeration name for value, if one is declared.
func (f *Bitfield) EnumName(value uint64) (string, bool) {
	for _, e := range f.Enum {
		if e.Value == value {
			return e.Name, true
		}
	}
	return "", false
}

// EnumValue looks up a declared enumeration entry by name.
func (f *Bitfield) EnumValue(name string) (uint64, bool) {
	for _, e := range f.Enum {
		if e.Name == name {
			return e.Value, true
		}
	}
	return 0, false
}

// Register is a fixed-width value at a byte offset within a bank.
type Register struct {
	Name        string
	Offset      int      // byte offset within the bank
	Width       int      // bits; occupies Size() bytes
	Reset       *big.Int // nil means zero
	Access      Access
	Description string
	Bitfields   []*Bitfield

	value *big.Int
}

// Size returns the number of bytes the register occupies.
func (r *Register) Size() int {
	return (r.Width + 7) / 8
}

// Reserved reports whether the register is read-only for configuration input.
func (r *Register) Reserved() bool {
	return r.Access == AccessReserved
}

// Field returns the bitfield with the given name.
func (r *Register) Field(name string) (*Bitfield, bool) {
	for _, f := range r.Bitfields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// ResetValue returns a copy of the reset value.
func (r *Register) ResetValue() *big.Int {
	if r.Reset == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(r.Reset)
}

// Value returns a copy of the current value.
func (r *Register) Value() *big.Int {
	if r.value == nil {
		return r.ResetValue()
	}
	return new(big.Int).Set(r.value)
}

// Uint64 returns the current value when it fits in 64 bits.
func (r *Register) Uint64() (uint64, bool) {
	v := r.Value()
	if !v.IsUint64() {
		return 0, false
	}
	return v.Uint64(), true
}

// SetValue stores v after checking it fits the register width.
func (r *Register) SetValue(v *big.Int) error {
	if err := r.checkRange(v); err != nil {
		return err
	}
	r.value = new(big.Int).Set(v)
	return nil
}

// Get returns the value of a bitfield.
func (r *Register) Get(field string) (uint64, error) {
	f, ok := r.Field(field)
	if !ok {
		return 0, &InvalidValueError{Register: r.Name, Field: field, Reason: "unknown bitfield"}
	}
	return extractField(r.Value(), f), nil
}

// Set writes a bitfield, leaving the other bits untouched.
func (r *Register) Set(field string, v uint64) error {
	f, ok := r.Field(field)
	if !ok {
		return &InvalidValueError{Register: r.Name, Field: field, Value: v, Reason: "unknown bitfield"}
	}
	if v > f.Max() {
		return &InvalidValueError{Register: r.Name, Field: field, Value: v,
			Reason: fmt.Sprintf("exceeds %d-bit width", f.Width)}
	}
	r.value = insertField(r.Value(), f, v)
	return nil
}

// Bytes encodes the current value into Size() bytes.
func (r *Register) Bytes(order ByteOrder) []byte {
	out := make([]byte, r.Size())
	r.Value().FillBytes(out)
	if order == LittleEndian {
		reverse(out)
	}
	return out
}

func (r *Register) setBytes(b []byte, order ByteOrder) {
	buf := make([]byte, r.Size())
	copy(buf, b)
	if order == LittleEndian {
		reverse(buf)
	}
	v := new(big.Int).SetBytes(buf)
	r.value = v.And(v, mask(r.Width))
}

func (r *Register) reset() {
	r.value = r.ResetValue()
}

func (r *Register) checkRange(v *big.Int) error {
	if v.Sign() < 0 {
		return &InvalidValueError{Register: r.Name, Value: v, Reason: "negative value"}
	}
	if v.BitLen() > r.Width {
		return &InvalidValueError{Register: r.Name, Value: fmt.Sprintf("0x%X", v),
			Reason: fmt.Sprintf("exceeds %d-bit width", r.Width)}
	}
	return nil
}

func (r *Register) validate() error {
	if r.Name == "" {
		return fmt.Errorf("regs: register at offset 0x%X has no name", r.Offset)
	}
	if r.Width <= 0 {
		return fmt.Errorf("regs: register %s: width must be positive", r.Name)
	}
	if r.Offset < 0 {
		return fmt.Errorf("regs: register %s: negative offset", r.Name)
	}
	if err := r.checkRange(r.ResetValue()); err != nil {
		return fmt.Errorf("regs: register %s reset value: %w", r.Name, err)
	}
	seen := make(map[string]bool, len(r.Bitfields))
	for i, f := range r.Bitfields {
		if f.Name == "" {
			return fmt.Errorf("regs: register %s: bitfield %d has no name", r.Name, i)
		}
		if seen[f.Name] {
			return fmt.Errorf("regs: register %s: duplicate bitfield %s", r.Name, f.Name)
		}
		seen[f.Name] = true
		if f.Width < 1 || f.Width > 64 {
			return fmt.Errorf("regs: %s.%s: width %d out of range 1..64", r.Name, f.Name, f.Width)
		}
		if f.Offset < 0 || f.Offset+f.Width > r.Width {
			return fmt.Errorf("regs: %s.%s: bits %d..%d outside %d-bit register",
				r.Name, f.Name, f.Offset, f.Offset+f.Width-1, r.Width)
		}
		for _, other := range r.Bitfields[:i] {
			if f.Offset < other.Offset+other.Width && other.Offset < f.Offset+f.Width {
				return fmt.Errorf("regs: %s.%s overlaps %s.%s", r.Name, f.Name, r.Name, other.Name)
			}
		}
		for _, e := range f.Enum {
			if e.Value > f.Max() {
				return fmt.Errorf("regs: %s.%s: enum %s=%d exceeds %d-bit width",
					r.Name, f.Name, e.Name, e.Value, f.Width)
			}
		}
	}
	return nil
}

// fieldMask covers the bits of every declared bitfield.
func (r *Register) fieldMask() *big.Int {
	m := new(big.Int)
	for _, f := range r.Bitfields {
		m.Or(m, new(big.Int).Lsh(mask(f.Width), uint(f.Offset)))
	}
	return m
}

func mask(width int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return m.Sub(m, big.NewInt(1))
}

func extractField(v *big.Int, f *Bitfield) uint64 {
	x := new(big.Int).Rsh(v, uint(f.Offset))
	return x.And(x, mask(f.Width)).Uint64()
}

func insertField(v *big.Int, f *Bitfield, field uint64) *big.Int {
	fieldMask := new(big.Int).Lsh(mask(f.Width), uint(f.Offset))
	out := new(big.Int).AndNot(v, fieldMask)
	bits := new(big.Int).Lsh(new(big.Int).SetUint64(field), uint(f.Offset))
	return out.Or(out, bits)
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
