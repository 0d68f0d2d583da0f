package regs

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
)

// Settings maps register names to configuration values. A value is either a
// scalar (number or numeric string) or, for registers with bitfields, a
// map[string]any of bitfield name to scalar or enumeration name.
type Settings = map[string]any

// Config returns the value of every non-reserved register. Registers with
// bitfields are broken down into their fields, using enumeration names where a
// field value matches one. Other registers, and bitfield registers with bits
// set outside every field, are emitted as zero-padded hex strings.
func (b *Bank) Config() Settings {
	out := make(Settings, len(b.registers))
	for _, r := range b.registers {
		if r.Reserved() {
			continue
		}
		out[r.Name] = r.configValue()
	}
	return out
}

// FormatHex renders a register-sized value as a zero-padded hex string.
func (r *Register) FormatHex(v *big.Int) string {
	return fmt.Sprintf("0x%0*X", r.Size()*2, v)
}

func (r *Register) configValue() any {
	v := r.Value()
	if len(r.Bitfields) == 0 || new(big.Int).AndNot(v, r.fieldMask()).Sign() != 0 {
		return r.FormatHex(v)
	}
	fields := make(map[string]any, len(r.Bitfields))
	for _, f := range r.Bitfields {
		fv := extractField(v, f)
		if name, ok := f.EnumName(fv); ok {
			fields[f.Name] = name
		} else {
			fields[f.Name] = fv
		}
	}
	return fields
}

// LoadConfig applies settings on top of the current register values. Either
// every key resolves and every value is valid, in which case all of them are
// written, or an error is returned and the bank is left unchanged. Registers
// absent from settings keep their current value.
func (b *Bank) LoadConfig(settings Settings) error {
	names := make([]string, 0, len(settings))
	for name := range settings {
		names = append(names, name)
	}
	sort.Strings(names)

	staged := make(map[*Register]*big.Int, len(names))
	for _, name := range names {
		r, ok := b.index[name]
		if !ok {
			return &UnknownRegisterError{Name: name}
		}
		if r.Reserved() {
			return &UnknownRegisterError{Name: name, Reserved: true}
		}
		v, err := r.decode(settings[name])
		if err != nil {
			return err
		}
		staged[r] = v
	}

	for r, v := range staged {
		r.value = v
	}
	return nil
}

func (r *Register) decode(raw any) (*big.Int, error) {
	if fields, ok := raw.(map[string]any); ok {
		if len(r.Bitfields) == 0 {
			return nil, &InvalidValueError{Register: r.Name, Value: raw,
				Reason: "register has no bitfields"}
		}
		staged := &Register{Name: r.Name, Width: r.Width, Bitfields: r.Bitfields, value: r.Value()}
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			f, ok := r.Field(name)
			if !ok {
				return nil, &InvalidValueError{Register: r.Name, Field: name, Value: fields[name],
					Reason: "unknown bitfield"}
			}
			fv, err := r.decodeField(f, fields[name])
			if err != nil {
				return nil, err
			}
			if err := staged.Set(name, fv); err != nil {
				return nil, err
			}
		}
		return staged.value, nil
	}

	v, err := ParseValue(raw)
	if err != nil {
		return nil, &InvalidValueError{Register: r.Name, Value: raw, Reason: err.Error()}
	}
	if err := r.checkRange(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *Register) decodeField(f *Bitfield, raw any) (uint64, error) {
	if s, ok := raw.(string); ok {
		if ev, ok := f.EnumValue(strings.TrimSpace(s)); ok {
			return ev, nil
		}
	}
	v, err := ParseValue(raw)
	if err != nil {
		return 0, &InvalidValueError{Register: r.Name, Field: f.Name, Value: raw, Reason: err.Error()}
	}
	if !v.IsUint64() || v.Uint64() > f.Max() {
		return 0, &InvalidValueError{Register: r.Name, Field: f.Name, Value: raw,
			Reason: fmt.Sprintf("exceeds %d-bit width", f.Width)}
	}
	return v.Uint64(), nil
}

// ParseValue converts a configuration scalar into a non-negative integer.
// Strings may use Go integer literal syntax (0x, 0b, 0o prefixes and
// underscores). Floats must be integral. Booleans map to 0 and 1.
func ParseValue(raw any) (*big.Int, error) {
	var v *big.Int
	switch x := raw.(type) {
	case nil:
		return nil, fmt.Errorf("missing value")
	case *big.Int:
		v = new(big.Int).Set(x)
	case json.Number:
		return parseString(string(x))
	case string:
		return parseString(x)
	case bool:
		if x {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	case int:
		v = big.NewInt(int64(x))
	case int8:
		v = big.NewInt(int64(x))
	case int16:
		v = big.NewInt(int64(x))
	case int32:
		v = big.NewInt(int64(x))
	case int64:
		v = big.NewInt(x)
	case uint:
		v = new(big.Int).SetUint64(uint64(x))
	case uint8:
		v = new(big.Int).SetUint64(uint64(x))
	case uint16:
		v = new(big.Int).SetUint64(uint64(x))
	case uint32:
		v = new(big.Int).SetUint64(uint64(x))
	case uint64:
		v = new(big.Int).SetUint64(x)
	case float32:
		return parseFloat(float64(x))
	case float64:
		return parseFloat(x)
	default:
		return nil, fmt.Errorf("unsupported value type %T", raw)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative value")
	}
	return v, nil
}

func parseString(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("not an integer: %q", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative value")
	}
	return v, nil
}

func parseFloat(f float64) (*big.Int, error) {
	if f < 0 || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return nil, fmt.Errorf("not a non-negative integer: %v", f)
	}
	v, _ := big.NewFloat(f).Int(nil)
	return v, nil
}
