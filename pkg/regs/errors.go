package regs

import "fmt"

// TruncatedInputError indicates a buffer shorter than the layout it should hold.
type TruncatedInputError struct {
	Required int
	Actual   int
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("invalid input binary block size: (%d < %d)", e.Actual, e.Required)
}

// UnknownRegisterError indicates a register name that is not part of the bank,
// or that names a reserved register where a writable one is required.
type UnknownRegisterError struct {
	Name     string
	Reserved bool
}

func (e *UnknownRegisterError) Error() string {
	if e.Reserved {
		return fmt.Sprintf("register %q is reserved and cannot be configured", e.Name)
	}
	return fmt.Sprintf("unknown register %q", e.Name)
}

// InvalidValueError indicates a value that cannot be stored in a register or
// bitfield.
type InvalidValueError struct {
	Register string
	Field    string // empty for whole-register values
	Value    any
	Reason   string
}

func (e *InvalidValueError) Error() string {
	target := e.Register
	if e.Field != "" {
		target += "." + e.Field
	}
	return fmt.Sprintf("invalid value %v for %s: %s", e.Value, target, e.Reason)
}
