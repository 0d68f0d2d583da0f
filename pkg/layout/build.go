package layout

import (
	"fmt"
	"io/fs"
	"math/big"

	"github.com/OpenTraceLab/OpenTraceFCB/pkg/regs"
)

// LayoutError reports a layout description that parses but cannot describe a
// valid register bank.
type LayoutError struct {
	File   string
	Line   int
	Reason string
}

func (e *LayoutError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("layout %s:%d: %s", e.File, e.Line, e.Reason)
	}
	return fmt.Sprintf("layout %s: %s", e.File, e.Reason)
}

// Build materializes a parsed layout into a register bank at reset values.
// Registers keep the order in which the file declares them.
func Build(name string, file *File) (*regs.Bank, error) {
	if file == nil || file.Header == nil {
		return nil, &LayoutError{File: name, Reason: "missing layout header"}
	}

	order := regs.LittleEndian
	if file.Header.Endian == "big" {
		order = regs.BigEndian
	}
	bank := regs.NewBank(file.Header.Name.GetValue(), int(file.Header.Size), order)

	for _, decl := range file.Registers {
		reg, err := decl.register()
		if err != nil {
			return nil, &LayoutError{File: name, Line: decl.Pos.Line, Reason: err.Error()}
		}
		if err := bank.Add(reg); err != nil {
			return nil, &LayoutError{File: name, Line: decl.Pos.Line, Reason: err.Error()}
		}
	}
	return bank, nil
}

func (d *RegisterDecl) register() (*regs.Register, error) {
	reg := &regs.Register{
		Name:        d.Name,
		Offset:      int(d.Offset),
		Width:       int(d.Width),
		Description: d.Description.GetValue(),
	}
	if d.Reserved {
		reg.Access = regs.AccessReserved
	}
	if d.Reset != nil {
		v, ok := new(big.Int).SetString(*d.Reset, 0)
		if !ok {
			return nil, fmt.Errorf("register %s: invalid reset value %q", d.Name, *d.Reset)
		}
		reg.Reset = v
	}
	for _, fd := range d.Fields {
		field := &regs.Bitfield{
			Name:        fd.Name,
			Offset:      int(fd.Offset),
			Width:       int(fd.Width),
			Description: fd.Description.GetValue(),
		}
		for _, ed := range fd.Values {
			field.Enum = append(field.Enum, regs.EnumValue{
				Name:        ed.Name,
				Value:       ed.Value,
				Description: ed.Description.GetValue(),
			})
		}
		reg.Bitfields = append(reg.Bitfields, field)
	}
	return reg, nil
}

// Source loads register layouts by location.
type Source interface {
	Load(location string) (*regs.Bank, error)
}

// FSSource reads layout files from a file system.
type FSSource struct {
	fsys   fs.FS
	parser *Parser
}

// NewFSSource creates a Source backed by fsys.
func NewFSSource(fsys fs.FS) (*FSSource, error) {
	parser, err := NewParser()
	if err != nil {
		return nil, err
	}
	return &FSSource{fsys: fsys, parser: parser}, nil
}

// Load parses the layout at location and builds a fresh bank from it. Every
// call returns a new, independent bank.
func (s *FSSource) Load(location string) (*regs.Bank, error) {
	f, err := s.fsys.Open(location)
	if err != nil {
		return nil, fmt.Errorf("layout: open %s: %w", location, err)
	}
	defer f.Close()

	file, err := s.parser.Parse(location, f)
	if err != nil {
		return nil, fmt.Errorf("layout: %s: %w", location, err)
	}
	return Build(location, file)
}

// LoadFile parses the layout file at path and builds a bank from it.
func LoadFile(path string) (*regs.Bank, error) {
	parser, err := NewParser()
	if err != nil {
		return nil, err
	}
	file, err := parser.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: %s: %w", path, err)
	}
	return Build(path, file)
}
