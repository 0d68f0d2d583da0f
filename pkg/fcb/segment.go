package fcb

import (
	"bytes"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/OpenTraceLab/OpenTraceFCB/pkg/metrics"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/regs"
)

const (
	// Size is the byte length of every FCB.
	Size = 0x200

	// SignatureRegister holds the block signature.
	SignatureRegister = "tag"
)

// Signature is the tag every FCB starts with.
var Signature = []byte("FCFB")

// Segment is a Flash Configuration Block bound to the layout of one family,
// revision and memory type.
type Segment struct {
	Family   string
	Revision string // concrete, never "latest"
	MemType  string

	bank   *regs.Bank
	loader *Loader
	log    logr.Logger
}

// New builds a segment holding the layout's reset values.
func New(loader *Loader, family, memType, revision string) (*Segment, error) {
	bank, rev, err := loader.Load(family, memType, revision)
	if err != nil {
		return nil, err
	}
	return &Segment{
		Family:   family,
		Revision: rev,
		MemType:  memType,
		bank:     bank,
		loader:   loader,
		log:      loader.Log.WithName("segment").WithValues("family", family, "revision", rev, "type", memType),
	}, nil
}

// Parse builds a segment for the selection and decodes the block found at
// offset in buf.
func Parse(loader *Loader, buf []byte, offset int, family, memType, revision string) (*Segment, error) {
	seg, err := New(loader, family, memType, revision)
	if err != nil {
		return nil, err
	}
	if err := seg.Parse(buf, offset); err != nil {
		return nil, err
	}
	return seg, nil
}

// Parse decodes the block found at offset in buf. Bytes past the block are
// ignored. On error the segment keeps its previous values.
func (s *Segment) Parse(buf []byte, offset int) error {
	remaining := 0
	if offset >= 0 && offset <= len(buf) {
		remaining = len(buf) - offset
	}
	if remaining < Size {
		metrics.ParseFailuresTotal.WithLabelValues(metrics.ReasonTruncated).Inc()
		return &regs.TruncatedInputError{Required: Size, Actual: remaining}
	}
	block := buf[offset : offset+Size]

	tag, err := s.bank.Find(SignatureRegister)
	if err != nil {
		return err
	}
	// The tag register is reserved, so the bank would restore it on decode.
	// Check the raw bytes instead.
	actual := block[tag.Offset : tag.Offset+tag.Size()]
	if !bytes.Equal(actual, Signature) {
		metrics.ParseFailuresTotal.WithLabelValues(metrics.ReasonSignature).Inc()
		return &SignatureMismatchError{
			Expected: append([]byte(nil), Signature...),
			Actual:   append([]byte(nil), actual...),
		}
	}

	if err := s.bank.SetBytes(block); err != nil {
		return err
	}
	metrics.ParseTotal.Inc()
	s.log.V(1).Info("Parsed block", "offset", offset)
	return nil
}

// Serialize encodes the segment. The result is always Size bytes.
func (s *Segment) Serialize() []byte {
	return s.bank.Bytes()
}

// Bank returns the register bank backing the segment.
func (s *Segment) Bank() *regs.Bank {
	return s.bank
}

// Registers returns the registers in layout order.
func (s *Segment) Registers() []*regs.Register {
	return s.bank.Registers()
}

func (s *Segment) String() string {
	return fmt.Sprintf("FCB Segment:\n"+
		" Family:           %s\n"+
		" Revision:         %s\n"+
		" Memory type:      %s\n", s.Family, s.Revision, s.MemType)
}
