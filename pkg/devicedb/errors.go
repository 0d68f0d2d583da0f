package devicedb

import (
	"fmt"
	"strings"
)

// UnsupportedFamilyError indicates a family that is not in the database, or
// that does not support the requested feature.
type UnsupportedFamilyError struct {
	Family string
	Known  []string
}

func (e *UnsupportedFamilyError) Error() string {
	return fmt.Sprintf("unsupported family %q, supported families: %s",
		e.Family, strings.Join(e.Known, ", "))
}

// UnsupportedRevisionError indicates a revision the family does not declare.
type UnsupportedRevisionError struct {
	Family   string
	Revision string
	Valid    []string
}

func (e *UnsupportedRevisionError) Error() string {
	return fmt.Sprintf("unsupported revision %q for family %s, valid revisions: %s",
		e.Revision, e.Family, strings.Join(e.Valid, ", "))
}

// UnsupportedMemoryTypeError indicates a memory type the family does not
// support for the requested feature and revision.
type UnsupportedMemoryTypeError struct {
	Family   string
	Revision string
	MemType  string
	Valid    []string
}

func (e *UnsupportedMemoryTypeError) Error() string {
	target := e.Family
	if e.Revision != "" {
		target += " (" + e.Revision + ")"
	}
	return fmt.Sprintf("unsupported memory type %q for %s, not in [%s]",
		e.MemType, target, strings.Join(e.Valid, ", "))
}
