package fcb

import (
	"bytes"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/OpenTraceLab/OpenTraceFCB/pkg/devicedb"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/layout"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/metrics"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/regs"
)

// Loader resolves a (family, memory type, revision) selection to a fresh
// register bank. It keeps no state between calls.
type Loader struct {
	provider devicedb.Provider
	source   layout.Source

	Log logr.Logger
}

// NewLoader creates a loader reading layouts from the provider's file system.
func NewLoader(provider devicedb.Provider) (*Loader, error) {
	source, err := layout.NewFSSource(provider)
	if err != nil {
		return nil, err
	}
	return NewLoaderWithSource(provider, source), nil
}

// NewLoaderWithSource creates a loader with an explicit layout source.
func NewLoaderWithSource(provider devicedb.Provider, source layout.Source) *Loader {
	return &Loader{
		provider: provider,
		source:   source,
		Log:      logr.Discard(),
	}
}

// Provider returns the device metadata provider.
func (l *Loader) Provider() devicedb.Provider {
	return l.provider
}

// Families lists the families supporting the FCB.
func (l *Loader) Families() []string {
	return l.provider.Families(devicedb.FeatureFCB)
}

// Load validates the selection and builds the bank at reset values. It also
// returns the concrete revision "latest" resolved to.
func (l *Loader) Load(family, memType, revision string) (*regs.Bank, string, error) {
	log := l.Log.WithValues("family", family, "type", memType, "revision", revision)

	if !contains(l.Families(), family) {
		return nil, "", &devicedb.UnsupportedFamilyError{Family: family, Known: l.Families()}
	}
	rev, err := l.provider.ResolveRevision(family, revision)
	if err != nil {
		return nil, "", err
	}
	types, err := l.provider.MemoryTypes(family, rev, devicedb.FeatureFCB)
	if err != nil {
		return nil, "", err
	}
	if !contains(types, memType) {
		return nil, "", &devicedb.UnsupportedMemoryTypeError{
			Family: family, Revision: rev, MemType: memType, Valid: types,
		}
	}

	path, err := l.provider.LayoutPath(family, memType, devicedb.FeatureFCB)
	if err != nil {
		return nil, "", err
	}
	bank, err := l.source.Load(path)
	if err != nil {
		return nil, "", err
	}
	if bank.Size != Size {
		return nil, "", fmt.Errorf("fcb: layout %s describes 0x%X bytes, want 0x%X", path, bank.Size, Size)
	}
	tag, err := bank.Find(SignatureRegister)
	if err != nil {
		return nil, "", fmt.Errorf("fcb: layout %s: %w", path, err)
	}
	if tag.Width != len(Signature)*8 || !bytes.Equal(tag.Bytes(bank.Order), Signature) {
		return nil, "", fmt.Errorf("fcb: layout %s: %s register must be %d bits with reset %q",
			path, SignatureRegister, len(Signature)*8, Signature)
	}

	metrics.LayoutLoadsTotal.Inc()
	log.V(1).Info("Loaded layout", "resolved", rev, "layout", path, "registers", len(bank.Registers()))
	return bank, rev, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
