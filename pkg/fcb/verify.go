package fcb

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/OpenTraceLab/OpenTraceFCB/pkg/devicedb"
)

// Selection names one layout of the device database.
type Selection struct {
	Family   string
	Revision string
	MemType  string
}

func (s Selection) String() string {
	return fmt.Sprintf("%s/%s/%s", s.Family, s.Revision, s.MemType)
}

// Selections enumerates every (family, revision, memory type) the loader
// accepts, ordered by family, revision and type.
func Selections(loader *Loader) ([]Selection, error) {
	provider := loader.Provider()
	var out []Selection
	for _, family := range loader.Families() {
		revisions, err := provider.Revisions(family)
		if err != nil {
			return nil, err
		}
		for _, rev := range revisions {
			types, err := provider.MemoryTypes(family, rev, devicedb.FeatureFCB)
			if err != nil {
				return nil, err
			}
			for _, mt := range types {
				out = append(out, Selection{Family: family, Revision: rev, MemType: mt})
			}
		}
	}
	return out, nil
}

// VerifyDatabase checks every selection concurrently: the schema must
// build, its settings must list exactly the configurable registers and the
// template must load back to the reset binary. The first failure is returned.
func VerifyDatabase(ctx context.Context, loader *Loader) error {
	selections, err := Selections(loader)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, sel := range selections {
		sel := sel
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := verify(loader, sel); err != nil {
				return fmt.Errorf("fcb: verify %s: %w", sel, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	loader.Log.Info("Verified device database", "layouts", len(selections))
	return nil
}

func verify(loader *Loader, sel Selection) error {
	root, err := FullSchema(loader, sel.Family, sel.MemType, sel.Revision)
	if err != nil {
		return err
	}
	reset, err := New(loader, sel.Family, sel.MemType, sel.Revision)
	if err != nil {
		return err
	}

	var configurable []string
	for _, r := range reset.Registers() {
		if !r.Reserved() {
			configurable = append(configurable, r.Name)
		}
	}
	names := root.Child(SettingsKey).Names()
	if fmt.Sprint(names) != fmt.Sprint(configurable) {
		return fmt.Errorf("settings schema lists %v, layout has %v", names, configurable)
	}

	tmpl, err := Template(loader, sel.Family, sel.MemType, sel.Revision)
	if err != nil {
		return err
	}
	seg, err := Load(loader, []byte(tmpl))
	if err != nil {
		return err
	}
	if !bytes.Equal(seg.Serialize(), reset.Serialize()) {
		return fmt.Errorf("template does not reproduce the reset block")
	}
	return nil
}
