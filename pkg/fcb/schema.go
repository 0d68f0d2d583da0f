package fcb

import (
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/devicedb"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/metrics"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/schema"
)

func familyProperty(provider devicedb.Provider, def string) *schema.Property {
	return schema.Enum("family", "MCU family", "MCU family name.",
		provider.Families(devicedb.FeatureFCB), def)
}

// FamilySchema describes the family selection alone, before a layout can be
// chosen.
func FamilySchema(provider devicedb.Provider) *schema.Property {
	root := schema.Object("", "FCB family", familyProperty(provider, ""))
	root.Required = []string{"family"}
	return root
}

// FullSchema describes a complete document for the selection: the family,
// revision and memory type enumerations with the selection as template
// values, and the settings derived from the layout.
func FullSchema(loader *Loader, family, memType, revision string) (*schema.Property, error) {
	fail := func(err error) (*schema.Property, error) {
		return nil, &SchemaGenerationError{Family: family, Revision: revision, Err: err}
	}

	bank, rev, err := loader.Load(family, memType, revision)
	if err != nil {
		return fail(err)
	}
	provider := loader.Provider()
	revisions, err := provider.Revisions(family)
	if err != nil {
		return fail(err)
	}
	types, err := provider.MemoryTypes(family, rev, devicedb.FeatureFCB)
	if err != nil {
		return fail(err)
	}

	root := schema.Object("", "FCB configuration",
		familyProperty(provider, family),
		schema.Enum("revision", "MCU revision", "Chip revision; latest selects the newest one.",
			append([]string{devicedb.LatestRevision}, revisions...), revision),
		schema.Enum("type", "Memory type", "Type of memory the block configures.", types, memType),
		schema.Settings(SettingsKey, "FCB settings", bank),
	)
	root.Required = []string{"family", "type", SettingsKey}
	return root, nil
}

// Template renders a commented document holding the layout's reset values.
// It returns an empty string for families without FCB support.
func Template(loader *Loader, family, memType, revision string) (string, error) {
	if !contains(loader.Families(), family) {
		loader.Log.V(1).Info("No template for family", "family", family)
		return "", nil
	}
	root, err := FullSchema(loader, family, memType, revision)
	if err != nil {
		return "", err
	}
	cfg := &schema.CommentedConfig{
		Title:  "Flash Configuration Block template for " + family + ".",
		Schema: root,
	}
	out, err := cfg.Template()
	if err != nil {
		return "", err
	}
	metrics.TemplatesTotal.Inc()
	return out, nil
}
