package devicedb

import "io/fs"

// Feature names a class of boot-ROM data structure a family supports.
type Feature string

const (
	// FeatureFCB is the Flash Configuration Block.
	FeatureFCB Feature = "fcb"
)

// LatestRevision is the revision sentinel resolved to a family's newest
// revision.
const LatestRevision = "latest"

// Provider answers the metadata queries needed to select a register layout.
// The embedded fs.FS serves the layout files named by LayoutPath.
type Provider interface {
	fs.FS

	// Families lists families supporting feature, sorted by name.
	Families(feature Feature) []string
	// Revisions lists the revisions a family declares, oldest first.
	Revisions(family string) ([]string, error)
	// ResolveRevision maps "latest" to a concrete revision and validates
	// any other name.
	ResolveRevision(family, revision string) (string, error)
	// MemoryTypes lists memory types supported for feature on the given
	// family revision, sorted by name.
	MemoryTypes(family, revision string, feature Feature) ([]string, error)
	// LayoutPath returns the location of the layout description.
	LayoutPath(family, memType string, feature Feature) (string, error)
}

// Family describes one device family.
type Family struct {
	Name        string                      `json:"-"`
	Description string                      `json:"description,omitempty"`
	Revisions   []Revision                  `json:"revisions"`
	Latest      string                      `json:"latest,omitempty"`
	Features    map[Feature]*FeatureSupport `json:"features,omitempty"`
}

// Revision is a silicon revision. Features, when present, restricts the
// memory types available on this revision.
type Revision struct {
	Name     string               `json:"name"`
	Features map[Feature][]string `json:"features,omitempty"`
}

// FeatureSupport maps memory type to the layout file describing it.
type FeatureSupport struct {
	MemTypes map[string]string `json:"mem_types"`
}

// revisionNames returns the declared revision names in order.
func (f *Family) revisionNames() []string {
	names := make([]string, len(f.Revisions))
	for i, rev := range f.Revisions {
		names[i] = rev.Name
	}
	return names
}

// latest returns the revision "latest" refers to.
func (f *Family) latest() string {
	if f.Latest != "" {
		return f.Latest
	}
	if len(f.Revisions) == 0 {
		return ""
	}
	return f.Revisions[len(f.Revisions)-1].Name
}
