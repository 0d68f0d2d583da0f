package devicedb

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/ghodss/yaml"
)

//go:embed data
var dataFS embed.FS

// DatabaseFile is the name of the database document within a database
// directory.
const DatabaseFile = "database.yaml"

// Store is an in-memory Provider. Layout files are served from the file
// system it was created with.
type Store struct {
	fs.FS

	mu       sync.RWMutex
	families map[string]*Family
}

// NewStore creates an empty store serving layouts from fsys.
func NewStore(fsys fs.FS) *Store {
	return &Store{
		FS:       fsys,
		families: make(map[string]*Family),
	}
}

// Default loads the database shipped with the module.
func Default() (*Store, error) {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load reads DatabaseFile from fsys and validates every entry, including the
// presence of each referenced layout file.
func Load(fsys fs.FS) (*Store, error) {
	data, err := fs.ReadFile(fsys, DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("devicedb: read %s: %w", DatabaseFile, err)
	}
	s := NewStore(fsys)
	if err := s.LoadYAML(data); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadYAML adds every family from a database document.
func (s *Store) LoadYAML(data []byte) error {
	var doc struct {
		Families map[string]*Family `json:"families"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("devicedb: parse database: %w", err)
	}
	names := make([]string, 0, len(doc.Families))
	for name := range doc.Families {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.Add(name, doc.Families[name]); err != nil {
			return err
		}
	}
	return nil
}

// Add registers a family under name after checking it is self-consistent.
func (s *Store) Add(name string, family *Family) error {
	if family == nil {
		return fmt.Errorf("devicedb: family %s: empty entry", name)
	}
	family.Name = name
	if err := s.check(family); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.families[name] = family
	return nil
}

func (s *Store) check(f *Family) error {
	if len(f.Revisions) == 0 {
		return fmt.Errorf("devicedb: family %s: no revisions", f.Name)
	}
	revs := f.revisionNames()
	if !contains(revs, f.latest()) {
		return fmt.Errorf("devicedb: family %s: latest revision %s not declared", f.Name, f.Latest)
	}
	for feature, support := range f.Features {
		if support == nil || len(support.MemTypes) == 0 {
			return fmt.Errorf("devicedb: family %s: feature %s has no memory types", f.Name, feature)
		}
		for memType, path := range support.MemTypes {
			if _, err := fs.Stat(s.FS, path); err != nil {
				return fmt.Errorf("devicedb: family %s: %s layout for %s: %w", f.Name, feature, memType, err)
			}
		}
	}
	for _, rev := range f.Revisions {
		for feature, memTypes := range rev.Features {
			support := f.Features[feature]
			for _, mt := range memTypes {
				if support == nil || support.MemTypes[mt] == "" {
					return fmt.Errorf("devicedb: family %s revision %s: unknown %s memory type %s",
						f.Name, rev.Name, feature, mt)
				}
			}
		}
	}
	return nil
}

// Family returns the entry for a family name.
func (s *Store) Family(name string) (*Family, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.families[name]
	return f, ok
}

// Families implements Provider.
func (s *Store) Families(feature Feature) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for name, f := range s.families {
		if _, ok := f.Features[feature]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// AllFamilies lists every family regardless of features.
func (s *Store) AllFamilies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.families))
	for name := range s.families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Revisions implements Provider.
func (s *Store) Revisions(family string) ([]string, error) {
	f, err := s.lookup(family)
	if err != nil {
		return nil, err
	}
	return f.revisionNames(), nil
}

// ResolveRevision implements Provider.
func (s *Store) ResolveRevision(family, revision string) (string, error) {
	f, err := s.lookup(family)
	if err != nil {
		return "", err
	}
	if revision == "" || revision == LatestRevision {
		return f.latest(), nil
	}
	if !contains(f.revisionNames(), revision) {
		return "", &UnsupportedRevisionError{Family: family, Revision: revision, Valid: f.revisionNames()}
	}
	return revision, nil
}

// MemoryTypes implements Provider.
func (s *Store) MemoryTypes(family, revision string, feature Feature) ([]string, error) {
	f, err := s.lookup(family)
	if err != nil {
		return nil, err
	}
	rev, err := s.ResolveRevision(family, revision)
	if err != nil {
		return nil, err
	}
	support, ok := f.Features[feature]
	if !ok {
		return nil, &UnsupportedFamilyError{Family: family, Known: s.Families(feature)}
	}

	var restrict []string
	for _, r := range f.Revisions {
		if r.Name == rev {
			restrict = r.Features[feature]
		}
	}

	var types []string
	for mt := range support.MemTypes {
		if restrict == nil || contains(restrict, mt) {
			types = append(types, mt)
		}
	}
	sort.Strings(types)
	return types, nil
}

// LayoutPath implements Provider.
func (s *Store) LayoutPath(family, memType string, feature Feature) (string, error) {
	f, err := s.lookup(family)
	if err != nil {
		return "", err
	}
	support, ok := f.Features[feature]
	if !ok {
		return "", &UnsupportedFamilyError{Family: family, Known: s.Families(feature)}
	}
	path, ok := support.MemTypes[memType]
	if !ok {
		valid := make([]string, 0, len(support.MemTypes))
		for mt := range support.MemTypes {
			valid = append(valid, mt)
		}
		sort.Strings(valid)
		return "", &UnsupportedMemoryTypeError{Family: family, MemType: memType, Valid: valid}
	}
	return path, nil
}

func (s *Store) lookup(family string) (*Family, error) {
	if f, ok := s.Family(family); ok {
		return f, nil
	}
	return nil, &UnsupportedFamilyError{Family: family, Known: s.AllFamilies()}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
