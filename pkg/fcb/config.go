package fcb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ghodss/yaml"
	"github.com/google/uuid"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceFCB/pkg/devicedb"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/metrics"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/regs"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/schema"
)

// Version is reported in exported documents. Overridden at link time.
var Version = "0.1.0"

// SettingsKey is the document key holding register values.
const SettingsKey = "fcb_settings"

// Unknown is used for identification fields missing from a document.
const Unknown = "Unknown"

// Document is the human-editable form of a segment.
type Document struct {
	Family   string        `json:"family"`
	Revision string        `json:"revision,omitempty"`
	Type     string        `json:"type"`
	Settings regs.Settings `json:"fcb_settings,omitempty"`
}

// ParseDocument reads a YAML or JSON configuration document. Numbers are kept
// as json.Number so that wide register values survive unchanged. Integers
// beyond 64 bits are read as decimal strings.
func ParseDocument(data []byte) (*Document, error) {
	data, err := quoteWideIntegers(data)
	if err != nil {
		return nil, fmt.Errorf("fcb: parse document: %w", err)
	}
	j, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("fcb: parse document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(j))
	dec.UseNumber()
	doc := &Document{}
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("fcb: parse document: %w", err)
	}
	return doc, nil
}

// quoteWideIntegers rewrites plain integer scalars that do not fit in 64 bits
// as strings. YAMLToJSON would otherwise round them through float64.
func quoteWideIntegers(data []byte) ([]byte, error) {
	var root yamlv3.Node
	if err := yamlv3.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if !quoteWide(&root) {
		return data, nil
	}
	return yamlv3.Marshal(&root)
}

func quoteWide(n *yamlv3.Node) bool {
	changed := false
	if n.Kind == yamlv3.ScalarNode && n.Style == 0 {
		switch n.ShortTag() {
		case "!!int", "!!float":
			if v, ok := new(big.Int).SetString(n.Value, 0); ok && v.BitLen() > 64 {
				n.Tag = "!!str"
				n.Style = yamlv3.DoubleQuotedStyle
				changed = true
			}
		}
	}
	for _, c := range n.Content {
		if quoteWide(c) {
			changed = true
		}
	}
	return changed
}

// ToDocument captures the identification and current register values of a
// segment.
func ToDocument(s *Segment) *Document {
	return &Document{
		Family:   s.Family,
		Revision: s.Revision,
		Type:     s.MemType,
		Settings: s.bank.Config(),
	}
}

func (d *Document) values() map[string]any {
	out := map[string]any{
		"family":   d.Family,
		"revision": d.Revision,
		"type":     d.Type,
	}
	if d.Settings != nil {
		out[SettingsKey] = map[string]any(d.Settings)
	}
	return out
}

// FromDocument builds a segment from a document: the layout's reset values
// overlaid with the document's settings. Every failure is reported as a
// *ConfigValidationError wrapping the cause.
func FromDocument(loader *Loader, doc *Document) (*Segment, error) {
	seg, err := fromDocument(loader, doc)
	if err != nil {
		metrics.ConfigFailuresTotal.Inc()
		loader.Log.V(1).Info("Rejected configuration", "error", err.Error())
		return nil, &ConfigValidationError{Err: err}
	}
	metrics.ConfigLoadsTotal.Inc()
	return seg, nil
}

func fromDocument(loader *Loader, doc *Document) (*Segment, error) {
	if doc == nil {
		doc = &Document{}
	}
	seg, err := New(loader,
		withDefault(doc.Family, Unknown),
		withDefault(doc.Type, Unknown),
		withDefault(doc.Revision, devicedb.LatestRevision))
	if err != nil {
		return nil, err
	}
	if err := seg.bank.LoadConfig(doc.Settings); err != nil {
		return nil, err
	}
	return seg, nil
}

// Load parses a YAML or JSON document and builds the segment it describes.
func Load(loader *Loader, data []byte) (*Segment, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		metrics.ConfigFailuresTotal.Inc()
		return nil, &ConfigValidationError{Err: err}
	}
	return FromDocument(loader, doc)
}

// Export renders the segment as a commented YAML document. The header lines
// are informational only.
func (s *Segment) Export() ([]byte, error) {
	root, err := FullSchema(s.loader, s.Family, s.MemType, s.Revision)
	if err != nil {
		return nil, err
	}
	cfg := &schema.CommentedConfig{
		Title: fmt.Sprintf("FCB configuration for %s.\n"+
			"Created: %s.\n"+
			"OpenTraceFCB version: %s\n"+
			"Export ID: %s",
			s.Family, time.Now().Format("02/01/2006 15:04:05"), Version, uuid.NewString()),
		Schema: root,
	}
	out, err := cfg.Render(ToDocument(s).values())
	if err != nil {
		return nil, err
	}
	metrics.ExportTotal.Inc()
	s.log.V(1).Info("Exported configuration")
	return []byte(out), nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
