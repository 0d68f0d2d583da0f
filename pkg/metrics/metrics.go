package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every collector of this module. It is separate from the
// prometheus default registry so that a textfile only carries tool metrics.
var Registry = prometheus.NewRegistry()

var (
	LayoutLoadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fcb_layout_loads_total",
			Help: "Number of register layouts loaded from the device database",
		},
	)

	ParseTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fcb_parse_total",
			Help: "Number of binary blocks decoded successfully",
		},
	)

	ParseFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fcb_parse_failures_total",
			Help: "Number of binary blocks rejected, by reason",
		},
		[]string{"reason"},
	)

	ExportTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fcb_export_total",
			Help: "Number of configuration documents exported",
		},
	)

	ConfigLoadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fcb_config_loads_total",
			Help: "Number of configuration documents applied successfully",
		},
	)

	ConfigFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fcb_config_failures_total",
			Help: "Number of configuration documents rejected",
		},
	)

	TemplatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fcb_templates_total",
			Help: "Number of configuration templates generated",
		},
	)
)

// Failure reasons for ParseFailuresTotal.
const (
	ReasonTruncated = "truncated"
	ReasonSignature = "signature"
)

func init() {
	Registry.MustRegister(LayoutLoadsTotal)
	Registry.MustRegister(ParseTotal)
	Registry.MustRegister(ParseFailuresTotal)
	Registry.MustRegister(ExportTotal)
	Registry.MustRegister(ConfigLoadsTotal)
	Registry.MustRegister(ConfigFailuresTotal)
	Registry.MustRegister(TemplatesTotal)
}

// WriteTextfile dumps the current values in the node exporter textfile
// format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
