package flags

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/openshift-eng/pr-triage/pkg/metrics"
)

// MetricsFlags holds the prometheus pushgateway metrics are sent to at the end of a run.
type MetricsFlags struct {
	Pushgateway string
}

func NewMetricsFlags() *MetricsFlags {
	return &MetricsFlags{}
}

func (f *MetricsFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Pushgateway,
		"pushgateway",
		os.Getenv("PR_TRIAGE_PROMETHEUS_PUSHGATEWAY"),
		"Prometheus pushgateway URL, metrics are not pushed when empty")
}

func (f *MetricsFlags) GetPusher() *metrics.Pusher {
	return metrics.NewPusher(f.Pushgateway)
}
