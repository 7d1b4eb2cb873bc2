package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
	log "github.com/sirupsen/logrus"
)

const jobName = "pr-triage"

var (
	PhaseDurationMetric = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pr_triage_phase_millis",
		Help:    "Milliseconds spent in each phase of a triage run",
		Buckets: prometheus.ExponentialBuckets(50, 2, 10),
	}, []string{"phase"})

	RiskLevelMetric = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pr_triage_risk_level",
		Help: "Risk level of the last triaged PR, 0 (low) to 3 (critical)",
	}, []string{"repo", "type"})

	DuplicateFindingsMetric = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pr_triage_duplicate_findings",
		Help: "Open PRs overlapping the last triaged PR",
	}, []string{"repo"})

	WriteErrorMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pr_triage_write_errors",
		Help: "Failed comment or label writes",
	}, []string{"repo", "kind"})

	DegradedMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pr_triage_degraded_steps",
		Help: "Read steps that failed and fell back to defaults",
	}, []string{"repo", "step"})

	DigestCountMetric = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pr_triage_digest_count",
		Help: "Activity counts of the last digest",
	}, []string{"repo", "kind"})
)

// Pusher sends the collectors to a pushgateway. A nil Pusher does nothing.
type Pusher struct {
	pusher *push.Pusher
}

func NewPusher(pushgateway string) *Pusher {
	if pushgateway == "" {
		return nil
	}
	p := push.New(pushgateway, jobName).
		Collector(PhaseDurationMetric).
		Collector(RiskLevelMetric).
		Collector(DuplicateFindingsMetric).
		Collector(WriteErrorMetric).
		Collector(DegradedMetric).
		Collector(DigestCountMetric)
	return &Pusher{pusher: p}
}

func (p *Pusher) Push() {
	if p == nil {
		return
	}
	log.Info("pushing metrics to prometheus gateway")
	if err := p.pusher.Add(); err != nil {
		log.WithError(err).Error("could not push to prometheus pushgateway")
	} else {
		log.Info("successfully pushed metrics to prometheus gateway")
	}
}
