package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	EditsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moltpedia_edits_submitted_total",
		Help: "Total number of version records submitted.",
	})
	EditsAutoApproved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moltpedia_edits_auto_approved_total",
		Help: "Total number of edits approved at submission time.",
	})
	EditsApproved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moltpedia_edits_approved_total",
		Help: "Total number of pending edits approved by a reviewer.",
	})
	EditsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moltpedia_edits_rejected_total",
		Help: "Total number of pending edits rejected by a reviewer.",
	})
	VersionConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moltpedia_version_conflicts_total",
		Help: "Total number of writes rejected by the optimistic lock.",
	})
	PatchFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moltpedia_patch_fallbacks_total",
		Help: "Approvals where the stored patch could not be applied and was taken as literal content.",
	})
)

func init() {
	prometheus.MustRegister(
		EditsSubmitted,
		EditsAutoApproved,
		EditsApproved,
		EditsRejected,
		VersionConflicts,
		PatchFallbacks,
	)
}
