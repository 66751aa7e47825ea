package revision

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	revisionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revisions_created_total",
			Help: "Total number of revisions created",
		},
		[]string{"kind", "facet"},
	)

	revisionsVerified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revisions_verified_total",
			Help: "Total number of revisions verified by moderators",
		},
		[]string{"kind", "facet"},
	)

	staleEdits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revision_stale_edits_total",
			Help: "Patches rejected because the target revision was no longer current",
		},
		[]string{"kind", "facet"},
	)
)
