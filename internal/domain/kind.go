package domain

// Kind names a content kind. It doubles as the discriminator in shared tables
// (reports, tag attachments) and as cache/index key prefix.
type Kind string

const (
	KindWaypoint      Kind = "waypoint"
	KindMedia         Kind = "media"
	KindTag           Kind = "tag"
	KindStaticContent Kind = "static_content"
)

// Facet names
const (
	FacetDetail   = "detail"
	FacetLocation = "location"
	FacetFile     = "file"
)
