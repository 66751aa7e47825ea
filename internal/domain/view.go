package domain

import "time"

// FacetRevision identifies one facet revision that contributed to a resolved view
type FacetRevision struct {
	Facet      string     `json:"facet"`
	ID         uint64     `json:"id"`
	UserID     *uint64    `json:"user_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// FacetRevisionOf captures the metadata of a revision
func FacetRevisionOf(facet string, m *RevisionMeta) FacetRevision {
	return FacetRevision{
		Facet:      facet,
		ID:         m.ID,
		UserID:     m.UserID,
		CreatedAt:  m.CreatedAt,
		VerifiedAt: m.VerifiedAt,
	}
}

// Resolved is the outcome of the visibility resolver for one repository.
// Revisions[0] is the primary (localized) facet.
type Resolved[C any] struct {
	RepositoryID uint64          `json:"repository_id"`
	Language     *LanguageView   `json:"language,omitempty"`
	Content      C               `json:"content"`
	Revisions    []FacetRevision `json:"revisions"`
}

// PublicView is what every visitor sees
type PublicView[C any] struct {
	ID       uint64        `json:"id"`
	Language *LanguageView `json:"language,omitempty"`
	Content  C             `json:"content"`
}

// SelfView is shown to the author of the primary revision
type SelfView[C any] struct {
	PublicView[C]
	Revisions []RevisionStamp `json:"revisions"`
}

// ModeratorView is shown to moderators and above
type ModeratorView[C any] struct {
	PublicView[C]
	Revisions           []FacetRevision `json:"revisions"`
	HasPendingRevisions bool            `json:"has_pending_revisions"`
}

// RevisionStamp is the reduced revision metadata an author sees
type RevisionStamp struct {
	Facet      string     `json:"facet"`
	ID         uint64     `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// ViewKind selects one of the view variants
type ViewKind int

const (
	ViewPublic ViewKind = iota
	ViewSelf
	ViewModerator
)

// SelectView picks the variant for a viewer; authorID is the author of the primary revision
func SelectView(v Viewer, authorID *uint64) ViewKind {
	switch {
	case v.IsModerator():
		return ViewModerator
	case v.Owns(authorID):
		return ViewSelf
	default:
		return ViewPublic
	}
}

// Project renders a resolved repository for the viewer
func Project[C any](r *Resolved[C], v Viewer, hasPending bool) interface{} {
	public := PublicView[C]{ID: r.RepositoryID, Language: r.Language, Content: r.Content}
	var author *uint64
	if len(r.Revisions) > 0 {
		author = r.Revisions[0].UserID
	}
	switch SelectView(v, author) {
	case ViewModerator:
		return ModeratorView[C]{PublicView: public, Revisions: r.Revisions, HasPendingRevisions: hasPending}
	case ViewSelf:
		stamps := make([]RevisionStamp, len(r.Revisions))
		for i, rev := range r.Revisions {
			stamps[i] = RevisionStamp{Facet: rev.Facet, ID: rev.ID, CreatedAt: rev.CreatedAt, VerifiedAt: rev.VerifiedAt}
		}
		return SelfView[C]{PublicView: public, Revisions: stamps}
	default:
		return public
	}
}

// Suggestion is one title completion
type Suggestion struct {
	RepositoryID uint64 `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
}
