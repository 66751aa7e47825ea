package service

import (
	"context"
	"fmt"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/revision"
	pkglogger "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
	"gorm.io/gorm"
)

var (
	waypointDetailFacet = revision.Facet{
		Kind:            domain.KindWaypoint,
		Name:            domain.FacetDetail,
		Localized:       true,
		RepositoryTable: domain.Waypoint{}.TableName(),
	}
	waypointLocationFacet = revision.Facet{
		Kind:            domain.KindWaypoint,
		Name:            domain.FacetLocation,
		RepositoryTable: domain.Waypoint{}.TableName(),
	}
)

// WaypointRevisions are the revisions written by one waypoint edit
type WaypointRevisions struct {
	RepositoryID uint64                   `json:"repository_id"`
	Detail       *domain.WaypointDetail   `json:"detail,omitempty"`
	Location     *domain.WaypointLocation `json:"location,omitempty"`
}

// WaypointHistory is the full revision history of a waypoint
type WaypointHistory struct {
	Details   []*domain.WaypointDetail   `json:"details"`
	Locations []*domain.WaypointLocation `json:"locations"`
}

// WaypointService handles waypoint business logic. A waypoint is visible when
// both its detail and its location have a verified revision.
type WaypointService struct {
	d         *Deps
	details   *revision.Store[domain.WaypointDetail, *domain.WaypointDetail]
	locations *revision.Store[domain.WaypointLocation, *domain.WaypointLocation]
	tags      *TagService
	*Tagging
}

// NewWaypointService creates a new WaypointService
func NewWaypointService(d *Deps, tags *TagService) *WaypointService {
	s := &WaypointService{
		d:         d,
		details:   revision.NewStore[domain.WaypointDetail](d.DB, waypointDetailFacet, d.storeOptions()...),
		locations: revision.NewStore[domain.WaypointLocation](d.DB, waypointLocationFacet, d.storeOptions()...),
		tags:      tags,
	}
	s.Tagging = newTagging(d, domain.KindWaypoint, s.details, tags)
	return s
}

func (s *WaypointService) facetStores() []revision.FacetStore {
	return []revision.FacetStore{s.details, s.locations}
}

// Create stores a new waypoint with its first detail and location revisions
func (s *WaypointService) Create(ctx context.Context, v domain.Viewer, req *domain.CreateWaypointRequest) (*WaypointRevisions, error) {
	userID, err := requireUser(v)
	if err != nil {
		return nil, err
	}
	lang, err := s.d.Languages.ForEdit(ctx, req.LanguageCode)
	if err != nil {
		return nil, err
	}

	out := &WaypointRevisions{}
	err = s.d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		waypoint := &domain.Waypoint{}
		if err := tx.Create(waypoint).Error; err != nil {
			return err
		}
		out.RepositoryID = waypoint.ID
		out.Detail, err = s.details.WithTx(tx).Create(ctx, &domain.WaypointDetail{
			RevisionMeta: domain.RevisionMeta{RepositoryID: waypoint.ID, LanguageID: &lang.ID, UserID: userID},
			Title:        req.Title,
			DetailText:   req.DetailText,
		})
		if err != nil {
			return err
		}
		out.Location, err = s.locations.WithTx(tx).Create(ctx, &domain.WaypointLocation{
			RevisionMeta: domain.RevisionMeta{RepositoryID: waypoint.ID, UserID: userID},
			Latitude:     req.Location.Latitude,
			Longitude:    req.Location.Longitude,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	pkglogger.GetLogger().Info().
		Uint64("repository_id", out.RepositoryID).
		Str("language", lang.Code).
		Msg("waypoint created")
	return s.autoVerify(ctx, v, out)
}

func (s *WaypointService) autoVerify(ctx context.Context, v domain.Viewer, out *WaypointRevisions) (*WaypointRevisions, error) {
	if !s.d.Policy.AutoVerify(v) {
		return out, nil
	}
	var err error
	if out.Detail != nil {
		if out.Detail, err = s.Verify(ctx, out.RepositoryID, out.Detail.ID); err != nil {
			return nil, err
		}
	}
	if out.Location != nil {
		if out.Location, err = s.VerifyLocation(ctx, out.RepositoryID, out.Location.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *WaypointService) resolve(ctx context.Context, id uint64, pref Preference) (*domain.Resolved[domain.WaypointContent], error) {
	if err := s.details.Exists(ctx, id); err != nil {
		return nil, err
	}
	detail, lang, err := s.details.Resolve(ctx, id, pref.Languages, pref.PreferredID())
	if err != nil {
		return nil, err
	}
	location, _, err := s.locations.Resolve(ctx, id, pref.Languages, nil)
	if err != nil {
		return nil, err
	}
	return &domain.Resolved[domain.WaypointContent]{
		RepositoryID: id,
		Language:     languageView(lang),
		Content: domain.WaypointContent{
			Title:      detail.Title,
			Slug:       detail.Slug,
			DetailText: detail.DetailText,
			Location:   location.Location(),
		},
		Revisions: []domain.FacetRevision{
			domain.FacetRevisionOf(domain.FacetDetail, &detail.RevisionMeta),
			domain.FacetRevisionOf(domain.FacetLocation, &location.RevisionMeta),
		},
	}, nil
}

// Resolve returns the visible waypoint without projection
func (s *WaypointService) Resolve(ctx context.Context, id uint64, code string) (*domain.Resolved[domain.WaypointContent], error) {
	pref, err := s.d.Languages.Preference(ctx, code)
	if err != nil {
		return nil, err
	}
	return resolveCached(ctx, s.d, domain.KindWaypoint, id, pref, s.resolve)
}

// Get returns the visible waypoint projected for the viewer
func (s *WaypointService) Get(ctx context.Context, v domain.Viewer, id uint64, code string) (interface{}, error) {
	res, err := s.Resolve(ctx, id, code)
	if err != nil {
		return nil, err
	}
	return project(ctx, res, v, s.facetStores())
}

// GetBySlug resolves the waypoint that holds a canonical slug
func (s *WaypointService) GetBySlug(ctx context.Context, v domain.Viewer, slug, code string) (interface{}, error) {
	rev, err := s.details.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, v, rev.RepositoryID, code)
}

// VisibleRevision returns the id of the detail revision currently shown
func (s *WaypointService) VisibleRevision(ctx context.Context, id uint64) (uint64, error) {
	res, err := s.Resolve(ctx, id, "")
	if err != nil {
		return 0, err
	}
	return res.Revisions[0].ID, nil
}

// List pages through the visible waypoints
func (s *WaypointService) List(ctx context.Context, v domain.Viewer, code string, page common.Page) (*Page, error) {
	pref, err := s.d.Languages.Preference(ctx, code)
	if err != nil {
		return nil, err
	}
	return listVisible(ctx, s.d, domain.KindWaypoint, v, pref, page, s.resolve, s.facetStores())
}

// Update stores a complete new detail revision in the given language. A location
// revision is only added when the coordinates differ from the latest one.
func (s *WaypointService) Update(ctx context.Context, v domain.Viewer, id uint64, req *domain.UpdateWaypointRequest) (*WaypointRevisions, error) {
	userID, err := requireUser(v)
	if err != nil {
		return nil, err
	}
	lang, err := s.d.Languages.ForEdit(ctx, req.LanguageCode)
	if err != nil {
		return nil, err
	}
	if err := req.Location.Validate(); err != nil {
		return nil, err
	}

	out := &WaypointRevisions{RepositoryID: id}
	err = s.d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		details := s.details.WithTx(tx)
		locations := s.locations.WithTx(tx)
		if err := details.LockRepository(ctx, id); err != nil {
			return err
		}
		out.Detail, err = details.Create(ctx, &domain.WaypointDetail{
			RevisionMeta: domain.RevisionMeta{RepositoryID: id, LanguageID: &lang.ID, UserID: userID},
			Title:        req.Title,
			DetailText:   req.DetailText,
		})
		if err != nil {
			return err
		}
		head, err := locations.Head(ctx, id, nil)
		if err != nil {
			return err
		}
		if head.Location() == req.Location {
			return nil
		}
		out.Location, err = locations.Create(ctx, &domain.WaypointLocation{
			RevisionMeta: domain.RevisionMeta{RepositoryID: id, UserID: userID},
			Latitude:     req.Location.Latitude,
			Longitude:    req.Location.Longitude,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.autoVerify(ctx, v, out)
}

// Patch merges the given fields into the target revisions. Detail fields need
// IDForDetailToPatch, a location needs IDForLocationToPatch; each target has to be
// the latest revision of its facet (in its language for the detail).
func (s *WaypointService) Patch(ctx context.Context, v domain.Viewer, id uint64, req *domain.PatchWaypointRequest) (*WaypointRevisions, error) {
	userID, err := requireUser(v)
	if err != nil {
		return nil, err
	}
	patchDetail := req.Title.Set || req.DetailText.Set
	switch {
	case !patchDetail && req.Location == nil:
		return nil, fmt.Errorf("%w: nothing to patch", common.ErrInvalidRequest)
	case patchDetail && req.IDForDetailToPatch == nil:
		return nil, fmt.Errorf("%w: id_for_detail_to_patch is required", common.ErrInvalidRequest)
	case req.Location != nil && req.IDForLocationToPatch == nil:
		return nil, fmt.Errorf("%w: id_for_location_to_patch is required", common.ErrInvalidRequest)
	}
	if patchDetail {
		if err := authorizePatch(ctx, s.d, s.details, v, id, *req.IDForDetailToPatch); err != nil {
			return nil, err
		}
	}
	if req.Location != nil {
		if err := authorizePatch(ctx, s.d, s.locations, v, id, *req.IDForLocationToPatch); err != nil {
			return nil, err
		}
	}

	out := &WaypointRevisions{RepositoryID: id}
	err = s.d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if patchDetail {
			out.Detail, err = s.details.WithTx(tx).Patch(ctx, id, *req.IDForDetailToPatch, userID, func(target *domain.WaypointDetail) (*domain.WaypointDetail, error) {
				title, err := req.Title.Apply("title", target.Title)
				if err != nil {
					return nil, err
				}
				text, err := req.DetailText.Apply("detail_text", target.DetailText)
				if err != nil {
					return nil, err
				}
				return &domain.WaypointDetail{Title: title, DetailText: text}, nil
			})
			if err != nil {
				logStale(err, domain.KindWaypoint, id, *req.IDForDetailToPatch)
				return err
			}
		}
		if req.Location != nil {
			loc := *req.Location
			out.Location, err = s.locations.WithTx(tx).Patch(ctx, id, *req.IDForLocationToPatch, userID, func(*domain.WaypointLocation) (*domain.WaypointLocation, error) {
				return &domain.WaypointLocation{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
			})
			if err != nil {
				logStale(err, domain.KindWaypoint, id, *req.IDForLocationToPatch)
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.autoVerify(ctx, v, out)
}

// Verify verifies a detail revision
func (s *WaypointService) Verify(ctx context.Context, id, revisionID uint64) (*domain.WaypointDetail, error) {
	detail, err := verify(ctx, s.d, s.details, id, revisionID)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, id)
	return detail, nil
}

// VerifyLocation verifies a location revision
func (s *WaypointService) VerifyLocation(ctx context.Context, id, revisionID uint64) (*domain.WaypointLocation, error) {
	location, err := verify(ctx, s.d, s.locations, id, revisionID)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, id)
	return location, nil
}

// History lists every revision of both facets; code narrows the details
func (s *WaypointService) History(ctx context.Context, id uint64, code string) (*WaypointHistory, error) {
	details, err := history(ctx, s.d, s.details, id, code)
	if err != nil {
		return nil, err
	}
	locations, err := history(ctx, s.d, s.locations, id, "")
	if err != nil {
		return nil, err
	}
	return &WaypointHistory{Details: details, Locations: locations}, nil
}

// ListPending pages through unverified revisions of one facet
func (s *WaypointService) ListPending(ctx context.Context, facet string, page common.Page) (interface{}, int64, error) {
	switch facet {
	case "", domain.FacetDetail:
		return s.details.ListPending(ctx, page)
	case domain.FacetLocation:
		return s.locations.ListPending(ctx, page)
	default:
		return nil, 0, fmt.Errorf("%w: unknown facet %q", common.ErrInvalidRequest, facet)
	}
}

// Changes diffs two detail revisions
func (s *WaypointService) Changes(ctx context.Context, id, fromID, toID uint64) (*domain.ChangeSet[domain.WaypointDetailChanges], error) {
	return changes(ctx, s.d, s.details, id, fromID, toID, domain.DiffWaypointDetails)
}

// LocationChanges diffs two location revisions
func (s *WaypointService) LocationChanges(ctx context.Context, id, fromID, toID uint64) (*domain.ChangeSet[domain.WaypointLocationChanges], error) {
	return changes(ctx, s.d, s.locations, id, fromID, toID, domain.DiffWaypointLocations)
}

// Delete removes the waypoint with all revisions, tag attachments and reports
func (s *WaypointService) Delete(ctx context.Context, id uint64) error {
	return cascade(ctx, s.d, domain.KindWaypoint, id, &domain.Waypoint{}, s.facetStores(), nil)
}

// Search matches the visible detail in one language and the verified tags
func (s *WaypointService) Search(ctx context.Context, v domain.Viewer, code, text string, page common.Page) (*Page, error) {
	lang, text, err := searchQuery(ctx, s.d, code, text)
	if err != nil {
		return nil, err
	}
	ids, total, err := search(ctx, s.d, s.details, []revision.FacetStore{s.locations}, s.tags.details, lang, text, page)
	if err != nil {
		return nil, err
	}
	pref, err := s.d.Languages.PreferenceFor(ctx, lang)
	if err != nil {
		return nil, err
	}
	return resolveAll(ctx, s.d, domain.KindWaypoint, v, pref, ids, total, s.resolve, s.facetStores())
}

// Suggest completes waypoint titles in one language
func (s *WaypointService) Suggest(ctx context.Context, code, text string) ([]domain.Suggestion, error) {
	lang, text, err := searchQuery(ctx, s.d, code, text)
	if err != nil {
		return nil, err
	}
	return suggest(ctx, s.details, []revision.FacetStore{s.locations}, lang, text)
}

// Documents returns the search documents of a waypoint
func (s *WaypointService) Documents(ctx context.Context, id uint64) ([]SearchDocument, error) {
	return documents(ctx, s.d, domain.KindWaypoint, id, s.resolve, func(res *domain.Resolved[domain.WaypointContent]) SearchDocument {
		return SearchDocument{
			Title: res.Content.Title,
			Slug:  res.Content.Slug,
			Text:  res.Content.DetailText,
		}
	})
}

func (s *WaypointService) reindex(ctx context.Context, id uint64) {
	docs, err := s.Documents(ctx, id)
	if err == nil {
		err = s.d.Indexer.Index(ctx, docs...)
	}
	logIndexError(err, domain.KindWaypoint, id)
}

func (s *WaypointService) repositoryIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	err := s.d.DB.WithContext(ctx).Model(&domain.Waypoint{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}
