package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/repository"
	pkglogger "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
)

// visibleRevisioner returns the primary revision currently shown for a repository
type visibleRevisioner interface {
	VisibleRevision(ctx context.Context, id uint64) (uint64, error)
}

// ReportService handles report business logic
type ReportService struct {
	d     *Deps
	kinds map[domain.Kind]visibleRevisioner
}

// NewReportService creates a new ReportService for the given content services
func NewReportService(d *Deps, waypoints *WaypointService, media *MediaService, tags *TagService, static *StaticContentService) *ReportService {
	return &ReportService{
		d: d,
		kinds: map[domain.Kind]visibleRevisioner{
			domain.KindWaypoint:      waypoints,
			domain.KindMedia:         media,
			domain.KindTag:           tags,
			domain.KindStaticContent: static,
		},
	}
}

// Create files a report on a visible repository. Invisible repositories can
// not be reported, not even by moderators.
func (s *ReportService) Create(ctx context.Context, v domain.Viewer, kind domain.Kind, id uint64, req *domain.CreateReportRequest) (*domain.Report, error) {
	userID, err := requireUser(v)
	if err != nil {
		return nil, err
	}
	resolver, ok := s.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", common.ErrInvalidRequest, kind)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	revisionID, err := resolver.VisibleRevision(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotVisible) {
			return nil, fmt.Errorf("%s %d: %w", kind, id, common.ErrNotFound)
		}
		return nil, err
	}

	report := &domain.Report{
		Kind:         kind,
		RepositoryID: id,
		RevisionID:   &revisionID,
		Title:        strings.TrimSpace(req.Title),
		Reason:       strings.TrimSpace(req.Reason),
		UserID:       userID,
		CreatedAt:    s.d.now(),
	}
	if err := s.d.Reports.Create(ctx, report); err != nil {
		return nil, err
	}

	pkglogger.GetLogger().Info().
		Uint64("report_id", report.ID).
		Str("kind", string(kind)).
		Uint64("repository_id", id).
		Uint64("revision_id", revisionID).
		Msg("report filed")
	return report, nil
}

// List pages through reports
func (s *ReportService) List(ctx context.Context, f repository.ReportFilter, page common.Page) ([]domain.Report, int64, error) {
	if f.Kind != "" {
		if _, ok := s.kinds[f.Kind]; !ok {
			return nil, 0, fmt.Errorf("%w: unknown kind %q", common.ErrInvalidRequest, f.Kind)
		}
	}
	switch f.Status {
	case "", repository.ReportStatusPending, repository.ReportStatusVerified:
	default:
		return nil, 0, fmt.Errorf("%w: unknown status %q", common.ErrInvalidRequest, f.Status)
	}
	return s.d.Reports.List(ctx, f, page)
}

// Verify marks a report as handled; a second call fails with ErrAlreadyVerified
func (s *ReportService) Verify(ctx context.Context, id uint64) (*domain.Report, error) {
	if err := s.d.Reports.Verify(ctx, id, s.d.now()); err != nil {
		return nil, err
	}
	pkglogger.GetLogger().Info().Uint64("report_id", id).Msg("report verified")
	return s.d.Reports.GetByID(ctx, id)
}
