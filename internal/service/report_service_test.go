package service

import (
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/repository"
)

func (s *ServiceSuite) TestReportCreate() {
	out := s.visibleWaypoint("Reported", "en")
	req := &domain.CreateReportRequest{Title: " Wrong place ", Reason: "It is further north"}

	_, err := s.reports.Create(s.ctx, domain.Viewer{}, domain.KindWaypoint, out.RepositoryID, req)
	s.ErrorIs(err, common.ErrUnauthorized)
	_, err = s.reports.Create(s.ctx, s.other, "planet", out.RepositoryID, req)
	s.ErrorIs(err, common.ErrInvalidRequest)
	_, err = s.reports.Create(s.ctx, s.other, domain.KindWaypoint, out.RepositoryID, &domain.CreateReportRequest{Title: "x", Reason: " "})
	s.ErrorIs(err, common.ErrInvalidRequest)
	_, err = s.reports.Create(s.ctx, s.other, domain.KindWaypoint, 404, req)
	s.ErrorIs(err, common.ErrNotFound)

	report, err := s.reports.Create(s.ctx, s.other, domain.KindWaypoint, out.RepositoryID, req)
	s.Require().NoError(err)
	s.Equal("Wrong place", report.Title)
	s.Equal(out.Detail.ID, *report.RevisionID)
	s.Equal(*s.other.UserID, *report.UserID)
	s.Equal("pending", report.Status())
}

func (s *ServiceSuite) TestReportOnInvisibleRepositoryIsNotFound() {
	out, err := s.waypoints.Create(s.ctx, s.author, &domain.CreateWaypointRequest{
		Title: "Draft", DetailText: "x", LanguageCode: "en",
	})
	s.Require().NoError(err)

	// moderators can not report what the public can not see either
	_, err = s.reports.Create(s.ctx, s.moderator, domain.KindWaypoint, out.RepositoryID, &domain.CreateReportRequest{Title: "a", Reason: "b"})
	s.ErrorIs(err, common.ErrNotFound)
}

func (s *ServiceSuite) TestReportListAndVerify() {
	waypoint := s.visibleWaypoint("Listed", "en")
	tag := s.visibleTag("Listed tag", "listed")
	req := &domain.CreateReportRequest{Title: "Spam", Reason: "Advertising"}

	first, err := s.reports.Create(s.ctx, s.other, domain.KindWaypoint, waypoint.RepositoryID, req)
	s.Require().NoError(err)
	_, err = s.reports.Create(s.ctx, s.other, domain.KindTag, tag.RepositoryID, req)
	s.Require().NoError(err)

	all, total, err := s.reports.List(s.ctx, repository.ReportFilter{}, common.NewPage(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal(first.ID, all[0].ID)

	tags, total, err := s.reports.List(s.ctx, repository.ReportFilter{Kind: domain.KindTag}, common.NewPage(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal(tag.RepositoryID, tags[0].RepositoryID)

	verified, err := s.reports.Verify(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Equal("verified", verified.Status())
	_, err = s.reports.Verify(s.ctx, first.ID)
	s.ErrorIs(err, common.ErrAlreadyVerified)
	_, err = s.reports.Verify(s.ctx, 404)
	s.ErrorIs(err, common.ErrNotFound)

	pending, total, err := s.reports.List(s.ctx, repository.ReportFilter{Status: repository.ReportStatusPending}, common.NewPage(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal(domain.KindTag, pending[0].Kind)

	_, _, err = s.reports.List(s.ctx, repository.ReportFilter{Status: "open"}, common.NewPage(1, 10))
	s.ErrorIs(err, common.ErrInvalidRequest)
	_, _, err = s.reports.List(s.ctx, repository.ReportFilter{Kind: "planet"}, common.NewPage(1, 10))
	s.ErrorIs(err, common.ErrInvalidRequest)
}
