package service

import (
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
)

func (s *ServiceSuite) TestDeleteUserRequiresSelfOrAdmin() {
	s.ErrorIs(s.lifecycle.DeleteUser(s.ctx, domain.Viewer{}, *s.author.UserID), common.ErrUnauthorized)
	s.ErrorIs(s.lifecycle.DeleteUser(s.ctx, s.other, *s.author.UserID), common.ErrForbidden)
	s.ErrorIs(s.lifecycle.DeleteUser(s.ctx, s.moderator, *s.author.UserID), common.ErrForbidden)
	s.ErrorIs(s.lifecycle.DeleteUser(s.ctx, s.admin, 404), common.ErrNotFound)
}

func (s *ServiceSuite) TestDeleteUserAnonymizesContent() {
	out := s.visibleWaypoint("Kept", "en")
	tag := s.visibleTag("Kept tag", "kept")
	_, err := s.waypoints.AttachTag(s.ctx, s.author, out.RepositoryID, tag.RepositoryID)
	s.Require().NoError(err)
	_, err = s.reports.Create(s.ctx, s.author, domain.KindTag, tag.RepositoryID, &domain.CreateReportRequest{Title: "Dup", Reason: "Duplicate"})
	s.Require().NoError(err)
	s.Require().NoError(s.d.Users.CreateToken(s.ctx, &domain.UserToken{UserID: *s.author.UserID, Value: "refresh-1"}))

	s.Require().NoError(s.lifecycle.DeleteUser(s.ctx, s.author, *s.author.UserID))

	_, err = s.d.Users.FindByID(s.ctx, *s.author.UserID)
	s.ErrorIs(err, common.ErrNotFound)

	// the content stays visible without an author
	res, err := s.waypoints.Resolve(s.ctx, out.RepositoryID, "")
	s.Require().NoError(err)
	s.Equal("Kept", res.Content.Title)

	for _, model := range []interface{}{&domain.WaypointDetail{}, &domain.WaypointLocation{}, &domain.TagDetail{}, &domain.TagAttachment{}, &domain.Report{}, &domain.UserToken{}} {
		var count int64
		s.Require().NoError(s.db.Model(model).Where("user_id = ?", *s.author.UserID).Count(&count).Error)
		s.Zero(count, "%T", model)
	}
	var reports int64
	s.Require().NoError(s.db.Model(&domain.Report{}).Count(&reports).Error)
	s.Equal(int64(1), reports)

	history, err := s.waypoints.History(s.ctx, out.RepositoryID, "")
	s.Require().NoError(err)
	s.Nil(history.Details[0].UserID)
}

func (s *ServiceSuite) TestAdminDeletesUser() {
	out := s.visibleWaypoint("Admin cleanup", "en")

	s.Require().NoError(s.lifecycle.DeleteUser(s.ctx, s.admin, *s.author.UserID))
	s.ErrorIs(s.lifecycle.DeleteUser(s.ctx, s.admin, *s.author.UserID), common.ErrNotFound)

	view, err := s.waypoints.Get(s.ctx, s.moderator, out.RepositoryID, "")
	s.Require().NoError(err)
	mod := view.(domain.ModeratorView[domain.WaypointContent])
	s.Nil(mod.Revisions[0].UserID)
}

func (s *ServiceSuite) TestReindex() {
	s.visibleWaypoint("Indexed", "en")
	s.visibleTag("Indexed tag", "indexed")
	_, err := s.waypoints.Create(s.ctx, s.author, &domain.CreateWaypointRequest{
		Title: "Not yet", DetailText: "x", LanguageCode: "en",
	})
	s.Require().NoError(err)

	s.indexer.docs = map[string]SearchDocument{}
	n, err := s.lifecycle.Reindex(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
	s.Len(s.indexer.docs, 2)

	n, err = s.lifecycle.Reindex(s.ctx, domain.KindTag)
	s.Require().NoError(err)
	s.Equal(1, n)

	_, err = s.lifecycle.Reindex(s.ctx, domain.KindStaticContent)
	s.ErrorIs(err, common.ErrInvalidRequest)
}
