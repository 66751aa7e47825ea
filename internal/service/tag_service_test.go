package service

import (
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
)

func (s *ServiceSuite) TestTagLifecycle() {
	tag, err := s.tags.Create(s.ctx, s.author, &domain.CreateTagRequest{
		Title:        "Memorial",
		Keywords:     []string{" remembrance ", "memorial", ""},
		LanguageCode: "en",
	})
	s.Require().NoError(err)
	s.Equal(domain.StringList{"remembrance", "memorial"}, tag.Keywords)

	_, err = s.tags.Get(s.ctx, domain.Viewer{}, tag.RepositoryID, "")
	s.ErrorIs(err, common.ErrNotVisible)

	verified, err := s.tags.Verify(s.ctx, tag.RepositoryID, tag.ID)
	s.Require().NoError(err)
	s.Equal("memorial", verified.Slug)

	view, err := s.tags.GetBySlug(s.ctx, domain.Viewer{}, "memorial", "")
	s.Require().NoError(err)
	public := view.(domain.PublicView[domain.TagContent])
	s.Equal("Memorial", public.Content.Title)
	s.Equal(domain.StringList{"remembrance", "memorial"}, public.Content.Keywords)

	doc, ok := s.indexer.get(SearchDocument{Kind: domain.KindTag, RepositoryID: tag.RepositoryID, Language: "en"}.DocumentID())
	s.Require().True(ok)
	s.Equal([]string{"remembrance", "memorial"}, doc.Keywords)
}

func (s *ServiceSuite) TestTagCreateRequiresKeywords() {
	_, err := s.tags.Create(s.ctx, s.author, &domain.CreateTagRequest{
		Title:        "Empty",
		Keywords:     []string{" ", ""},
		LanguageCode: "en",
	})
	s.ErrorIs(err, common.ErrInvalidRequest)
}

func (s *ServiceSuite) TestTagPatchAndChanges() {
	tag := s.visibleTag("Wall", "wall", "border")

	patched, err := s.tags.Patch(s.ctx, s.other, tag.RepositoryID, &domain.PatchTagRequest{
		Keywords:           domain.Some([]string{"wall", "berlin"}),
		IDForDetailToPatch: tag.ID,
	})
	s.Require().NoError(err)
	s.Equal("Wall", patched.Title)
	s.Equal(domain.StringList{"wall", "berlin"}, patched.Keywords)

	_, err = s.tags.Patch(s.ctx, s.other, tag.RepositoryID, &domain.PatchTagRequest{
		Title:              domain.Some("Stale"),
		IDForDetailToPatch: tag.ID,
	})
	s.ErrorIs(err, common.ErrStaleEdit)

	cs, err := s.tags.Changes(s.ctx, tag.RepositoryID, tag.ID, patched.ID)
	s.Require().NoError(err)
	s.False(cs.Changes.Title.Changed())
	s.Equal(domain.StringList{"wall", "border"}, cs.Changes.Keywords.Old)
	s.Equal(domain.StringList{"wall", "berlin"}, cs.Changes.Keywords.New)

	pending, total, err := s.tags.ListPending(s.ctx, common.NewPage(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal(patched.ID, pending[0].ID)
}

func (s *ServiceSuite) TestTagUpdateAddsLanguage() {
	tag := s.visibleTag("Bridge", "bridge")

	german, err := s.tags.Update(s.ctx, s.author, tag.RepositoryID, &domain.UpdateTagRequest{
		Title:        "Brücke",
		Keywords:     []string{"brücke"},
		LanguageCode: "de",
	})
	s.Require().NoError(err)
	_, err = s.tags.Verify(s.ctx, tag.RepositoryID, german.ID)
	s.Require().NoError(err)

	res, err := s.tags.Resolve(s.ctx, tag.RepositoryID, "de")
	s.Require().NoError(err)
	s.Equal("Brücke", res.Content.Title)
	s.Equal("de", res.Language.Code)

	history, err := s.tags.History(s.ctx, tag.RepositoryID, "")
	s.Require().NoError(err)
	s.Len(history, 2)
	_, err = s.tags.History(s.ctx, tag.RepositoryID, "xx")
	s.Error(err)
}

func (s *ServiceSuite) TestTagSearchAndSuggest() {
	park := s.visibleTag("Park", "green", "nature")
	s.visibleTag("Parliament", "politics")

	page, err := s.tags.Search(s.ctx, domain.Viewer{}, "en", "NATURE", common.NewPage(1, 10))
	s.Require().NoError(err)
	s.Require().Equal(int64(1), page.Total)
	s.Equal(park.RepositoryID, page.Items[0].(domain.PublicView[domain.TagContent]).ID)

	suggestions, err := s.tags.Suggest(s.ctx, "en", "par")
	s.Require().NoError(err)
	s.Len(suggestions, 2)

	suggestions, err = s.tags.Suggest(s.ctx, "de", "par")
	s.Require().NoError(err)
	s.Empty(suggestions)
}

func (s *ServiceSuite) TestAttachTag() {
	out := s.visibleWaypoint("Square", "en")
	tag := s.visibleTag("Plaza", "plaza")

	pendingTag, err := s.tags.Create(s.ctx, s.author, &domain.CreateTagRequest{
		Title: "Hidden", Keywords: []string{"hidden"}, LanguageCode: "en",
	})
	s.Require().NoError(err)
	_, err = s.waypoints.AttachTag(s.ctx, s.author, out.RepositoryID, pendingTag.RepositoryID)
	s.ErrorIs(err, common.ErrInvalidRequest)

	_, err = s.waypoints.AttachTag(s.ctx, domain.Viewer{}, out.RepositoryID, tag.RepositoryID)
	s.ErrorIs(err, common.ErrUnauthorized)
	_, err = s.waypoints.AttachTag(s.ctx, s.author, 404, tag.RepositoryID)
	s.ErrorIs(err, common.ErrNotFound)

	a, err := s.waypoints.AttachTag(s.ctx, s.author, out.RepositoryID, tag.RepositoryID)
	s.Require().NoError(err)
	s.Nil(a.VerifiedAt)
	_, err = s.waypoints.AttachTag(s.ctx, s.other, out.RepositoryID, tag.RepositoryID)
	s.ErrorIs(err, common.ErrInvalidRequest)

	ids, err := s.waypoints.TagIDs(s.ctx, domain.Viewer{}, out.RepositoryID)
	s.Require().NoError(err)
	s.Empty(ids)
	ids, err = s.waypoints.TagIDs(s.ctx, s.moderator, out.RepositoryID)
	s.Require().NoError(err)
	s.Equal([]uint64{tag.RepositoryID}, ids)

	verified, err := s.waypoints.VerifyTag(s.ctx, out.RepositoryID, tag.RepositoryID)
	s.Require().NoError(err)
	s.NotNil(verified.VerifiedAt)
	_, err = s.waypoints.VerifyTag(s.ctx, out.RepositoryID, tag.RepositoryID)
	s.ErrorIs(err, common.ErrAlreadyVerified)

	ids, err = s.waypoints.TagIDs(s.ctx, domain.Viewer{}, out.RepositoryID)
	s.Require().NoError(err)
	s.Equal([]uint64{tag.RepositoryID}, ids)

	s.Require().NoError(s.waypoints.DetachTag(s.ctx, out.RepositoryID, tag.RepositoryID))
	s.ErrorIs(s.waypoints.DetachTag(s.ctx, out.RepositoryID, tag.RepositoryID), common.ErrNotFound)
	ids, err = s.waypoints.TagIDs(s.ctx, s.moderator, out.RepositoryID)
	s.Require().NoError(err)
	s.Empty(ids)
}

func (s *ServiceSuite) TestTagDeleteRemovesAttachments() {
	out := s.visibleWaypoint("Corner", "en")
	tag := s.visibleTag("Corner shop", "shop")
	_, err := s.waypoints.AttachTag(s.ctx, s.author, out.RepositoryID, tag.RepositoryID)
	s.Require().NoError(err)

	s.Require().NoError(s.tags.Delete(s.ctx, tag.RepositoryID))

	ids, err := s.waypoints.TagIDs(s.ctx, s.moderator, out.RepositoryID)
	s.Require().NoError(err)
	s.Empty(ids)
	_, err = s.waypoints.Get(s.ctx, domain.Viewer{}, out.RepositoryID, "")
	s.NoError(err)
	_, err = s.tags.Get(s.ctx, domain.Viewer{}, tag.RepositoryID, "")
	s.ErrorIs(err, common.ErrNotFound)
}

func (s *ServiceSuite) TestAutoVerifyPolicy() {
	s.build(RolePolicy{AutoVerifyRole: domain.RoleModerator})

	byUser, err := s.tags.Create(s.ctx, s.author, &domain.CreateTagRequest{
		Title: "User tag", Keywords: []string{"u"}, LanguageCode: "en",
	})
	s.Require().NoError(err)
	s.Nil(byUser.VerifiedAt)

	byModerator, err := s.tags.Create(s.ctx, s.moderator, &domain.CreateTagRequest{
		Title: "Moderator tag", Keywords: []string{"m"}, LanguageCode: "en",
	})
	s.Require().NoError(err)
	s.NotNil(byModerator.VerifiedAt)

	out, err := s.waypoints.Create(s.ctx, s.admin, &domain.CreateWaypointRequest{
		Title: "Admin place", DetailText: "x",
		Location: domain.Location{Latitude: 1, Longitude: 1}, LanguageCode: "en",
	})
	s.Require().NoError(err)
	s.NotNil(out.Detail.VerifiedAt)
	s.NotNil(out.Location.VerifiedAt)

	a, err := s.waypoints.AttachTag(s.ctx, s.moderator, out.RepositoryID, byModerator.RepositoryID)
	s.Require().NoError(err)
	s.NotNil(a.VerifiedAt)
}
