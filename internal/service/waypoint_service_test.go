package service

import (
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
)

func (s *ServiceSuite) TestWaypointIsHiddenUntilBothFacetsAreVerified() {
	out, err := s.waypoints.Create(s.ctx, s.author, &domain.CreateWaypointRequest{
		Title:        "Checkpoint Charlie",
		DetailText:   "Former border crossing",
		Location:     domain.Location{Latitude: 52.5075, Longitude: 13.3904},
		LanguageCode: "en",
	})
	s.Require().NoError(err)
	s.Nil(out.Detail.VerifiedAt)

	_, err = s.waypoints.Get(s.ctx, domain.Viewer{}, out.RepositoryID, "")
	s.ErrorIs(err, common.ErrNotVisible)

	_, err = s.waypoints.Verify(s.ctx, out.RepositoryID, out.Detail.ID)
	s.Require().NoError(err)
	_, err = s.waypoints.Get(s.ctx, domain.Viewer{}, out.RepositoryID, "")
	s.ErrorIs(err, common.ErrNotVisible)

	_, err = s.waypoints.VerifyLocation(s.ctx, out.RepositoryID, out.Location.ID)
	s.Require().NoError(err)

	view, err := s.waypoints.Get(s.ctx, domain.Viewer{}, out.RepositoryID, "")
	s.Require().NoError(err)
	public, ok := view.(domain.PublicView[domain.WaypointContent])
	s.Require().True(ok, "%T", view)
	s.Equal("Checkpoint Charlie", public.Content.Title)
	s.Equal("checkpoint-charlie", public.Content.Slug)
	s.Equal(52.5075, public.Content.Location.Latitude)
	s.Equal("en", public.Language.Code)

	bySlug, err := s.waypoints.GetBySlug(s.ctx, domain.Viewer{}, "checkpoint-charlie", "")
	s.Require().NoError(err)
	s.Equal(out.RepositoryID, bySlug.(domain.PublicView[domain.WaypointContent]).ID)
}

func (s *ServiceSuite) TestWaypointViewsDependOnViewer() {
	out := s.visibleWaypoint("Reichstag", "en")

	// a pending edit is only reported to moderators
	_, err := s.waypoints.Update(s.ctx, s.other, out.RepositoryID, &domain.UpdateWaypointRequest{
		Title:        "Reichstag building",
		DetailText:   "Seat of the Bundestag",
		Location:     domain.Location{Latitude: 52.5163, Longitude: 13.3777},
		LanguageCode: "en",
	})
	s.Require().NoError(err)

	view, err := s.waypoints.Get(s.ctx, s.author, out.RepositoryID, "")
	s.Require().NoError(err)
	self, ok := view.(domain.SelfView[domain.WaypointContent])
	s.Require().True(ok, "%T", view)
	s.Len(self.Revisions, 2)

	view, err = s.waypoints.Get(s.ctx, s.other, out.RepositoryID, "")
	s.Require().NoError(err)
	_, ok = view.(domain.PublicView[domain.WaypointContent])
	s.True(ok, "%T", view)

	view, err = s.waypoints.Get(s.ctx, s.moderator, out.RepositoryID, "")
	s.Require().NoError(err)
	mod, ok := view.(domain.ModeratorView[domain.WaypointContent])
	s.Require().True(ok, "%T", view)
	s.True(mod.HasPendingRevisions)
	s.Equal("Reichstag", mod.Content.Title)
	s.Equal(*s.author.UserID, *mod.Revisions[0].UserID)
}

func (s *ServiceSuite) TestWaypointCreateValidates() {
	_, err := s.waypoints.Create(s.ctx, domain.Viewer{}, &domain.CreateWaypointRequest{Title: "a", DetailText: "b", LanguageCode: "en"})
	s.ErrorIs(err, common.ErrUnauthorized)

	_, err = s.waypoints.Create(s.ctx, s.author, &domain.CreateWaypointRequest{Title: "a", DetailText: "b", LanguageCode: "xx"})
	s.ErrorIs(err, common.ErrInvalidRequest)

	_, err = s.waypoints.Create(s.ctx, s.author, &domain.CreateWaypointRequest{
		Title: "a", DetailText: "b", LanguageCode: "en",
		Location: domain.Location{Latitude: 100},
	})
	s.ErrorIs(err, common.ErrInvalidRequest)

	var count int64
	s.Require().NoError(s.db.Model(&domain.Waypoint{}).Count(&count).Error)
	s.Zero(count)
}

func (s *ServiceSuite) TestWaypointUpdateOnlyAddsChangedLocation() {
	out := s.visibleWaypoint("Gate", "en")

	same, err := s.waypoints.Update(s.ctx, s.author, out.RepositoryID, &domain.UpdateWaypointRequest{
		Title:        "Tor",
		DetailText:   "Ein Tor",
		Location:     domain.Location{Latitude: 52.5163, Longitude: 13.3777},
		LanguageCode: "de",
	})
	s.Require().NoError(err)
	s.NotNil(same.Detail)
	s.Nil(same.Location)

	moved, err := s.waypoints.Update(s.ctx, s.author, out.RepositoryID, &domain.UpdateWaypointRequest{
		Title:        "Gate",
		DetailText:   "About Gate",
		Location:     domain.Location{Latitude: 1, Longitude: 2},
		LanguageCode: "en",
	})
	s.Require().NoError(err)
	s.Require().NotNil(moved.Location)

	_, err = s.waypoints.Update(s.ctx, s.author, 404, &domain.UpdateWaypointRequest{
		Title: "x", DetailText: "y", LanguageCode: "en",
	})
	s.ErrorIs(err, common.ErrNotFound)
}

func (s *ServiceSuite) TestWaypointPatch() {
	out := s.visibleWaypoint("Old title", "en")

	patched, err := s.waypoints.Patch(s.ctx, s.other, out.RepositoryID, &domain.PatchWaypointRequest{
		Title:              domain.Some("New title"),
		IDForDetailToPatch: &out.Detail.ID,
	})
	s.Require().NoError(err)
	s.Equal("New title", patched.Detail.Title)
	s.Equal("About Old title", patched.Detail.DetailText)
	s.Equal(*s.other.UserID, *patched.Detail.UserID)
	s.Nil(patched.Location)

	// the visible revision is unchanged until the patch is verified
	res, err := s.waypoints.Resolve(s.ctx, out.RepositoryID, "en")
	s.Require().NoError(err)
	s.Equal("Old title", res.Content.Title)

	_, err = s.waypoints.Patch(s.ctx, s.other, out.RepositoryID, &domain.PatchWaypointRequest{
		DetailText:         domain.Some("stale"),
		IDForDetailToPatch: &out.Detail.ID,
	})
	s.ErrorIs(err, common.ErrStaleEdit)

	moved, err := s.waypoints.Patch(s.ctx, s.other, out.RepositoryID, &domain.PatchWaypointRequest{
		Location:             &domain.Location{Latitude: 10, Longitude: 20},
		IDForLocationToPatch: &out.Location.ID,
	})
	s.Require().NoError(err)
	s.Nil(moved.Detail)
	s.Equal(10.0, moved.Location.Latitude)
}

func (s *ServiceSuite) TestWaypointPatchRejectsBadRequests() {
	out := s.visibleWaypoint("Patchable", "en")

	_, err := s.waypoints.Patch(s.ctx, s.other, out.RepositoryID, &domain.PatchWaypointRequest{})
	s.ErrorIs(err, common.ErrInvalidRequest)

	_, err = s.waypoints.Patch(s.ctx, s.other, out.RepositoryID, &domain.PatchWaypointRequest{Title: domain.Some("x")})
	s.ErrorIs(err, common.ErrInvalidRequest)

	_, err = s.waypoints.Patch(s.ctx, s.other, out.RepositoryID, &domain.PatchWaypointRequest{
		Title:              domain.Null[string](),
		IDForDetailToPatch: &out.Detail.ID,
	})
	s.ErrorIs(err, common.ErrInvalidRequest)

	_, err = s.waypoints.Patch(s.ctx, domain.Viewer{}, out.RepositoryID, &domain.PatchWaypointRequest{
		Title:              domain.Some("x"),
		IDForDetailToPatch: &out.Detail.ID,
	})
	s.ErrorIs(err, common.ErrUnauthorized)
}

func (s *ServiceSuite) TestWaypointVerifyTwice() {
	out := s.visibleWaypoint("Twice", "en")

	_, err := s.waypoints.Verify(s.ctx, out.RepositoryID, out.Detail.ID)
	s.ErrorIs(err, common.ErrAlreadyVerified)
	_, err = s.waypoints.VerifyLocation(s.ctx, out.RepositoryID, out.Location.ID)
	s.ErrorIs(err, common.ErrAlreadyVerified)
}

func (s *ServiceSuite) TestWaypointHistoryPendingAndChanges() {
	out := s.visibleWaypoint("Before", "en")
	patched, err := s.waypoints.Patch(s.ctx, s.other, out.RepositoryID, &domain.PatchWaypointRequest{
		Title:              domain.Some("After"),
		IDForDetailToPatch: &out.Detail.ID,
	})
	s.Require().NoError(err)

	history, err := s.waypoints.History(s.ctx, out.RepositoryID, "")
	s.Require().NoError(err)
	s.Len(history.Details, 2)
	s.Len(history.Locations, 1)

	german, err := s.waypoints.History(s.ctx, out.RepositoryID, "de")
	s.Require().NoError(err)
	s.Empty(german.Details)

	pending, total, err := s.waypoints.ListPending(s.ctx, domain.FacetDetail, common.NewPage(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Len(pending, 1)

	_, _, err = s.waypoints.ListPending(s.ctx, "colour", common.NewPage(1, 10))
	s.ErrorIs(err, common.ErrInvalidRequest)

	cs, err := s.waypoints.Changes(s.ctx, out.RepositoryID, out.Detail.ID, patched.Detail.ID)
	s.Require().NoError(err)
	s.Equal("Before", cs.Changes.Title.Old)
	s.Equal("After", *cs.Changes.Title.New)
	s.False(cs.Changes.DetailText.Changed())
	s.Equal("ada", cs.FromUser.Name)
	s.Equal("grace", cs.ToUser.Name)
	s.Equal("en", cs.Language.Code)
}

func (s *ServiceSuite) TestWaypointList() {
	first := s.visibleWaypoint("First", "en")
	second := s.visibleWaypoint("Second", "de")
	_, err := s.waypoints.Create(s.ctx, s.author, &domain.CreateWaypointRequest{
		Title: "Pending", DetailText: "x", LanguageCode: "en",
	})
	s.Require().NoError(err)

	page, err := s.waypoints.List(s.ctx, domain.Viewer{}, "", common.NewPage(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(2), page.Total)
	s.Require().Len(page.Items, 2)
	s.Equal(second.RepositoryID, page.Items[0].(domain.PublicView[domain.WaypointContent]).ID)
	s.Equal(first.RepositoryID, page.Items[1].(domain.PublicView[domain.WaypointContent]).ID)

	page, err = s.waypoints.List(s.ctx, domain.Viewer{}, "", common.NewPage(2, 1))
	s.Require().NoError(err)
	s.Equal(int64(2), page.Total)
	s.Len(page.Items, 1)
}

func (s *ServiceSuite) TestWaypointDeleteCascades() {
	out := s.visibleWaypoint("Doomed", "en")
	tag := s.visibleTag("Ruin", "ruin")
	_, err := s.waypoints.AttachTag(s.ctx, s.author, out.RepositoryID, tag.RepositoryID)
	s.Require().NoError(err)
	_, err = s.reports.Create(s.ctx, s.other, domain.KindWaypoint, out.RepositoryID, &domain.CreateReportRequest{Title: "Spam", Reason: "Advertising"})
	s.Require().NoError(err)
	_, ok := s.indexer.get(SearchDocument{Kind: domain.KindWaypoint, RepositoryID: out.RepositoryID, Language: "en"}.DocumentID())
	s.True(ok)

	s.Require().NoError(s.waypoints.Delete(s.ctx, out.RepositoryID))

	_, err = s.waypoints.Get(s.ctx, s.moderator, out.RepositoryID, "")
	s.ErrorIs(err, common.ErrNotFound)
	for _, model := range []interface{}{&domain.WaypointDetail{}, &domain.WaypointLocation{}, &domain.TagAttachment{}, &domain.Report{}} {
		var count int64
		s.Require().NoError(s.db.Model(model).Count(&count).Error)
		s.Zero(count, "%T", model)
	}
	_, ok = s.indexer.get(SearchDocument{Kind: domain.KindWaypoint, RepositoryID: out.RepositoryID, Language: "en"}.DocumentID())
	s.False(ok)

	// the tag survives
	_, err = s.tags.Get(s.ctx, domain.Viewer{}, tag.RepositoryID, "")
	s.NoError(err)

	s.ErrorIs(s.waypoints.Delete(s.ctx, out.RepositoryID), common.ErrNotFound)
}

func (s *ServiceSuite) TestWaypointSearchAndSuggest() {
	gate := s.visibleWaypoint("Brandenburg Gate", "en")
	s.visibleWaypoint("Brandenburger Tor", "de")

	page, err := s.waypoints.Search(s.ctx, domain.Viewer{}, "en", "brandenburg", common.NewPage(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)
	s.Equal(gate.RepositoryID, page.Items[0].(domain.PublicView[domain.WaypointContent]).ID)

	page, err = s.waypoints.Search(s.ctx, domain.Viewer{}, "en", "about", common.NewPage(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)

	suggestions, err := s.waypoints.Suggest(s.ctx, "de", "brand")
	s.Require().NoError(err)
	s.Require().Len(suggestions, 1)
	s.Equal("Brandenburger Tor", suggestions[0].Title)
	s.Equal("brandenburger-tor", suggestions[0].Slug)

	_, err = s.waypoints.Search(s.ctx, domain.Viewer{}, "en", "  ", common.NewPage(1, 10))
	s.ErrorIs(err, common.ErrInvalidRequest)
	_, err = s.waypoints.Search(s.ctx, domain.Viewer{}, "", "gate", common.NewPage(1, 10))
	s.ErrorIs(err, common.ErrInvalidRequest)
	_, err = s.waypoints.Suggest(s.ctx, "xx", "gate")
	s.ErrorIs(err, common.ErrLanguageNotFound)
}

func (s *ServiceSuite) TestWaypointSearchTreatsWildcardsLiterally() {
	s.visibleWaypoint("Berlin Gate", "en")
	s.visibleWaypoint("Paris Tower", "en")
	art := s.visibleWaypoint("100% Pure_Art", "en")

	search := func(text string) *Page {
		page, err := s.waypoints.Search(s.ctx, domain.Viewer{}, "en", text, common.NewPage(1, 10))
		s.Require().NoError(err)
		return page
	}
	for _, text := range []string{"B_rlin", "Par%", "!", "_ower"} {
		s.Zero(search(text).Total, text)
	}
	for _, text := range []string{"%", "_", "e_a", "0% p"} {
		page := search(text)
		s.Require().Equal(int64(1), page.Total, text)
		s.Equal(art.RepositoryID, page.Items[0].(domain.PublicView[domain.WaypointContent]).ID)
	}

	suggestions, err := s.waypoints.Suggest(s.ctx, "en", "_")
	s.Require().NoError(err)
	s.Empty(suggestions)
	suggestions, err = s.waypoints.Suggest(s.ctx, "en", "%")
	s.Require().NoError(err)
	s.Empty(suggestions)
	suggestions, err = s.waypoints.Suggest(s.ctx, "en", "100%")
	s.Require().NoError(err)
	s.Require().Len(suggestions, 1)
	s.Equal("100% Pure_Art", suggestions[0].Title)
}

func (s *ServiceSuite) TestWaypointSearchMatchesVerifiedTags() {
	out := s.visibleWaypoint("East Side Gallery", "en")
	tag := s.visibleTag("Street art", "mural", "graffiti")

	_, err := s.waypoints.AttachTag(s.ctx, s.author, out.RepositoryID, tag.RepositoryID)
	s.Require().NoError(err)

	page, err := s.waypoints.Search(s.ctx, domain.Viewer{}, "en", "graffiti", common.NewPage(1, 10))
	s.Require().NoError(err)
	s.Zero(page.Total)

	_, err = s.waypoints.VerifyTag(s.ctx, out.RepositoryID, tag.RepositoryID)
	s.Require().NoError(err)

	page, err = s.waypoints.Search(s.ctx, domain.Viewer{}, "en", "graffiti", common.NewPage(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)
}
