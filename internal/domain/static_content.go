package domain

import "strings"

// StaticContent repository. RequiredSnippets are fixed at creation and
// every revision text must contain each of them.
type StaticContent struct {
	RepositoryBase
	RequiredSnippets StringList `gorm:"column:required_snippets;type:text" json:"required_snippets"`
}

func (StaticContent) TableName() string { return "static_contents" }

// StaticContentDetail is the localized facet of static editorial text
type StaticContentDetail struct {
	RevisionMeta
	ModerationTitle string `gorm:"column:moderation_title;type:varchar(255);not null" json:"moderation_title"`
	Slug            string `gorm:"column:slug;type:varchar(255);index" json:"slug"`
	Title           string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Text            string `gorm:"column:text;type:text;not null" json:"text"`
}

func (StaticContentDetail) TableName() string { return "static_content_details" }

func (d *StaticContentDetail) Validate() error {
	if err := requireText("moderation_title", d.ModerationTitle); err != nil {
		return err
	}
	if err := requireText("title", d.Title); err != nil {
		return err
	}
	return requireText("text", d.Text)
}

// CheckSnippets verifies that the text contains every required snippet
func (d *StaticContentDetail) CheckSnippets(snippets StringList) error {
	for _, s := range snippets {
		if !strings.Contains(d.Text, s) {
			return invalid("text must contain %q", s)
		}
	}
	return nil
}

func (d *StaticContentDetail) SlugSource() string { return d.ModerationTitle }
func (d *StaticContentDetail) GetSlug() string    { return d.Slug }
func (d *StaticContentDetail) SetSlug(s string)   { d.Slug = s }

// StaticContentContent is the resolved, publicly visible static text
type StaticContentContent struct {
	ModerationTitle  string     `json:"moderation_title"`
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	Text             string     `json:"text"`
	RequiredSnippets StringList `json:"required_snippets"`
}

// CreateStaticContentRequest creates a static content repository
type CreateStaticContentRequest struct {
	ModerationTitle  string   `json:"moderation_title" validate:"required"`
	Title            string   `json:"title" validate:"required"`
	Text             string   `json:"text" validate:"required"`
	RequiredSnippets []string `json:"required_snippets"`
	LanguageCode     string   `json:"language_code" validate:"required"`
}

// UpdateStaticContentRequest replaces all fields in a (possibly new) language
type UpdateStaticContentRequest struct {
	ModerationTitle string `json:"moderation_title" validate:"required"`
	Title           string `json:"title" validate:"required"`
	Text            string `json:"text" validate:"required"`
	LanguageCode    string `json:"language_code" validate:"required"`
}

// PatchStaticContentRequest merges fields into the target revision
type PatchStaticContentRequest struct {
	ModerationTitle    Optional[string] `json:"moderation_title"`
	Title              Optional[string] `json:"title"`
	Text               Optional[string] `json:"text"`
	IDForDetailToPatch uint64           `json:"id_for_detail_to_patch" validate:"required"`
}

// StaticContentChanges field-level diff
type StaticContentChanges struct {
	ModerationTitle FieldChange[string] `json:"moderation_title"`
	Title           FieldChange[string] `json:"title"`
	Text            FieldChange[string] `json:"text"`
}

// DiffStaticContentDetails compares two static content revisions
func DiffStaticContentDetails(from, to *StaticContentDetail) StaticContentChanges {
	return StaticContentChanges{
		ModerationTitle: Compare(from.ModerationTitle, to.ModerationTitle),
		Title:           Compare(from.Title, to.Title),
		Text:            Compare(from.Text, to.Text),
	}
}
