package domain

import "time"

// Tag repository
type Tag struct {
	RepositoryBase
}

func (Tag) TableName() string { return "tags" }

// TagDetail is the localized facet of a tag
type TagDetail struct {
	RevisionMeta
	Title    string     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Slug     string     `gorm:"column:slug;type:varchar(255);index" json:"slug"`
	Keywords StringList `gorm:"column:keywords;type:text" json:"keywords"`
}

func (TagDetail) TableName() string { return "tag_details" }

func (d *TagDetail) Validate() error {
	if err := requireText("title", d.Title); err != nil {
		return err
	}
	d.Keywords = NormalizeStringList(d.Keywords)
	if len(d.Keywords) == 0 {
		return invalid("keywords must contain at least one entry")
	}
	return nil
}

func (d *TagDetail) SlugSource() string { return d.Title }
func (d *TagDetail) GetSlug() string    { return d.Slug }
func (d *TagDetail) SetSlug(s string)   { d.Slug = s }

func (TagDetail) SearchColumns() []string { return []string{"title", "keywords"} }

// TagContent is the resolved, publicly visible tag
type TagContent struct {
	Title    string     `json:"title"`
	Slug     string     `json:"slug"`
	Keywords StringList `json:"keywords"`
}

// CreateTagRequest creates a tag repository
type CreateTagRequest struct {
	Title        string   `json:"title" validate:"required"`
	Keywords     []string `json:"keywords" validate:"required"`
	LanguageCode string   `json:"language_code" validate:"required"`
}

// UpdateTagRequest replaces all fields in a (possibly new) language
type UpdateTagRequest = CreateTagRequest

// PatchTagRequest merges fields into the target revision
type PatchTagRequest struct {
	Title              Optional[string]   `json:"title"`
	Keywords           Optional[[]string] `json:"keywords"`
	IDForDetailToPatch uint64             `json:"id_for_detail_to_patch" validate:"required"`
}

// TagDetailChanges field-level diff
type TagDetailChanges struct {
	Title    FieldChange[string] `json:"title"`
	Keywords ListChange          `json:"keywords"`
}

// DiffTagDetails compares two tag revisions
func DiffTagDetails(from, to *TagDetail) TagDetailChanges {
	return TagDetailChanges{
		Title:    Compare(from.Title, to.Title),
		Keywords: CompareList(from.Keywords, to.Keywords),
	}
}

// TagAttachment links a tag to a repository of a taggable kind.
// Attachments are moderated like revisions; only verified ones count for search.
type TagAttachment struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Kind         Kind       `gorm:"column:kind;type:varchar(20);uniqueIndex:idx_tag_attachment;not null" json:"kind"`
	RepositoryID uint64     `gorm:"column:repository_id;uniqueIndex:idx_tag_attachment;not null" json:"repository_id"`
	TagID        uint64     `gorm:"column:tag_id;uniqueIndex:idx_tag_attachment;index;not null" json:"tag_id"`
	UserID       *uint64    `gorm:"column:user_id;index" json:"user_id,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	VerifiedAt   *time.Time `gorm:"column:verified_at" json:"verified_at,omitempty"`
}

func (TagAttachment) TableName() string { return "tag_attachments" }
