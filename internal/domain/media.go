package domain

// Media repository
type Media struct {
	RepositoryBase
}

func (Media) TableName() string { return "media" }

// MediaDetail is the localized description facet of a media item
type MediaDetail struct {
	RevisionMeta
	Title      string  `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Slug       string  `gorm:"column:slug;type:varchar(255);index" json:"slug"`
	DetailText string  `gorm:"column:detail_text;type:text;not null" json:"detail_text"`
	Source     *string `gorm:"column:source;type:varchar(500)" json:"source,omitempty"`
}

func (MediaDetail) TableName() string { return "media_details" }

func (d *MediaDetail) Validate() error {
	if err := requireText("title", d.Title); err != nil {
		return err
	}
	if err := requireText("detail_text", d.DetailText); err != nil {
		return err
	}
	if d.Source != nil {
		return requireText("source", *d.Source)
	}
	return nil
}

func (d *MediaDetail) SlugSource() string { return d.Title }
func (d *MediaDetail) GetSlug() string    { return d.Slug }
func (d *MediaDetail) SetSlug(s string)   { d.Slug = s }

func (MediaDetail) SearchColumns() []string { return []string{"title", "detail_text", "source"} }

// MediaFileType kind of binary stored for a media item
type MediaFileType string

const (
	MediaFileImage    MediaFileType = "image"
	MediaFileVideo    MediaFileType = "video"
	MediaFileAudio    MediaFileType = "audio"
	MediaFileDocument MediaFileType = "document"
)

// Valid reports whether t is a known file type
func (t MediaFileType) Valid() bool {
	switch t {
	case MediaFileImage, MediaFileVideo, MediaFileAudio, MediaFileDocument:
		return true
	}
	return false
}

// MediaFile is the language independent file facet; FilePath points into external storage
type MediaFile struct {
	RevisionMeta
	FilePath string        `gorm:"column:file_path;type:varchar(500);not null" json:"file_path"`
	FileType MediaFileType `gorm:"column:file_type;type:varchar(20);not null" json:"file_type"`
}

func (MediaFile) TableName() string { return "media_files" }

func (f *MediaFile) Validate() error {
	if err := requireText("file_path", f.FilePath); err != nil {
		return err
	}
	if !f.FileType.Valid() {
		return invalid("unknown file type %q", f.FileType)
	}
	return nil
}

// MediaFilePointer is handed over by the upload collaborator
type MediaFilePointer struct {
	FilePath string        `json:"file_path" validate:"required"`
	FileType MediaFileType `json:"file_type" validate:"required"`
}

// MediaContent is the resolved, publicly visible media item
type MediaContent struct {
	Title      string           `json:"title"`
	Slug       string           `json:"slug"`
	DetailText string           `json:"detail_text"`
	Source     *string          `json:"source,omitempty"`
	File       MediaFilePointer `json:"file"`
}

// CreateMediaRequest creates a media repository with description and file
type CreateMediaRequest struct {
	Title        string           `json:"title" validate:"required"`
	DetailText   string           `json:"detail_text" validate:"required"`
	Source       *string          `json:"source"`
	LanguageCode string           `json:"language_code" validate:"required"`
	File         MediaFilePointer `json:"file"`
}

// UpdateMediaRequest replaces the description in a (possibly new) language
type UpdateMediaRequest struct {
	Title        string  `json:"title" validate:"required"`
	DetailText   string  `json:"detail_text" validate:"required"`
	Source       *string `json:"source"`
	LanguageCode string  `json:"language_code" validate:"required"`
}

// PatchMediaRequest merges description fields into the target revision
type PatchMediaRequest struct {
	Title              Optional[string] `json:"title"`
	DetailText         Optional[string] `json:"detail_text"`
	Source             Optional[string] `json:"source"`
	IDForDetailToPatch uint64           `json:"id_for_detail_to_patch" validate:"required"`
}

// MediaDetailChanges field-level diff
type MediaDetailChanges struct {
	Title      FieldChange[string]    `json:"title"`
	DetailText FieldChange[string]    `json:"detail_text"`
	Source     NullableChange[string] `json:"source"`
}

// DiffMediaDetails compares two description revisions
func DiffMediaDetails(from, to *MediaDetail) MediaDetailChanges {
	return MediaDetailChanges{
		Title:      Compare(from.Title, to.Title),
		DetailText: Compare(from.DetailText, to.DetailText),
		Source:     CompareNullable(from.Source, to.Source),
	}
}

// MediaFileChanges file pointer diff
type MediaFileChanges struct {
	FilePath FieldChange[string]        `json:"file_path"`
	FileType FieldChange[MediaFileType] `json:"file_type"`
}

// DiffMediaFiles compares two file revisions
func DiffMediaFiles(from, to *MediaFile) MediaFileChanges {
	return MediaFileChanges{
		FilePath: Compare(from.FilePath, to.FilePath),
		FileType: Compare(from.FileType, to.FileType),
	}
}
