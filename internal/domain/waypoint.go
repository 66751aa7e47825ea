package domain

// Waypoint repository
type Waypoint struct {
	RepositoryBase
}

func (Waypoint) TableName() string { return "waypoints" }

// WaypointDetail is the localized text facet of a waypoint
type WaypointDetail struct {
	RevisionMeta
	Title      string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Slug       string `gorm:"column:slug;type:varchar(255);index" json:"slug"`
	DetailText string `gorm:"column:detail_text;type:text;not null" json:"detail_text"`
}

func (WaypointDetail) TableName() string { return "waypoint_details" }

func (d *WaypointDetail) Validate() error {
	if err := requireText("title", d.Title); err != nil {
		return err
	}
	return requireText("detail_text", d.DetailText)
}

func (d *WaypointDetail) SlugSource() string { return d.Title }
func (d *WaypointDetail) GetSlug() string    { return d.Slug }
func (d *WaypointDetail) SetSlug(s string)   { d.Slug = s }

// SearchColumns are matched by text search
func (WaypointDetail) SearchColumns() []string { return []string{"title", "detail_text"} }

// Location is a coordinate pair
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the coordinate ranges
func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return invalid("latitude %v out of range", l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return invalid("longitude %v out of range", l.Longitude)
	}
	return nil
}

// WaypointLocation is the language independent coordinate facet of a waypoint
type WaypointLocation struct {
	RevisionMeta
	Latitude  float64 `gorm:"column:latitude;not null" json:"latitude"`
	Longitude float64 `gorm:"column:longitude;not null" json:"longitude"`
}

func (WaypointLocation) TableName() string { return "waypoint_locations" }

func (l *WaypointLocation) Validate() error { return l.Location().Validate() }

// Location returns the coordinates as a value
func (l *WaypointLocation) Location() Location {
	return Location{Latitude: l.Latitude, Longitude: l.Longitude}
}

// WaypointContent is the resolved, publicly visible waypoint
type WaypointContent struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	DetailText string   `json:"detail_text"`
	Location   Location `json:"location"`
}

// CreateWaypointRequest creates a repository with its first detail and location
type CreateWaypointRequest struct {
	Title        string   `json:"title" validate:"required"`
	DetailText   string   `json:"detail_text" validate:"required"`
	Location     Location `json:"location"`
	LanguageCode string   `json:"language_code" validate:"required"`
}

// UpdateWaypointRequest replaces all fields; it may target a new language
type UpdateWaypointRequest = CreateWaypointRequest

// PatchWaypointRequest merges fields into the target revisions
type PatchWaypointRequest struct {
	Title                Optional[string] `json:"title"`
	DetailText           Optional[string] `json:"detail_text"`
	Location             *Location        `json:"location"`
	IDForDetailToPatch   *uint64          `json:"id_for_detail_to_patch"`
	IDForLocationToPatch *uint64          `json:"id_for_location_to_patch"`
}

// WaypointDetailChanges field-level detail diff
type WaypointDetailChanges struct {
	Title      FieldChange[string] `json:"title"`
	DetailText FieldChange[string] `json:"detail_text"`
}

// DiffWaypointDetails compares two detail revisions
func DiffWaypointDetails(from, to *WaypointDetail) WaypointDetailChanges {
	return WaypointDetailChanges{
		Title:      Compare(from.Title, to.Title),
		DetailText: Compare(from.DetailText, to.DetailText),
	}
}

// WaypointLocationChanges coordinate diff
type WaypointLocationChanges struct {
	Location FieldChange[Location] `json:"location"`
}

// DiffWaypointLocations compares two location revisions
func DiffWaypointLocations(from, to *WaypointLocation) WaypointLocationChanges {
	return WaypointLocationChanges{Location: Compare(from.Location(), to.Location())}
}
