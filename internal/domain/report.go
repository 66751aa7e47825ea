package domain

import "time"

// Report is a user complaint about a visible repository.
// RevisionID records which revision was shown when the report was filed.
type Report struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Kind         Kind       `gorm:"column:kind;type:varchar(20);index:idx_report_repository;not null" json:"kind"`
	RepositoryID uint64     `gorm:"column:repository_id;index:idx_report_repository;not null" json:"repository_id"`
	RevisionID   *uint64    `gorm:"column:revision_id" json:"revision_id,omitempty"`
	Title        string     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Reason       string     `gorm:"column:reason;type:text;not null" json:"reason"`
	UserID       *uint64    `gorm:"column:user_id;index" json:"user_id,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	VerifiedAt   *time.Time `gorm:"column:verified_at" json:"verified_at,omitempty"`
}

// TableName returns the table name
func (Report) TableName() string {
	return "reports"
}

// Status returns the status string based on verification
func (r *Report) Status() string {
	if r.VerifiedAt != nil {
		return "verified"
	}
	return "pending"
}

// CreateReportRequest request body for reporting a repository
type CreateReportRequest struct {
	Title  string `json:"title" validate:"required,max=255"`
	Reason string `json:"reason" validate:"required"`
}

// Validate re-checks the trimmed fields
func (r *CreateReportRequest) Validate() error {
	if err := requireText("title", r.Title); err != nil {
		return err
	}
	return requireText("reason", r.Reason)
}
