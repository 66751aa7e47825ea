package domain

// Language is a content language. Priority nil means deactivated;
// lower values are preferred during resolution.
type Language struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Code     string `gorm:"column:language_code;type:varchar(10);uniqueIndex;not null" json:"code"`
	Name     string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	IsRTL    bool   `gorm:"column:is_rtl" json:"is_rtl"`
	Priority *int   `gorm:"column:priority;index" json:"priority,omitempty"`
}

func (Language) TableName() string { return "languages" }

// IsActive reports whether the language takes part in resolution
func (l *Language) IsActive() bool { return l.Priority != nil }

// LanguageView is the public shape of a language
type LanguageView struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	IsRTL bool   `json:"is_rtl"`
}

// View converts to the public shape
func (l *Language) View() LanguageView {
	return LanguageView{Code: l.Code, Name: l.Name, IsRTL: l.IsRTL}
}

// CreateLanguageRequest request body for creating a language
type CreateLanguageRequest struct {
	Code  string `json:"code" validate:"required,min=2,max=10"`
	Name  string `json:"name" validate:"required,max=100"`
	IsRTL bool   `json:"is_rtl"`
}

// UpdatePrioritiesRequest lists the active language codes in their new order
type UpdatePrioritiesRequest struct {
	Codes []string `json:"codes" validate:"required,min=1,dive,required"`
}
