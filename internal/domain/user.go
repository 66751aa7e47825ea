package domain

import "time"

// Role of a user. Ordered: every role includes the permissions of the ones below it.
type Role string

const (
	RoleUser       Role = "user"
	RoleModerator  Role = "moderator"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superAdmin"
)

var roleRank = map[Role]int{
	RoleUser:       1,
	RoleModerator:  2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// AtLeast reports whether r is the same as or above other
func (r Role) AtLeast(other Role) bool {
	return roleRank[r] >= roleRank[other] && roleRank[r] > 0
}

// User is the minimal account model the content core needs.
// Authentication and credentials live in an external collaborator.
type User struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Email     string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Role      Role      `gorm:"column:role;type:varchar(20);not null;default:user" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string { return "users" }

// UserToken is an issued authentication token; deleted together with the user
type UserToken struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"column:user_id;index;not null" json:"user_id"`
	Value     string    `gorm:"column:value;type:varchar(255);uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (UserToken) TableName() string { return "user_tokens" }

// UserRef is how authors appear in views; nil means unknown (deleted) author
type UserRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Viewer identifies the caller of a read operation. The zero value is an anonymous visitor.
type Viewer struct {
	UserID *uint64
	Role   Role
}

// IsModerator reports whether the viewer has moderation rights
func (v Viewer) IsModerator() bool {
	return v.UserID != nil && v.Role.AtLeast(RoleModerator)
}

// IsAdmin reports whether the viewer has admin rights
func (v Viewer) IsAdmin() bool {
	return v.UserID != nil && v.Role.AtLeast(RoleAdmin)
}

// Owns reports whether the viewer authored a revision with the given author id
func (v Viewer) Owns(authorID *uint64) bool {
	return v.UserID != nil && authorID != nil && *v.UserID == *authorID
}
