package model

import (
	"strings"
	"time"
)

// Profile roles
const (
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
	RoleStudent = "student"
)

// Roles every valid profile role
var Roles = []string{RoleAdmin, RoleStaff, RoleTeacher, RoleParent, RoleStudent}

// User identity record — users
type User struct {
	ID           uint       `gorm:"primaryKey"                        json:"id"`
	Username     string     `gorm:"type:varchar(150);not null;unique" json:"username"`
	Email        string     `gorm:"type:varchar(254);not null"        json:"email"`
	FirstName    string     `gorm:"type:varchar(150);not null"        json:"first_name"`
	LastName     string     `gorm:"type:varchar(150);not null"        json:"last_name"`
	PasswordHash string     `gorm:"type:varchar(255);not null"        json:"-"`
	IsStaff      bool       `gorm:"not null;default:false"            json:"is_staff"`
	IsSuperuser  bool       `gorm:"not null;default:false"            json:"is_superuser"`
	IsActive     bool       `gorm:"not null;default:true"             json:"is_active"`
	DateJoined   time.Time  `gorm:"not null;autoCreateTime;<-:create" json:"date_joined"`
	LastLogin    *time.Time `json:"last_login"`
	UpdatedAt    time.Time  `gorm:"not null;autoUpdateTime"           json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// TableName table name
func (User) TableName() string { return "users" }

// FullName "first last", trimmed
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasStaffAccess staff flag or superuser
func (u *User) HasStaffAccess() bool {
	return u.IsStaff || u.IsSuperuser
}

// Profile role/metadata companion of a User — user_profiles (1:1)
type Profile struct {
	ID             uint    `gorm:"primaryKey"                                json:"id"`
	UserID         uint    `gorm:"not null;uniqueIndex"                      json:"user"`
	Role           string  `gorm:"type:varchar(20);not null;default:'staff'" json:"role"` // admin | staff | teacher | parent | student
	PhoneNumber    *string `gorm:"type:varchar(20)"                          json:"phone_number"`
	Address        *string `gorm:"type:text"                                 json:"address"`
	DateOfBirth    *Date   `gorm:"type:date"                                 json:"date_of_birth"`
	ProfilePicture *string `gorm:"type:varchar(255)"                         json:"profile_picture"`
	Department     *string `gorm:"type:varchar(100)"                         json:"department"`
	EmployeeID     *string `gorm:"type:varchar(50)"                          json:"employee_id"`
	BaseModel

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName table name
func (Profile) TableName() string { return "user_profiles" }

// NewDefaultProfile the profile attached to a freshly created identity
func NewDefaultProfile(userID uint) *Profile {
	return &Profile{UserID: userID, Role: RoleStaff}
}

// FullName owner's full name, falling back to the username
func (p *Profile) FullName() string {
	if p.User == nil {
		return ""
	}
	if name := p.User.FullName(); name != "" {
		return name
	}
	return p.User.Username
}

// IsAdmin admin role, or the owning identity is a superuser
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin || (p.User != nil && p.User.IsSuperuser)
}

// IsStaffMember admin, staff or teacher
func (p *Profile) IsStaffMember() bool {
	return p.Role == RoleAdmin || p.Role == RoleStaff || p.Role == RoleTeacher
}

// IsRole reports whether s is a known profile role
func IsRole(s string) bool {
	for _, r := range Roles {
		if s == r {
			return true
		}
	}
	return false
}
