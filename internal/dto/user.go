package dto

import "github.com/22146025/lord-s-heart-educational-complex/internal/model"

// ── identity DTO ──

// ProfileInput writable profile fields; nil leaves the field untouched
type ProfileInput struct {
	Role           *string     `json:"role"            binding:"omitempty,oneof=admin staff teacher parent student"`
	PhoneNumber    *string     `json:"phone_number"    binding:"omitempty,max=20"`
	Address        *string     `json:"address"`
	DateOfBirth    *model.Date `json:"date_of_birth"`
	ProfilePicture *string     `json:"profile_picture" binding:"omitempty,max=255"`
	Department     *string     `json:"department"      binding:"omitempty,max=100"`
	EmployeeID     *string     `json:"employee_id"     binding:"omitempty,max=50"`
}

// Apply copies the non-nil fields onto p
func (in *ProfileInput) Apply(p *model.Profile) {
	if in == nil || p == nil {
		return
	}
	if in.Role != nil {
		p.Role = *in.Role
	}
	if in.PhoneNumber != nil {
		p.PhoneNumber = in.PhoneNumber
	}
	if in.Address != nil {
		p.Address = in.Address
	}
	if in.DateOfBirth != nil {
		p.DateOfBirth = in.DateOfBirth
	}
	if in.ProfilePicture != nil {
		p.ProfilePicture = in.ProfilePicture
	}
	if in.Department != nil {
		p.Department = in.Department
	}
	if in.EmployeeID != nil {
		p.EmployeeID = in.EmployeeID
	}
}

// CreateUserRequest staff creates an identity; the profile payload is applied
// to the profile created alongside it
type CreateUserRequest struct {
	Username        string        `json:"username"         binding:"required,max=150"`
	Email           string        `json:"email"            binding:"omitempty,email,max=254"`
	FirstName       string        `json:"first_name"       binding:"omitempty,max=150"`
	LastName        string        `json:"last_name"        binding:"omitempty,max=150"`
	Password        string        `json:"password"         binding:"required"`
	PasswordConfirm string        `json:"password_confirm" binding:"required"`
	Profile         *ProfileInput `json:"profile"`
}

// UpdateUserRequest partial identity update
type UpdateUserRequest struct {
	Email     *string       `json:"email"      binding:"omitempty,email,max=254"`
	FirstName *string       `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string       `json:"last_name"  binding:"omitempty,max=150"`
	Profile   *ProfileInput `json:"profile"`
}

// UserListRequest list filters
type UserListRequest struct {
	ListQuery
	IsActive *bool `form:"is_active"`
	IsStaff  *bool `form:"is_staff"`
}

// ProfileListRequest list filters
type ProfileListRequest struct {
	ListQuery
	Role string `form:"role" binding:"omitempty,oneof=admin staff teacher parent student"`
}

// ProfileResponse profile with derived fields
type ProfileResponse struct {
	*model.Profile
	FullName      string `json:"full_name"`
	IsAdmin       bool   `json:"is_admin"`
	IsStaffMember bool   `json:"is_staff_member"`
}

// NewProfileResponse nil-safe
func NewProfileResponse(p *model.Profile) *ProfileResponse {
	if p == nil {
		return nil
	}
	return &ProfileResponse{
		Profile:       p,
		FullName:      p.FullName(),
		IsAdmin:       p.IsAdmin(),
		IsStaffMember: p.IsStaffMember(),
	}
}

// UserResponse identity without credentials
type UserResponse struct {
	ID        uint             `json:"id"`
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	IsStaff   bool             `json:"is_staff"`
	IsActive  bool             `json:"is_active"`
	Profile   *ProfileResponse `json:"profile"`
}

// NewUserResponse maps u; the profile owner pointer is filled for derived flags
func NewUserResponse(u *model.User) *UserResponse {
	if u.Profile != nil && u.Profile.User == nil {
		u.Profile.User = u
	}
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsStaff:   u.IsStaff,
		IsActive:  u.IsActive,
		Profile:   NewProfileResponse(u.Profile),
	}
}

// UserStatistics identity dashboard figures
type UserStatistics struct {
	TotalUsers     int64     `json:"total_users"`
	ActiveUsers    int64     `json:"active_users"`
	StaffUsers     int64     `json:"staff_users"`
	RecentUsers    int64     `json:"recent_users"`
	RoleStatistics []CountBy `json:"role_statistics"`
}
