package dto

import (
	"time"

	"github.com/22146025/lord-s-heart-educational-complex/internal/model"
)

// ── admissions DTO ──

// CreateApplicationRequest public admission form
type CreateApplicationRequest struct {
	Surname               string     `json:"surname"                 binding:"required,max=100"`
	FirstName             string     `json:"first_name"              binding:"required,max=100"`
	OtherNames            *string    `json:"other_names"             binding:"omitempty,max=100"`
	DateOfBirth           model.Date `json:"date_of_birth"`
	Age                   int        `json:"age"                     binding:"omitempty"`
	Gender                string     `json:"gender"                  binding:"required,oneof=male female"`
	PlaceOfBirth          string     `json:"place_of_birth"          binding:"required,max=100"`
	RegionOfBirth         string     `json:"region_of_birth"         binding:"required,max=100"`
	HomeTown              string     `json:"home_town"               binding:"required,max=100"`
	RegionOfHomeTown      string     `json:"region_of_home_town"     binding:"required,max=100"`
	LastSchoolAttended    *string    `json:"last_school_attended"    binding:"omitempty,max=200"`
	LocationOfLastSchool  *string    `json:"location_of_last_school" binding:"omitempty,max=200"`
	ClassBeforeAdmission  string     `json:"class_before_admission"  binding:"required,max=50"`
	ReligiousDenomination *string    `json:"religious_denomination"  binding:"omitempty,max=100"`
	Hobbies               *string    `json:"hobbies"`
	DisabilityOrAllergy   *string    `json:"disability_or_allergy"`

	FatherName       *string `json:"father_name"        binding:"omitempty,max=100"`
	MotherName       *string `json:"mother_name"        binding:"omitempty,max=100"`
	FatherOccupation *string `json:"father_occupation"  binding:"omitempty,max=100"`
	MotherOccupation *string `json:"mother_occupation"  binding:"omitempty,max=100"`
	FatherContact    *string `json:"father_contact"     binding:"omitempty,max=20"`
	MotherContact    *string `json:"mother_contact"     binding:"omitempty,max=20"`
	FatherEmail      *string `json:"father_email"       binding:"omitempty,max=254,hasat"`
	MotherEmail      *string `json:"mother_email"       binding:"omitempty,max=254,hasat"`
	PostalAddress    string  `json:"postal_address"     binding:"required"`
	PlaceOfResidence string  `json:"place_of_residence" binding:"required,max=200"`
	HouseNumber      *string `json:"house_number"       binding:"omitempty,max=50"`
}

// ToModel builds a pending application; workflow fields are left to the service
func (r *CreateApplicationRequest) ToModel() *model.Application {
	return &model.Application{
		Surname:               r.Surname,
		FirstName:             r.FirstName,
		OtherNames:            r.OtherNames,
		DateOfBirth:           r.DateOfBirth,
		Age:                   r.Age,
		Gender:                r.Gender,
		PlaceOfBirth:          r.PlaceOfBirth,
		RegionOfBirth:         r.RegionOfBirth,
		HomeTown:              r.HomeTown,
		RegionOfHomeTown:      r.RegionOfHomeTown,
		LastSchoolAttended:    r.LastSchoolAttended,
		LocationOfLastSchool:  r.LocationOfLastSchool,
		ClassBeforeAdmission:  r.ClassBeforeAdmission,
		ReligiousDenomination: r.ReligiousDenomination,
		Hobbies:               r.Hobbies,
		DisabilityOrAllergy:   r.DisabilityOrAllergy,
		FatherName:            r.FatherName,
		MotherName:            r.MotherName,
		FatherOccupation:      r.FatherOccupation,
		MotherOccupation:      r.MotherOccupation,
		FatherContact:         r.FatherContact,
		MotherContact:         r.MotherContact,
		FatherEmail:           r.FatherEmail,
		MotherEmail:           r.MotherEmail,
		PostalAddress:         r.PostalAddress,
		PlaceOfResidence:      r.PlaceOfResidence,
		HouseNumber:           r.HouseNumber,
	}
}

// UpdateApplicationRequest staff update; only status and notes are writable
type UpdateApplicationRequest struct {
	Status *string `json:"status" binding:"omitempty,oneof=pending reviewed accepted rejected"`
	Notes  *string `json:"notes"`
}

// ApplicationListRequest list filters
type ApplicationListRequest struct {
	ListQuery
	Status               string `form:"status"                 binding:"omitempty,oneof=pending reviewed accepted rejected"`
	Gender               string `form:"gender"                 binding:"omitempty,oneof=male female"`
	ClassBeforeAdmission string `form:"class_before_admission" binding:"omitempty,max=50"`
}

// ApplicationResponse full record
type ApplicationResponse struct {
	*model.Application
	FullName   string `json:"full_name"`
	IsPending  bool   `json:"is_pending"`
	IsAccepted bool   `json:"is_accepted"`
	IsRejected bool   `json:"is_rejected"`
}

// ApplicationListItem staff list projection
type ApplicationListItem struct {
	ID                   uint      `json:"id"`
	Surname              string    `json:"surname"`
	FirstName            string    `json:"first_name"`
	FullName             string    `json:"full_name"`
	Age                  int       `json:"age"`
	Gender               string    `json:"gender"`
	ClassBeforeAdmission string    `json:"class_before_admission"`
	Status               string    `json:"status"`
	ApplicationDate      time.Time `json:"application_date"`
	CreatedAt            time.Time `json:"created_at"`
}

// ApplicationPublicItem projection shown to non-staff callers
type ApplicationPublicItem struct {
	ID              uint      `json:"id"`
	Surname         string    `json:"surname"`
	FirstName       string    `json:"first_name"`
	FullName        string    `json:"full_name"`
	Status          string    `json:"status"`
	ApplicationDate time.Time `json:"application_date"`
}

// NewApplicationResponse full record with derived fields
func NewApplicationResponse(a *model.Application) *ApplicationResponse {
	return &ApplicationResponse{
		Application: a,
		FullName:    a.FullName(),
		IsPending:   a.IsPending(),
		IsAccepted:  a.IsAccepted(),
		IsRejected:  a.IsRejected(),
	}
}

// NewApplicationListItem staff list row
func NewApplicationListItem(a *model.Application) ApplicationListItem {
	return ApplicationListItem{
		ID:                   a.ID,
		Surname:              a.Surname,
		FirstName:            a.FirstName,
		FullName:             a.FullName(),
		Age:                  a.Age,
		Gender:               a.Gender,
		ClassBeforeAdmission: a.ClassBeforeAdmission,
		Status:               a.Status,
		ApplicationDate:      a.ApplicationDate,
		CreatedAt:            a.CreatedAt,
	}
}

// NewApplicationPublicItem public list row
func NewApplicationPublicItem(a *model.Application) ApplicationPublicItem {
	return ApplicationPublicItem{
		ID:              a.ID,
		Surname:         a.Surname,
		FirstName:       a.FirstName,
		FullName:        a.FullName(),
		Status:          a.Status,
		ApplicationDate: a.ApplicationDate,
	}
}

// ApplicationStatistics admissions dashboard figures
type ApplicationStatistics struct {
	TotalApplications    int64     `json:"total_applications"`
	PendingApplications  int64     `json:"pending_applications"`
	AcceptedApplications int64     `json:"accepted_applications"`
	RejectedApplications int64     `json:"rejected_applications"`
	RecentApplications   int64     `json:"recent_applications"`
	GenderStatistics     []CountBy `json:"gender_statistics"`
	ClassStatistics      []CountBy `json:"class_statistics"`
}
