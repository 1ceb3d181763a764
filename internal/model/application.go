package model

import (
	"strings"
	"time"
)

// Application statuses
const (
	ApplicationPending  = "pending"
	ApplicationReviewed = "reviewed"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// Genders
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Age bounds of an applicant
const (
	MinApplicantAge = 1
	MaxApplicantAge = 25
)

// ApplicationStatuses every valid application status
var ApplicationStatuses = []string{ApplicationPending, ApplicationReviewed, ApplicationAccepted, ApplicationRejected}

// Application admission application — admission_applications
type Application struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// pupil
	Surname               string  `gorm:"type:varchar(100);not null" json:"surname"`
	FirstName             string  `gorm:"type:varchar(100);not null" json:"first_name"`
	OtherNames            *string `gorm:"type:varchar(100)"          json:"other_names"`
	DateOfBirth           Date    `gorm:"type:date;not null"         json:"date_of_birth"`
	Age                   int     `gorm:"not null"                   json:"age"`
	Gender                string  `gorm:"type:varchar(10);not null"  json:"gender"` // male | female
	PlaceOfBirth          string  `gorm:"type:varchar(100);not null" json:"place_of_birth"`
	RegionOfBirth         string  `gorm:"type:varchar(100);not null" json:"region_of_birth"`
	HomeTown              string  `gorm:"type:varchar(100);not null" json:"home_town"`
	RegionOfHomeTown      string  `gorm:"type:varchar(100);not null" json:"region_of_home_town"`
	LastSchoolAttended    *string `gorm:"type:varchar(200)"          json:"last_school_attended"`
	LocationOfLastSchool  *string `gorm:"type:varchar(200)"          json:"location_of_last_school"`
	ClassBeforeAdmission  string  `gorm:"type:varchar(50);not null"  json:"class_before_admission"`
	ReligiousDenomination *string `gorm:"type:varchar(100)"          json:"religious_denomination"`
	Hobbies               *string `gorm:"type:text"                  json:"hobbies"`
	DisabilityOrAllergy   *string `gorm:"type:text"                  json:"disability_or_allergy"`

	// parents / guardians
	FatherName       *string `gorm:"type:varchar(100)"          json:"father_name"`
	MotherName       *string `gorm:"type:varchar(100)"          json:"mother_name"`
	FatherOccupation *string `gorm:"type:varchar(100)"          json:"father_occupation"`
	MotherOccupation *string `gorm:"type:varchar(100)"          json:"mother_occupation"`
	FatherContact    *string `gorm:"type:varchar(20)"           json:"father_contact"`
	MotherContact    *string `gorm:"type:varchar(20)"           json:"mother_contact"`
	FatherEmail      *string `gorm:"type:varchar(254)"          json:"father_email"`
	MotherEmail      *string `gorm:"type:varchar(254)"          json:"mother_email"`
	PostalAddress    string  `gorm:"type:text;not null"         json:"postal_address"`
	PlaceOfResidence string  `gorm:"type:varchar(200);not null" json:"place_of_residence"`
	HouseNumber      *string `gorm:"type:varchar(50)"           json:"house_number"`

	// workflow
	Status          string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"` // pending | reviewed | accepted | rejected
	ApplicationDate time.Time  `gorm:"not null;<-:create"                          json:"application_date"`
	ReviewedDate    *time.Time `json:"reviewed_date"`
	ReviewedByID    *uint      `gorm:"column:reviewed_by_id" json:"reviewed_by"`
	Notes           *string    `gorm:"type:text"             json:"notes"`
	BaseModel

	ReviewedBy *User `gorm:"foreignKey:ReviewedByID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName table name
func (Application) TableName() string { return "admission_applications" }

// FullName surname, first name and other names joined by spaces
func (a *Application) FullName() string {
	names := []string{a.Surname, a.FirstName}
	if a.OtherNames != nil && *a.OtherNames != "" {
		names = append(names, *a.OtherNames)
	}
	return strings.Join(names, " ")
}

func (a *Application) IsPending() bool  { return a.Status == ApplicationPending }
func (a *Application) IsAccepted() bool { return a.Status == ApplicationAccepted }
func (a *Application) IsRejected() bool { return a.Status == ApplicationRejected }

// DeriveAge fills Age from DateOfBirth when it was left empty
func (a *Application) DeriveAge(today time.Time) {
	if a.Age == 0 && !a.DateOfBirth.IsZero() {
		a.Age = a.DateOfBirth.YearsOn(today)
	}
}

// ── transitions ──

// Review moves the application to status and stamps the reviewer.
// Every call re-stamps, including repeats of the current status.
func (a *Application) Review(status string, actorID uint, now time.Time) {
	a.Status = status
	a.ReviewedDate = &now
	a.ReviewedByID = &actorID
}

// Approve accepted + reviewer stamp
func (a *Application) Approve(actorID uint, now time.Time) {
	a.Review(ApplicationAccepted, actorID, now)
}

// Reject rejected + reviewer stamp
func (a *Application) Reject(actorID uint, now time.Time) {
	a.Review(ApplicationRejected, actorID, now)
}

// MarkReviewed reviewed + reviewer stamp
func (a *Application) MarkReviewed(actorID uint, now time.Time) {
	a.Review(ApplicationReviewed, actorID, now)
}

// IsApplicationStatus reports whether s is a known application status
func IsApplicationStatus(s string) bool {
	for _, st := range ApplicationStatuses {
		if s == st {
			return true
		}
	}
	return false
}
