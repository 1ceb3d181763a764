// Package access holds the static (resource, operation) → capability table
// consulted by the HTTP layer before any handler runs.
package access

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	ErrForbidden       = errors.New("you do not have permission to perform this action")
)

// Capability minimum caller level an operation requires
type Capability int

const (
	Public Capability = iota
	Authenticated
	Staff
)

func (c Capability) String() string {
	switch c {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case Staff:
		return "staff"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

// Resource protected record kind
type Resource string

const (
	Application Resource = "application"
	Message     Resource = "message"
	User        Resource = "user"
	Profile     Resource = "profile"
	Auth        Resource = "auth"
)

// Operation action on a resource
type Operation string

const (
	Create         Operation = "create"
	List           Operation = "list"
	Retrieve       Operation = "retrieve"
	Update         Operation = "update"
	Delete         Operation = "delete"
	Statistics     Operation = "statistics"
	Export         Operation = "export"
	Bulk           Operation = "bulk"
	Pending        Operation = "pending"
	Approve        Operation = "approve"
	Reject         Operation = "reject"
	New            Operation = "new"
	MarkAsRead     Operation = "mark_as_read"
	MarkAsReplied  Operation = "mark_as_replied"
	Archive        Operation = "archive"
	Me             Operation = "me"
	UpdateMe       Operation = "update_me"
	ChangePassword Operation = "change_password"
	Login          Operation = "login"
	Logout         Operation = "logout"
)

type rule struct {
	resource  Resource
	operation Operation
}

// policy every routed operation must have an entry; unknown pairs are denied
var policy = map[rule]Capability{
	// admissions
	{Application, Create}:     Public,
	{Application, List}:       Public, // narrowed for non-staff by the service
	{Application, Retrieve}:   Staff,
	{Application, Update}:     Staff,
	{Application, Delete}:     Staff,
	{Application, Statistics}: Staff,
	{Application, Pending}:    Staff,
	{Application, Approve}:    Staff,
	{Application, Reject}:     Staff,
	{Application, Export}:     Staff,
	{Application, Bulk}:       Staff,

	// contact
	{Message, Create}:        Public,
	{Message, List}:          Staff,
	{Message, Retrieve}:      Staff,
	{Message, Update}:        Staff,
	{Message, Delete}:        Staff,
	{Message, Statistics}:    Staff,
	{Message, New}:           Staff,
	{Message, MarkAsRead}:    Staff,
	{Message, MarkAsReplied}: Staff,
	{Message, Archive}:       Staff,
	{Message, Export}:        Staff,
	{Message, Bulk}:          Staff,

	// identities
	{User, Create}:         Staff,
	{User, List}:           Staff,
	{User, Delete}:         Staff,
	{User, Statistics}:     Staff,
	{User, Retrieve}:       Authenticated, // self unless staff
	{User, Update}:         Authenticated, // self unless staff
	{User, Me}:             Authenticated,
	{User, UpdateMe}:       Authenticated,
	{User, ChangePassword}: Authenticated,

	{Profile, List}:     Staff,
	{Profile, Retrieve}: Staff,
	{Profile, Update}:   Staff,
	{Profile, Delete}:   Staff,

	{Auth, Login}:  Public,
	{Auth, Logout}: Authenticated,
}

// Caller identity presented with a request; the zero value is anonymous
type Caller struct {
	UserID      uint
	Username    string
	IsStaff     bool
	IsSuperuser bool
}

// Anonymous the unauthenticated caller
var Anonymous = Caller{}

// IsAuthenticated reports whether an identity was presented
func (c Caller) IsAuthenticated() bool {
	return c.UserID != 0
}

// HasStaffAccess staff flag or superuser
func (c Caller) HasStaffAccess() bool {
	return c.IsAuthenticated() && (c.IsStaff || c.IsSuperuser)
}

// Level the highest capability the caller holds
func (c Caller) Level() Capability {
	switch {
	case c.HasStaffAccess():
		return Staff
	case c.IsAuthenticated():
		return Authenticated
	default:
		return Public
	}
}

// Required looks up the capability for (resource, operation)
func Required(res Resource, op Operation) (Capability, bool) {
	c, ok := policy[rule{res, op}]
	return c, ok
}

// Check decides whether caller may run op on res.
// Anonymous callers short of the requirement get ErrUnauthenticated,
// identified ones get ErrForbidden. Pairs missing from the table are forbidden.
func Check(caller Caller, res Resource, op Operation) error {
	required, ok := Required(res, op)
	if !ok {
		return fmt.Errorf("%w: no rule for %s.%s", ErrForbidden, res, op)
	}
	if caller.Level() >= required {
		return nil
	}
	if !caller.IsAuthenticated() {
		return ErrUnauthenticated
	}
	return ErrForbidden
}

// CanAccessUser self-or-staff check for identity records
func CanAccessUser(caller Caller, userID uint) bool {
	return caller.HasStaffAccess() || (caller.IsAuthenticated() && caller.UserID == userID)
}
