package domain

import "time"

// Role enumerates who an actor is to the service desk.
type Role string

const (
	RoleUser      Role = "USER"
	RoleStaff     Role = "STAFF"
	RoleAdmin     Role = "ADMIN"
	RoleExecutive Role = "EXECUTIVE"
)

// Department is the organizational unit a staff actor belongs to.
type Department string

const (
	DepartmentAcademic   Department = "ACADEMIC"
	DepartmentLaboratory Department = "LABORATORY"
	DepartmentNetwork    Department = "NETWORK"
	DepartmentFacility   Department = "FACILITY"
	DepartmentGeneral    Department = "GENERAL"
)

// Departments lists the valid department tags.
var Departments = []Department{
	DepartmentAcademic,
	DepartmentLaboratory,
	DepartmentNetwork,
	DepartmentFacility,
	DepartmentGeneral,
}

// Actor is any authenticated identity interacting with the ticket engine.
// Role and Department are immutable for the lifetime of a session; the
// core reads them and never writes them.
type Actor struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   *Department
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsDeskSide reports whether the actor works the desk rather than submits to it.
func (a *Actor) IsDeskSide() bool {
	if a == nil {
		return false
	}
	switch a.Role {
	case RoleStaff, RoleAdmin, RoleExecutive:
		return true
	}
	return false
}

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleStaff, RoleAdmin, RoleExecutive:
		return true
	}
	return false
}

// ValidDepartment reports whether d is a known department tag.
func ValidDepartment(d Department) bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}
