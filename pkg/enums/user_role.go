package enums

import "fmt"

// UserRole represents a platform-wide permissions role.
type UserRole string

const (
	UserRoleGuest   UserRole = "GUEST"
	UserRoleMember  UserRole = "MEMBER"
	UserRoleStaff   UserRole = "STAFF"
	UserRoleManager UserRole = "MANAGER"
	UserRoleAdmin   UserRole = "ADMIN"
)

var orderedUserRoles = []UserRole{
	UserRoleGuest,
	UserRoleMember,
	UserRoleStaff,
	UserRoleManager,
	UserRoleAdmin,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	return r.rank() >= 0
}

// AtLeast reports whether the role sits at or above the required role in the
// GUEST < MEMBER < STAFF < MANAGER < ADMIN hierarchy. Unknown roles never
// satisfy any requirement.
func (r UserRole) AtLeast(required UserRole) bool {
	rr, qr := r.rank(), required.rank()
	if rr < 0 || qr < 0 {
		return false
	}
	return rr >= qr
}

func (r UserRole) rank() int {
	for i, candidate := range orderedUserRoles {
		if candidate == r {
			return i
		}
	}
	return -1
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range orderedUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
