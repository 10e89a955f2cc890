package role

// Role is the closed set of account roles. Every permission check in the
// API reduces to one of the predicates below; handlers never compare raw
// strings.
type Role string

const (
	Admin    Role = "Admin"
	Manager  Role = "Manager"
	Customer Role = "Customer"
)

var rank = map[Role]int{
	Customer: 1,
	Manager:  2,
	Admin:    3,
}

func Parse(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

func (r Role) Valid() bool {
	_, ok := rank[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

// Staff reports whether the role is Manager or Admin.
func (r Role) Staff() bool {
	return r == Manager || r == Admin
}

// AtLeast reports whether the role ranks at or above min, so
// Admin.AtLeast(Manager) holds while Customer.AtLeast(Manager) does not.
func (r Role) AtLeast(min Role) bool {
	return rank[r] >= rank[min]
}

// In reports whether the role belongs to the allow-list.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// StaffRoles are the roles an Admin may provision through /users/staff.
func StaffRoles() []Role {
	return []Role{Admin, Manager}
}
