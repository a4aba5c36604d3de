package entity

// Role ranks are strictly nested: everything a user may do, a manager may do;
// everything a manager may do, an admin may do.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// User is the authenticated actor. The password never appears here; the
// credential table lives with the session store and is stripped at login.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"createdAt"`
}

var rolePermissions = map[Role][]string{
	RoleAdmin: {
		"view_leads",
		"create_leads",
		"edit_leads",
		"delete_leads",
		"view_interactions",
		"create_interactions",
		"delete_interactions",
		"view_settings",
		"edit_settings",
		"manage_users",
		"view_reports",
	},
	RoleManager: {
		"view_leads",
		"create_leads",
		"edit_leads",
		"delete_leads",
		"view_interactions",
		"create_interactions",
		"delete_interactions",
		"view_reports",
	},
	RoleUser: {
		"view_leads",
		"create_leads",
		"edit_leads",
		"view_interactions",
		"create_interactions",
	},
}

// Permissions returns a copy of the fixed allow-list for the role. Unknown
// roles get nothing.
func (r Role) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// Can reports whether the role's allow-list contains the permission.
func (r Role) Can(permission string) bool {
	for _, p := range rolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}
