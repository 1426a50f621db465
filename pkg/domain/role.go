package domain

// Permission is a named capability.
type Permission struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
}

// Role groups permissions.
type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`
}

// PermissionRef references a permission by ID in role payloads.
type PermissionRef struct {
	ID int64 `json:"id"`
}

// RoleInput is the create/update payload for a role. The backend ignores Name on update.
type RoleInput struct {
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description"`
	Permissions []PermissionRef `json:"permissions"`
}

// ProtectedRole reports whether the backend refuses to delete the role.
func ProtectedRole(name string) bool {
	for _, r := range StaffRoles {
		if r == name {
			return true
		}
	}
	return false
}
