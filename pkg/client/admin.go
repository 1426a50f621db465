package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/naveenspark/shelfdesk/pkg/domain"
)

// --- Users ---

// ListUsers returns the short user listing.
func (c *Client) ListUsers(ctx context.Context) ([]domain.UserShort, error) {
	var users []domain.UserShort
	if err := c.get(ctx, "/api/users/short", &users); err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}
	return users, nil
}

// GetUser fetches a person and its account.
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.Person, error) {
	var p domain.Person
	if err := c.get(ctx, idPath("/api/users", id), &p); err != nil {
		return nil, fmt.Errorf("client.GetUser: %w", err)
	}
	return &p, nil
}

// CreateUser creates a person with an account.
func (c *Client) CreateUser(ctx context.Context, in domain.PersonInput) (*domain.Person, error) {
	var p domain.Person
	if err := c.post(ctx, "/api/users", in, &p); err != nil {
		return nil, fmt.Errorf("client.CreateUser: %w", err)
	}
	return &p, nil
}

// UpdateUser replaces a person and its account.
func (c *Client) UpdateUser(ctx context.Context, id int64, in domain.PersonInput) (*domain.Person, error) {
	var p domain.Person
	if err := c.put(ctx, idPath("/api/users", id), in, &p); err != nil {
		return nil, fmt.Errorf("client.UpdateUser: %w", err)
	}
	return &p, nil
}

// DeleteUser deletes a person and its account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	if err := c.delete(ctx, idPath("/api/users", id)); err != nil {
		return fmt.Errorf("client.DeleteUser: %w", err)
	}
	return nil
}

// ListPersons returns every person record.
func (c *Client) ListPersons(ctx context.Context) ([]domain.Person, error) {
	var persons []domain.Person
	if err := c.get(ctx, "/api/persons", &persons); err != nil {
		return nil, fmt.Errorf("client.ListPersons: %w", err)
	}
	return persons, nil
}

// --- Roles ---

// ListRoles returns all roles except the administrator role.
func (c *Client) ListRoles(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	if err := c.get(ctx, "/api/roles", &roles); err != nil {
		return nil, fmt.Errorf("client.ListRoles: %w", err)
	}
	return roles, nil
}

// GetRole fetches a single role.
func (c *Client) GetRole(ctx context.Context, id int64) (*domain.Role, error) {
	var r domain.Role
	if err := c.get(ctx, idPath("/api/roles", id), &r); err != nil {
		return nil, fmt.Errorf("client.GetRole: %w", err)
	}
	return &r, nil
}

// CreateRole creates a role.
func (c *Client) CreateRole(ctx context.Context, in domain.RoleInput) (*domain.Role, error) {
	if in.Name == "" {
		return nil, validationError("role name is required")
	}
	var r domain.Role
	if err := c.post(ctx, "/api/roles", in, &r); err != nil {
		return nil, fmt.Errorf("client.CreateRole: %w", err)
	}
	return &r, nil
}

// UpdateRole changes a role's description and permissions.
func (c *Client) UpdateRole(ctx context.Context, id int64, in domain.RoleInput) (*domain.Role, error) {
	in.Name = ""
	var r domain.Role
	if err := c.put(ctx, idPath("/api/roles", id), in, &r); err != nil {
		return nil, fmt.Errorf("client.UpdateRole: %w", err)
	}
	return &r, nil
}

// DeleteRole deletes a role. The backend refuses protected roles.
func (c *Client) DeleteRole(ctx context.Context, id int64) error {
	if err := c.delete(ctx, idPath("/api/roles", id)); err != nil {
		return fmt.Errorf("client.DeleteRole: %w", err)
	}
	return nil
}

// AssignPermission grants a permission to a role.
func (c *Client) AssignPermission(ctx context.Context, roleID int64, permission string) (*domain.Role, error) {
	var r domain.Role
	if err := c.post(ctx, idPath("/api/roles", roleID)+"/permissions/"+url.PathEscape(permission), nil, &r); err != nil {
		return nil, fmt.Errorf("client.AssignPermission: %w", err)
	}
	return &r, nil
}

// RevokePermission removes a permission from a role.
func (c *Client) RevokePermission(ctx context.Context, roleID int64, permission string) (*domain.Role, error) {
	var r domain.Role
	path := idPath("/api/roles", roleID) + "/permissions/" + url.PathEscape(permission)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, &r); err != nil {
		return nil, fmt.Errorf("client.RevokePermission: %w", err)
	}
	return &r, nil
}

// --- Permissions ---

// ListPermissions returns every known permission.
func (c *Client) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	var perms []domain.Permission
	if err := c.get(ctx, "/api/permissions", &perms); err != nil {
		return nil, fmt.Errorf("client.ListPermissions: %w", err)
	}
	return perms, nil
}

// GetPermission fetches a permission by ID.
func (c *Client) GetPermission(ctx context.Context, id int64) (*domain.Permission, error) {
	var p domain.Permission
	if err := c.get(ctx, idPath("/api/permissions", id), &p); err != nil {
		return nil, fmt.Errorf("client.GetPermission: %w", err)
	}
	return &p, nil
}

// GetPermissionByName fetches a permission by name.
func (c *Client) GetPermissionByName(ctx context.Context, name string) (*domain.Permission, error) {
	var p domain.Permission
	if err := c.get(ctx, "/api/permissions/name/"+url.PathEscape(name), &p); err != nil {
		return nil, fmt.Errorf("client.GetPermissionByName: %w", err)
	}
	return &p, nil
}
