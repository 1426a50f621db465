package domain

import "strings"

// Built-in backend roles.
const (
	RoleAdministrator = "ADMINISTRADOR"
	RoleTeacher       = "DOCENTE"
	RoleStudent       = "ESTUDIANTE"
	RoleGuardian      = "APODERADO"
)

// StaffRoles are the roles allowed on every authenticated screen.
var StaffRoles = []string{RoleAdministrator, RoleTeacher, RoleStudent, RoleGuardian}

// Account is the login record nested under a Person.
type Account struct {
	ID          int64    `json:"id,omitempty"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// Person is an authenticated principal and its profile.
type Person struct {
	ID             int64    `json:"id"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	DocumentType   string   `json:"documentType,omitempty"`
	DocumentNumber string   `json:"documentNumber,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Address        string   `json:"address,omitempty"`
	User           *Account `json:"user,omitempty"`
}

// FullName joins first and last name, skipping empty parts.
func (p Person) FullName() string {
	return strings.TrimSpace(strings.Join([]string{p.FirstName, p.LastName}, " "))
}

// AuthResponse is the body returned by POST /api/auth/login.
type AuthResponse struct {
	Token     string  `json:"token"`
	TokenType string  `json:"tokenType"`
	Person    *Person `json:"person"`
}

// PersonInput creates or updates a person together with its account.
type PersonInput struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	DocumentType   string `json:"documentType,omitempty"`
	DocumentNumber string `json:"documentNumber,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password,omitempty"`
	RoleID         int64  `json:"roleId"`
}

// UserShort is the compact user listing from GET /api/users/short.
type UserShort struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}
