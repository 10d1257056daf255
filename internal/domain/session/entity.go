// internal/domain/session/entity.go
package session

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/your-org/grocery-storefront/internal/pkg/auth"
)

// Role represents the account role
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the signed-in user as returned by the auth endpoints
type Identity struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	DateOfBirth  string `json:"dob,omitempty"`
	Role         Role   `json:"role"`
	ProfileImage string `json:"profileImage,omitempty"`
	Token        string `json:"token,omitempty"`
}

// IsAdmin reports whether the identity has the admin role
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Clone returns a copy safe to hand to readers
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// LoginRequest is the login payload
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// SignupRequest is the full profile payload for account creation
type SignupRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	DateOfBirth string `json:"dob"`
	Role        Role   `json:"role"`
}

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Validate checks the profile before it is sent
func (r *SignupRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if !phonePattern.MatchString(r.Phone) {
		return errors.New("phone must be a 10 digit number")
	}
	if err := auth.ValidatePassword(r.Password); err != nil {
		return err
	}
	if r.Role == "" {
		r.Role = RoleUser
	}
	if r.Role != RoleUser && r.Role != RoleAdmin {
		return fmt.Errorf("unknown role %q", r.Role)
	}
	return nil
}

// Change describes a transition of the session identity
type Change struct {
	Previous *Identity
	Current  *Identity
}

// LoggedIn reports a guest becoming a user, or one user replacing another
func (c Change) LoggedIn() bool {
	if c.Current == nil {
		return false
	}
	return c.Previous == nil || c.Previous.ID != c.Current.ID
}

// LoggedOut reports a user becoming a guest
func (c Change) LoggedOut() bool {
	return c.Previous != nil && c.Current == nil
}
