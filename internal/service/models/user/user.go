package user

import (
	"strings"
	"time"

	"github.com/corray333/backend-labs/meatshop/pkg/validate"
	"github.com/google/uuid"
)

// Role grants access to admin-only operations.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a registered customer or administrator.
type User struct {
	ID           uuid.UUID `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Registration is the input for creating an account.
type Registration struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"    validate:"required,len=10,numeric"`
	Address  string `json:"address"  validate:"max=500"`
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name    *string `json:"name"    validate:"omitnil,min=1,max=100"`
	Phone   *string `json:"phone"   validate:"omitnil,len=10,numeric"`
	Address *string `json:"address" validate:"omitnil,max=500"`
}

var messages = validate.Messages{
	"name.required":     "Name is required",
	"name.max":          "Name cannot exceed 100 characters",
	"name.min":          "Name is required",
	"email.required":    "Email is required",
	"email.email":       "Please enter a valid email",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters",
	"phone.required":    "Phone number is required",
	"phone.len":         "Please enter a valid 10-digit phone number",
	"phone.numeric":     "Please enter a valid 10-digit phone number",
	"address.max":       "Address cannot exceed 500 characters",
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize trims the registration fields and lower-cases the email.
func (r *Registration) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
}

// Validate checks the registration against the account rules.
func (r *Registration) Validate() error {
	return validate.Struct(r, messages)
}

// Normalize trims the provided fields.
func (p *ProfileUpdate) Normalize() {
	for _, f := range []*string{p.Name, p.Phone, p.Address} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

// Validate checks the provided fields against the account rules.
func (p *ProfileUpdate) Validate() error {
	return validate.Struct(p, messages)
}

// Apply copies the provided fields onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
}
