package models

import "time"

// Role is a user's standing within their family
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Family is the sharing boundary; every financial record belongs to one
type Family struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks the fields required to persist a family
func (f Family) Validate() error {
	return firstError(
		required("id", f.ID),
		required("name", f.Name),
		required("invite_code", f.InviteCode),
		required("currency", f.Currency),
	)
}

// User is a member of exactly one family
type User struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the fields required to persist a user
func (u User) Validate() error {
	if err := firstError(required("id", u.ID), required("family_id", u.FamilyID), required("name", u.Name)); err != nil {
		return err
	}
	if u.Role != RoleAdmin && u.Role != RoleMember {
		return ValidationError{Field: "role", Message: "role must be admin or member"}
	}
	return nil
}

// IsAdmin reports whether the user sees every family record
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
