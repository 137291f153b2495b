package entities

import (
	"time"
)

// Category is read-only reference data for marketplace listings
type Category struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Icon      *string   `json:"icon" db:"icon"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserProfile represents a user's public profile
type UserProfile struct {
	ID          string    `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	FullName    string    `json:"full_name" db:"full_name"`
	CollegeName string    `json:"college_name" db:"college_name"`
	Phone       *string   `json:"phone" db:"phone"`
	AvatarURL   *string   `json:"avatar_url" db:"avatar_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Summary returns the fields joined onto listings
func (p *UserProfile) Summary() *OwnerSummary {
	if p == nil {
		return nil
	}
	return &OwnerSummary{FullName: p.FullName, CollegeName: p.CollegeName}
}

// AuthUser is the identity carried by a verified access token
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Session is the signed-in state handed explicitly to controllers. The
// zero value and a nil *Session both mean "signed out".
type Session struct {
	User    *AuthUser    `json:"user"`
	Profile *UserProfile `json:"profile"`
}

// SignedIn reports whether the session carries a user
func (s *Session) SignedIn() bool {
	return s != nil && s.User != nil && s.User.ID != ""
}

// UserID returns the signed-in user's id, or "" when signed out
func (s *Session) UserID() string {
	if !s.SignedIn() {
		return ""
	}
	return s.User.ID
}
