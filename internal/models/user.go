package models

import "time"

// User roles. Admins can act on moderation reports.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is a registered member of the platform.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	// VerifiedAnswerer marks members vetted to answer apologetics questions.
	// The feed scorer boosts their content.
	VerifiedAnswerer bool      `json:"verified_answerer"`
	PreferredTags    []string  `json:"preferred_tags"`
	InterestTags     []string  `json:"interest_tags"`
	CreatedAt        time.Time `json:"created_at"`
}

// UserProfile is the read-only slice of a user the recommendation
// pipeline works with. Tags are derived externally from like history.
type UserProfile struct {
	ID            string   `json:"id"`
	PreferredTags []string `json:"preferred_tags"`
	InterestTags  []string `json:"interest_tags"`
}

// Profile returns the recommendation view of the user.
func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:            u.ID,
		PreferredTags: u.PreferredTags,
		InterestTags:  u.InterestTags,
	}
}

// Tags returns preferred and interest tags merged, preferred first.
func (p *UserProfile) Tags() []string {
	out := make([]string, 0, len(p.PreferredTags)+len(p.InterestTags))
	out = append(out, p.PreferredTags...)
	out = append(out, p.InterestTags...)
	return out
}
