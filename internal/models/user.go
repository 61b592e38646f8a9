package models

// User is the single local profile. StreakCount and CompletionRate are
// derived from the habit collection and never edited directly.
type User struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Avatar         string `json:"avatar"`
	JoinedDate     string `json:"joinedDate"` // RFC3339 timestamp
	StreakCount    int    `json:"streakCount"`
	CompletionRate int    `json:"completionRate"`
}

// UserPatch carries the identity fields to merge into a profile.
// Nil fields are left unchanged.
type UserPatch struct {
	Name   *string
	Email  *string
	Avatar *string
}

// Apply shallow-merges p into u.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	return u
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Avatar == nil
}
