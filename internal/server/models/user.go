package models

import "time"

// Provider discriminates where a user's credential comes from. A user record
// carries exactly one provider tag at any time; accounts are never merged
// across providers.
type Provider string

const (
	// ProviderLocal marks accounts created through email/password signup.
	ProviderLocal Provider = "local"
	// ProviderExternal marks accounts created through an external identity
	// assertion (Google sign-in in the shipped product).
	ProviderExternal Provider = "external"
)

type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"` // normalized: trimmed, lowercase
	PasswordHash  string     `json:"-"`     // set only for ProviderLocal
	Provider      Provider   `json:"provider"`
	ExternalID    string     `json:"-"` // subject id from the external provider
	EmailVerified *time.Time `json:"emailVerified,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
