// internal/pkg/session/types.go
package session

import "time"

// Data is a portal session: a BFF-side id mapped to the upstream bearer token.
type Data struct {
	ID             string    `json:"id"`
	Token          string    `json:"token"`
	Subject        string    `json:"subject,omitempty"`
	Email          string    `json:"email,omitempty"`
	IPAddress      string    `json:"ip_address,omitempty"`
	UserAgent      string    `json:"user_agent,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Info is the client-facing view of a session. It never carries the token.
type Info struct {
	ID        string    `json:"session_id"`
	Subject   string    `json:"subject,omitempty"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (d *Data) Info() Info {
	return Info{ID: d.ID, Subject: d.Subject, Email: d.Email, ExpiresAt: d.ExpiresAt}
}
