package auth

import "time"

// SessionPayload carries the minimal identity claims embedded in a session
// token. It never contains the password hash or any other secret.
type SessionPayload struct {
	UserID   string
	Email    string
	Name     string
	IssuedAt time.Time
}

// BuildSessionPayload strips a user down to session claims, stamping the
// issue time from the service clock. Pure transformation, no I/O.
func (s *TokenService) BuildSessionPayload(user User) SessionPayload {
	return SessionPayload{
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		IssuedAt: s.now().UTC().Truncate(time.Second),
	}
}
