package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the JWT claims structure supplied by the external identity
// collaborator. The core only ever reads the subject (actor id) and role.
type AccessClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	Role                 string `json:"role"` // "authenticated" or "anon"
	SessionID            string `json:"session_id"`
	IsAnonymous          bool   `json:"is_anonymous"`
}

// GetUserID returns the actor ID from the JWT subject claim.
func (c *AccessClaims) GetUserID() string {
	return c.Subject
}
