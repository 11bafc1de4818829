package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims is the typed JWT accepted from clients. Tokens are minted
// by the hosted auth provider, so only the verify path lives here.
type AccessTokenClaims struct {
	UserID *uuid.UUID `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// ResolveUserID returns the caller identity from the user_id claim, falling
// back to the registered subject.
func (c *AccessTokenClaims) ResolveUserID() (uuid.UUID, bool) {
	if c == nil {
		return uuid.Nil, false
	}
	if c.UserID != nil && *c.UserID != uuid.Nil {
		return *c.UserID, true
	}
	if c.Subject != "" {
		if id, err := uuid.Parse(c.Subject); err == nil && id != uuid.Nil {
			return id, true
		}
	}
	return uuid.Nil, false
}
