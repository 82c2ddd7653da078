package auth

import (
	"fmt"
	"time"
)

// SessionObject holds the attributes of a decoded session.
type SessionObject struct {
	UserID         int64      `json:"user_id,omitempty"`
	Issuer         string     `json:"issuer,omitempty"`
	IssuedAt       *time.Time `json:"issued_at,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

func (s *SessionObject) GetUserID() int64 {
	return s.UserID
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf("user=%d iss=%s iat=%s", s.UserID, s.Issuer, issuedAt)
}

// sessionFromClaims creates a SessionObject from validated token claims.
func sessionFromClaims(claims *SessionClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrTokenMalformed
	}

	session := &SessionObject{
		UserID: claims.UserID(),
		Issuer: claims.RegisteredClaims.Issuer,
	}

	if issued := claims.Issued(); !issued.IsZero() {
		session.IssuedAt = &issued
	}
	if expires := claims.Expires(); !expires.IsZero() {
		session.ExpirationDate = &expires
	}

	return session, nil
}
