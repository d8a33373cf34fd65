package models

import "time"

// Session is the identity context of the signed-in user. A nil *Session
// means nobody is signed in.
type Session struct {
	// Token is the opaque credential issued by the identity provider.
	Token     string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// SameIdentity reports whether a and b belong to the same user. Two absent
// sessions are the same identity.
func SameIdentity(a, b *Session) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.UserID == b.UserID
}
