package model

import (
	"time"
)

const (
	TokenTypePasswordReset = "password_reset"
)

// Token is a single-use credential. Only the SHA-256 digest of the value
// handed to the user is stored, so a database leak does not leak usable
// tokens.
type Token struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Type      string     `db:"type"`
	Digest    string     `db:"digest"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}

func (t *Token) IsExpired() bool {
	return time.Now().UTC().After(t.ExpiresAt)
}

func (t *Token) IsUsed() bool {
	return t.UsedAt != nil
}
