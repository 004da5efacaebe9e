// Package models defines the records shared by services and repositories.
package models

import "time"

// User is a registered account. It is immutable once created.
// PasswordIterations is the PBKDF2 work factor the digest was derived with;
// zero means the hasher default.
type User struct {
	ID                 string
	UserName           string
	Email              string
	PasswordDigest     []byte
	PasswordSalt       []byte
	PasswordIterations int
	CreatedAt          time.Time
}

// Public returns the view of u that is safe to hand to clients.
func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, UserName: u.UserName, Email: u.Email}
}

// PublicUser never carries password material.
type PublicUser struct {
	ID       string `json:"id"`
	UserName string `json:"username"`
	Email    string `json:"email"`
}
