// Package users implements account registration and login. Identity is the
// email address; it is the owner string every tree operation receives.
package users

import "time"

type User struct {
	Email     string
	Name      string
	Thumbnail string
	Created   time.Time
	LastLogin time.Time
}

// Credential is the stored password record of a locally registered user.
// Accounts provisioned through an identity provider have no credential.
type Credential struct {
	Email        string
	PasswordHash []byte
}
