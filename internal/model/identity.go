package model

import "time"

// RoleAdmin is the only role the service grants.
const RoleAdmin = "Admin"

// IdentityAccount is the credential record behind a profile. The password
// hash never leaves the identity store.
type IdentityAccount struct {
	ID           int64     `json:"id"`
	UserName     string    `json:"user_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
