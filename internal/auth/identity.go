package auth

import "github.com/dukerupert/chorekeeper/internal/model"

// Identity is the credential and role capability the API depends on.
// Implementations return apperror.ErrNotFound when the account or role
// association a mutation targets does not exist.
type Identity interface {
	// VerifyCredentials returns the account for email when password
	// matches, or nil when it does not.
	VerifyCredentials(email, password string) (*model.IdentityAccount, error)
	GetAccount(id int64) (*model.IdentityAccount, error)
	ListRolesFor(identityID int64) ([]string, error)
	AddRole(identityID int64, role string) error
	RemoveRole(identityID int64, role string) error
}
