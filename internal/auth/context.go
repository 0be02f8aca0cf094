package auth

import (
	"context"

	"github.com/dukerupert/chorekeeper/internal/model"
)

type contextKey struct{}

// AuthContext describes the caller of an authenticated request.
type AuthContext struct {
	IdentityID int64
	ProfileID  int64
	UserName   string
	Roles      []string
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func IdentityID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.IdentityID
}

func ProfileID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.ProfileID
}

func (ac AuthContext) HasRole(name string) bool {
	for _, r := range ac.Roles {
		if r == name {
			return true
		}
	}
	return false
}

func IsAdmin(ctx context.Context) bool {
	ac, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return ac.HasRole(model.RoleAdmin)
}
