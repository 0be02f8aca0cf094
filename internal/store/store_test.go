package store

import (
	"database/sql"
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/chorekeeper/internal/database"
	"github.com/dukerupert/chorekeeper/internal/model"
)

type testStores struct {
	db       *sql.DB
	identity *IdentityStore
	profiles *UserProfileStore
	chores   *ChoreStore
}

func setupTestDB(t *testing.T) testStores {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	identity := NewIdentityStore(db)
	identity.bcryptCost = bcrypt.MinCost
	chores := NewChoreStore(db)
	return testStores{
		db:       db,
		identity: identity,
		profiles: NewUserProfileStore(db, chores),
		chores:   chores,
	}
}

func (ts testStores) register(t *testing.T, name string) (*model.IdentityAccount, *model.UserProfile) {
	t.Helper()
	account, profile, err := ts.identity.Register(Registration{
		UserName:  name,
		Email:     fmt.Sprintf("%s@example.com", name),
		Password:  "hunter22",
		FirstName: name,
		LastName:  "Tester",
		Address:   "1 Test Lane",
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return account, profile
}

func (ts testStores) chore(t *testing.T, name string) *model.Chore {
	t.Helper()
	c, err := ts.chores.Create(name, 2, 7)
	if err != nil {
		t.Fatalf("create chore %s: %v", name, err)
	}
	return c
}
