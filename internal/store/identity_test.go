package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/dukerupert/chorekeeper/internal/apperror"
	"github.com/dukerupert/chorekeeper/internal/model"
)

func TestRegisterCreatesAccountAndProfile(t *testing.T) {
	ts := setupTestDB(t)

	account, profile := ts.register(t, "alice")
	if account.ID == 0 {
		t.Error("expected non-zero account ID")
	}
	if account.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", account.Email, "alice@example.com")
	}
	if account.PasswordHash == "hunter22" {
		t.Error("password stored in plain text")
	}
	if profile.IdentityUserID != account.ID {
		t.Errorf("profile identity = %d, want %d", profile.IdentityUserID, account.ID)
	}

	got, err := ts.profiles.GetByIdentityID(account.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got == nil || got.ID != profile.ID {
		t.Fatalf("profile lookup = %+v, want id %d", got, profile.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := setupTestDB(t)
	ts.register(t, "alice")

	_, _, err := ts.identity.Register(Registration{
		UserName: "alice2", Email: "ALICE@example.com", Password: "hunter22",
		FirstName: "A", LastName: "B", Address: "C",
	})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestRegisterDuplicateUserName(t *testing.T) {
	ts := setupTestDB(t)
	ts.register(t, "alice")

	_, _, err := ts.identity.Register(Registration{
		UserName: "alice", Email: "other@example.com", Password: "hunter22",
		FirstName: "A", LastName: "B", Address: "C",
	})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestRegisterPasswordOverBcryptLimit(t *testing.T) {
	ts := setupTestDB(t)

	// 60 runes, 120 bytes.
	_, _, err := ts.identity.Register(Registration{
		UserName: "alice", Email: "alice@example.com", Password: strings.Repeat("é", 60),
		FirstName: "A", LastName: "B", Address: "C",
	})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	ts := setupTestDB(t)
	ts.register(t, "alice")

	_, err := ts.db.Exec(
		`INSERT INTO identity_users (user_name, email, password_hash) VALUES (?, ?, ?)`,
		"alice2", "ALICE@example.com", "x",
	)
	if err == nil {
		t.Fatal("expected duplicate email insert to fail")
	}
	if !isUniqueViolation(err) {
		t.Errorf("isUniqueViolation(%v) = false, want true", err)
	}

	_, err = ts.db.Exec(
		`INSERT INTO chores (name, difficulty, recurrence_days) VALUES (?, ?, ?)`,
		"Too hard", 9, 1,
	)
	if err == nil {
		t.Fatal("expected check constraint failure")
	}
	if isUniqueViolation(err) {
		t.Errorf("isUniqueViolation(%v) = true, want false", err)
	}

	if isUniqueViolation(nil) {
		t.Error("isUniqueViolation(nil) = true, want false")
	}
}

func TestVerifyCredentials(t *testing.T) {
	ts := setupTestDB(t)
	account, _ := ts.register(t, "alice")

	got, err := ts.identity.VerifyCredentials("alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got == nil || got.ID != account.ID {
		t.Fatalf("verify = %+v, want account %d", got, account.ID)
	}

	got, err = ts.identity.VerifyCredentials("alice@example.com", "wrong")
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if got != nil {
		t.Error("expected nil for wrong password")
	}

	got, err = ts.identity.VerifyCredentials("nobody@example.com", "hunter22")
	if err != nil {
		t.Fatalf("verify unknown email: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestGetAccountNotFound(t *testing.T) {
	ts := setupTestDB(t)

	a, err := ts.identity.GetAccount(999)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if a != nil {
		t.Error("expected nil for nonexistent account")
	}
}

func TestPromoteThenDemote(t *testing.T) {
	ts := setupTestDB(t)
	account, _ := ts.register(t, "bob")

	if err := ts.identity.AddRole(account.ID, model.RoleAdmin); err != nil {
		t.Fatalf("add role: %v", err)
	}
	roles, err := ts.identity.ListRolesFor(account.ID)
	if err != nil {
		t.Fatalf("list roles: %v", err)
	}
	if len(roles) != 1 || roles[0] != model.RoleAdmin {
		t.Fatalf("roles = %v, want [Admin]", roles)
	}

	// Granting twice leaves a single association.
	if err := ts.identity.AddRole(account.ID, model.RoleAdmin); err != nil {
		t.Fatalf("add role again: %v", err)
	}

	if err := ts.identity.RemoveRole(account.ID, model.RoleAdmin); err != nil {
		t.Fatalf("remove role: %v", err)
	}
	roles, err = ts.identity.ListRolesFor(account.ID)
	if err != nil {
		t.Fatalf("list roles: %v", err)
	}
	if len(roles) != 0 {
		t.Errorf("roles = %v, want none", roles)
	}
}

func TestDemoteWithoutRole(t *testing.T) {
	ts := setupTestDB(t)
	account, _ := ts.register(t, "bob")

	err := ts.identity.RemoveRole(account.ID, model.RoleAdmin)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	err = ts.identity.RemoveRole(9999, model.RoleAdmin)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("err for unknown user = %v, want ErrNotFound", err)
	}
}

func TestPromoteUnknownUser(t *testing.T) {
	ts := setupTestDB(t)

	err := ts.identity.AddRole(9999, model.RoleAdmin)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPromoteMissingAdminRole(t *testing.T) {
	ts := setupTestDB(t)
	account, _ := ts.register(t, "bob")

	if _, err := ts.db.Exec(`DELETE FROM roles WHERE name = ?`, model.RoleAdmin); err != nil {
		t.Fatalf("delete role: %v", err)
	}

	err := ts.identity.AddRole(account.ID, model.RoleAdmin)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
