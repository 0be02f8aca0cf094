package store

import (
	"testing"

	"github.com/dukerupert/chorekeeper/internal/model"
)

func TestProfileList(t *testing.T) {
	ts := setupTestDB(t)
	ts.register(t, "alice")
	ts.register(t, "bob")

	profiles, err := ts.profiles.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("len = %d, want 2", len(profiles))
	}
	if profiles[0].FirstName != "alice" || profiles[1].FirstName != "bob" {
		t.Errorf("unexpected order: %+v", profiles)
	}
}

func TestProfileGetByIDNotFound(t *testing.T) {
	ts := setupTestDB(t)

	p, err := ts.profiles.GetByID(42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p != nil {
		t.Error("expected nil for nonexistent profile")
	}
}

func TestListWithRoles(t *testing.T) {
	ts := setupTestDB(t)
	alice, _ := ts.register(t, "alice")
	ts.register(t, "bob")

	if err := ts.identity.AddRole(alice.ID, model.RoleAdmin); err != nil {
		t.Fatalf("add role: %v", err)
	}

	profiles, err := ts.profiles.ListWithRoles()
	if err != nil {
		t.Fatalf("list with roles: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("len = %d, want 2", len(profiles))
	}

	if profiles[0].Email != "alice@example.com" || profiles[0].UserName != "alice" {
		t.Errorf("alice identity fields = %q/%q", profiles[0].Email, profiles[0].UserName)
	}
	if !profiles[0].HasRole(model.RoleAdmin) {
		t.Errorf("alice roles = %v, want Admin", profiles[0].Roles)
	}
	if profiles[1].Roles == nil || len(profiles[1].Roles) != 0 {
		t.Errorf("bob roles = %v, want empty", profiles[1].Roles)
	}
}

func TestListWithRolesSkipsUnresolvedRole(t *testing.T) {
	ts := setupTestDB(t)
	alice, _ := ts.register(t, "alice")

	// Simulate an association whose role row has vanished.
	if _, err := ts.db.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		t.Fatalf("disable foreign keys: %v", err)
	}
	if _, err := ts.db.Exec(`INSERT INTO user_roles (user_id, role_id) VALUES (?, 777)`, alice.ID); err != nil {
		t.Fatalf("insert orphan association: %v", err)
	}
	if _, err := ts.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}

	profiles, err := ts.profiles.ListWithRoles()
	if err != nil {
		t.Fatalf("list with roles: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("len = %d, want 1", len(profiles))
	}
	if len(profiles[0].Roles) != 0 {
		t.Errorf("roles = %v, want none", profiles[0].Roles)
	}

	roles, err := ts.identity.ListRolesFor(alice.ID)
	if err != nil {
		t.Fatalf("list roles: %v", err)
	}
	if len(roles) != 0 {
		t.Errorf("ListRolesFor = %v, want none", roles)
	}
}

func TestGetWithRolesByIdentity(t *testing.T) {
	ts := setupTestDB(t)
	alice, profile := ts.register(t, "alice")

	got, err := ts.profiles.GetWithRolesByIdentity(alice.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ID != profile.ID {
		t.Fatalf("got %+v, want profile %d", got, profile.ID)
	}

	missing, err := ts.profiles.GetWithRolesByIdentity(9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown identity")
	}
}

func TestGetWithChores(t *testing.T) {
	ts := setupTestDB(t)
	_, profile := ts.register(t, "alice")
	trash := ts.chore(t, "Take out the trash")
	dishes := ts.chore(t, "Wash the dishes")

	if _, err := ts.chores.CreateAssignment(trash.ID, profile.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := ts.chores.CreateCompletion(dishes.ID, profile.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, err := ts.profiles.GetWithChores(profile.ID)
	if err != nil {
		t.Fatalf("get with chores: %v", err)
	}
	if len(got.ChoreAssignments) != 1 {
		t.Fatalf("assignments = %d, want 1", len(got.ChoreAssignments))
	}
	if got.ChoreAssignments[0].Chore == nil || got.ChoreAssignments[0].Chore.Name != "Take out the trash" {
		t.Errorf("assignment chore = %+v", got.ChoreAssignments[0].Chore)
	}
	if len(got.ChoreCompletions) != 1 {
		t.Fatalf("completions = %d, want 1", len(got.ChoreCompletions))
	}
	if got.ChoreCompletions[0].Chore == nil || got.ChoreCompletions[0].Chore.Name != "Wash the dishes" {
		t.Errorf("completion chore = %+v", got.ChoreCompletions[0].Chore)
	}
}

func TestGetWithChoresEmptyAndMissing(t *testing.T) {
	ts := setupTestDB(t)
	_, profile := ts.register(t, "alice")

	got, err := ts.profiles.GetWithChores(profile.ID)
	if err != nil {
		t.Fatalf("get with chores: %v", err)
	}
	if got.ChoreAssignments == nil || got.ChoreCompletions == nil {
		t.Error("expected empty, non-nil slices")
	}

	missing, err := ts.profiles.GetWithChores(9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for nonexistent profile")
	}
}
