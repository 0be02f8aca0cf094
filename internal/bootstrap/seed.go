package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/chorekeeper/internal/model"
)

const (
	AdminUserName = "Administrator"
	AdminEmail    = "admina@strator.comx"
)

// SeedChores are the sample chores loaded on first start, keyed by id.
var SeedChores = []model.Chore{
	{ID: 1, Name: "Take out the trash", Difficulty: 1, RecurrenceDays: 7},
	{ID: 2, Name: "Fold the laundry", Difficulty: 2, RecurrenceDays: 7},
	{ID: 3, Name: "Clean the bathroom", Difficulty: 4, RecurrenceDays: 7},
	{ID: 4, Name: "Mow the lawn", Difficulty: 3, RecurrenceDays: 14},
	{ID: 5, Name: "Wash the dishes", Difficulty: 2, RecurrenceDays: 1},
}

var seedAssignments = []model.ChoreAssignment{
	{ID: 1, ChoreID: 1, UserProfileID: 1},
	{ID: 2, ChoreID: 3, UserProfileID: 1},
}

var seedCompletions = []model.ChoreCompletion{
	{ID: 1, ChoreID: 1, UserProfileID: 1, CompletedOn: time.Date(2023, time.June, 1, 9, 0, 0, 0, time.UTC)},
	{ID: 2, ChoreID: 2, UserProfileID: 1, CompletedOn: time.Date(2023, time.June, 3, 18, 30, 0, 0, time.UTC)},
	{ID: 3, ChoreID: 5, UserProfileID: 1, CompletedOn: time.Date(2023, time.June, 4, 20, 15, 0, 0, time.UTC)},
}

// Seed loads the administrator account and the sample household. It does
// nothing when the administrator already exists, so it is safe to call on
// every start. The Admin role itself comes from the schema migration.
func Seed(db *sql.DB, adminPassword string, logger *slog.Logger) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM identity_users WHERE user_name = ?`, AdminUserName).Scan(&count); err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if count > 0 {
		logger.Debug("seed data already present, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var adminRoleID int64
	if err := tx.QueryRow(`SELECT id FROM roles WHERE name = ?`, model.RoleAdmin).Scan(&adminRoleID); err != nil {
		return fmt.Errorf("find admin role: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO identity_users (id, user_name, email, password_hash) VALUES (1, ?, ?, ?)`,
		AdminUserName, AdminEmail, string(hash),
	); err != nil {
		return fmt.Errorf("insert admin identity: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO user_roles (user_id, role_id) VALUES (1, ?)`, adminRoleID); err != nil {
		return fmt.Errorf("grant admin role: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO user_profiles (id, first_name, last_name, address, identity_user_id) VALUES (1, ?, ?, ?, 1)`,
		"Admina", "Strator", "101 Main Street",
	); err != nil {
		return fmt.Errorf("insert admin profile: %w", err)
	}

	for _, c := range SeedChores {
		if _, err := tx.Exec(
			`INSERT INTO chores (id, name, difficulty, recurrence_days) VALUES (?, ?, ?, ?)`,
			c.ID, c.Name, c.Difficulty, c.RecurrenceDays,
		); err != nil {
			return fmt.Errorf("insert chore %d: %w", c.ID, err)
		}
	}

	for _, a := range seedAssignments {
		if _, err := tx.Exec(
			`INSERT INTO chore_assignments (id, chore_id, user_profile_id) VALUES (?, ?, ?)`,
			a.ID, a.ChoreID, a.UserProfileID,
		); err != nil {
			return fmt.Errorf("insert assignment %d: %w", a.ID, err)
		}
	}

	for _, c := range seedCompletions {
		if _, err := tx.Exec(
			`INSERT INTO chore_completions (id, chore_id, user_profile_id, completed_on) VALUES (?, ?, ?, ?)`,
			c.ID, c.ChoreID, c.UserProfileID, c.CompletedOn,
		); err != nil {
			return fmt.Errorf("insert completion %d: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	logger.Info("seeded sample household",
		"admin", AdminUserName,
		"chores", len(SeedChores),
		"assignments", len(seedAssignments),
		"completions", len(seedCompletions),
	)
	return nil
}
