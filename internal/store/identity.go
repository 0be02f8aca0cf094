package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dukerupert/chorekeeper/internal/apperror"
	"github.com/dukerupert/chorekeeper/internal/model"
)

// IdentityStore owns identity accounts, roles and the user-role
// association table. It implements auth.Identity.
type IdentityStore struct {
	db         *sql.DB
	bcryptCost int
}

func NewIdentityStore(db *sql.DB) *IdentityStore {
	return &IdentityStore{db: db, bcryptCost: bcrypt.DefaultCost}
}

func scanAccount(scanner interface{ Scan(...any) error }) (*model.IdentityAccount, error) {
	var a model.IdentityAccount
	err := scanner.Scan(&a.ID, &a.UserName, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const accountCols = `id, user_name, email, password_hash, created_at`

// Registration is everything needed to create an account and its profile.
type Registration struct {
	UserName  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Address   string
}

// Register creates an identity account and its profile in one transaction.
// Duplicate usernames or emails yield apperror.ErrConflict.
func (s *IdentityStore) Register(reg Registration) (*model.IdentityAccount, *model.UserProfile, error) {
	existing, err := s.GetByEmail(reg.Email)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, apperror.New(apperror.ErrConflict, "email already registered")
	}
	taken, err := s.userNameExists(reg.UserName)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, apperror.New(apperror.ErrConflict, "username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, nil, apperror.New(apperror.ErrInvalidInput, "password must be at most 72 bytes")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO identity_users (user_name, email, password_hash) VALUES (?, ?, ?)`,
		reg.UserName, strings.TrimSpace(reg.Email), string(hash),
	)
	if isUniqueViolation(err) {
		return nil, nil, apperror.New(apperror.ErrConflict, "email or username already registered")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("insert identity user: %w", err)
	}
	identityID, err := result.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("last insert id: %w", err)
	}

	result, err = tx.Exec(
		`INSERT INTO user_profiles (first_name, last_name, address, identity_user_id) VALUES (?, ?, ?, ?)`,
		reg.FirstName, reg.LastName, reg.Address, identityID,
	)
	if isUniqueViolation(err) {
		return nil, nil, apperror.New(apperror.ErrConflict, "account already has a profile")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("insert profile: %w", err)
	}
	profileID, err := result.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	account, err := s.GetAccount(identityID)
	if err != nil {
		return nil, nil, err
	}
	profile := &model.UserProfile{
		ID:             profileID,
		FirstName:      reg.FirstName,
		LastName:       reg.LastName,
		Address:        reg.Address,
		IdentityUserID: identityID,
	}
	return account, profile, nil
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// constraint failure, as raised when two registrations race past the
// existence checks.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func (s *IdentityStore) GetAccount(id int64) (*model.IdentityAccount, error) {
	row := s.db.QueryRow(`SELECT `+accountCols+` FROM identity_users WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get identity user: %w", err)
	}
	return a, nil
}

func (s *IdentityStore) GetByEmail(email string) (*model.IdentityAccount, error) {
	row := s.db.QueryRow(`SELECT `+accountCols+` FROM identity_users WHERE email = ?`, strings.TrimSpace(email))
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get identity user by email: %w", err)
	}
	return a, nil
}

func (s *IdentityStore) userNameExists(userName string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM identity_users WHERE user_name = ?`, userName).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return count > 0, nil
}

// VerifyCredentials returns the account when password matches its hash,
// and nil for an unknown email or a wrong password.
func (s *IdentityStore) VerifyCredentials(email, password string) (*model.IdentityAccount, error) {
	a, err := s.GetByEmail(email)
	if err != nil || a == nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, nil
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return a, nil
}

// --- Role methods ---

func (s *IdentityStore) GetRoleByName(name string) (*model.Role, error) {
	var r model.Role
	err := s.db.QueryRow(`SELECT id, name FROM roles WHERE name = ?`, name).Scan(&r.ID, &r.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &r, nil
}

// ListRolesFor returns the role names held by an identity account.
// Association rows pointing at a missing role are skipped.
func (s *IdentityStore) ListRolesFor(identityID int64) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT r.name FROM user_roles ur
		 LEFT JOIN roles r ON r.id = ur.role_id
		 WHERE ur.user_id = ?
		 ORDER BY r.name ASC`,
		identityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	roles := []string{}
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		if name.Valid {
			roles = append(roles, name.String)
		}
	}
	return roles, rows.Err()
}

// AddRole grants role to the account. Granting a role the account already
// holds is a no-op.
func (s *IdentityStore) AddRole(identityID int64, role string) error {
	r, err := s.GetRoleByName(role)
	if err != nil {
		return err
	}
	if r == nil {
		return apperror.NotFound(fmt.Sprintf("role %s not found", role))
	}

	a, err := s.GetAccount(identityID)
	if err != nil {
		return err
	}
	if a == nil {
		return apperror.NotFound("user not found")
	}

	if _, err := s.db.Exec(
		`INSERT OR IGNORE INTO user_roles (user_id, role_id) VALUES (?, ?)`,
		identityID, r.ID,
	); err != nil {
		return fmt.Errorf("add role: %w", err)
	}
	return nil
}

// RemoveRole deletes the single (account, role) association, reporting
// apperror.ErrNotFound when there is none.
func (s *IdentityStore) RemoveRole(identityID int64, role string) error {
	r, err := s.GetRoleByName(role)
	if err != nil {
		return err
	}
	if r == nil {
		return apperror.NotFound(fmt.Sprintf("role %s not found", role))
	}

	result, err := s.db.Exec(
		`DELETE FROM user_roles WHERE user_id = ? AND role_id = ?`,
		identityID, r.ID,
	)
	if err != nil {
		return fmt.Errorf("remove role: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(fmt.Sprintf("user does not hold role %s", role))
	}
	return nil
}
