package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorekeeper/internal/model"
)

type UserProfileStore struct {
	db     *sql.DB
	chores *ChoreStore
}

func NewUserProfileStore(db *sql.DB, chores *ChoreStore) *UserProfileStore {
	return &UserProfileStore{db: db, chores: chores}
}

func scanProfile(scanner interface{ Scan(...any) error }) (*model.UserProfile, error) {
	var p model.UserProfile
	err := scanner.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Address, &p.IdentityUserID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const profileCols = `id, first_name, last_name, address, identity_user_id`

func (s *UserProfileStore) List() ([]model.UserProfile, error) {
	rows, err := s.db.Query(`SELECT ` + profileCols + ` FROM user_profiles ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (s *UserProfileStore) GetByID(id int64) (*model.UserProfile, error) {
	row := s.db.QueryRow(`SELECT `+profileCols+` FROM user_profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *UserProfileStore) GetByIdentityID(identityID int64) (*model.UserProfile, error) {
	row := s.db.QueryRow(`SELECT `+profileCols+` FROM user_profiles WHERE identity_user_id = ?`, identityID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by identity: %w", err)
	}
	return p, nil
}

// --- Identity joins ---

const profileWithIdentityQuery = `SELECT p.id, p.first_name, p.last_name, p.address, p.identity_user_id,
	u.email, u.user_name
	FROM user_profiles p
	JOIN identity_users u ON u.id = p.identity_user_id`

func scanProfileWithIdentity(scanner interface{ Scan(...any) error }) (*model.ProfileWithRoles, error) {
	var p model.ProfileWithRoles
	err := scanner.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Address, &p.IdentityUserID,
		&p.Email, &p.UserName,
	)
	if err != nil {
		return nil, err
	}
	p.Roles = []string{}
	return &p, nil
}

// ListWithRoles returns every profile with its email, username and role
// names. Role associations whose role no longer resolves are dropped.
func (s *UserProfileStore) ListWithRoles() ([]model.ProfileWithRoles, error) {
	rows, err := s.db.Query(profileWithIdentityQuery + ` ORDER BY p.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles with roles: %w", err)
	}
	defer rows.Close()

	var profiles []model.ProfileWithRoles
	for rows.Next() {
		p, err := scanProfileWithIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	roles, err := s.roleNamesByIdentity()
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if names, ok := roles[profiles[i].IdentityUserID]; ok {
			profiles[i].Roles = names
		}
	}
	return profiles, nil
}

// GetWithRolesByIdentity returns the profile owned by an identity account,
// or nil when the account has no profile.
func (s *UserProfileStore) GetWithRolesByIdentity(identityID int64) (*model.ProfileWithRoles, error) {
	row := s.db.QueryRow(profileWithIdentityQuery+` WHERE p.identity_user_id = ?`, identityID)
	p, err := scanProfileWithIdentity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile with roles: %w", err)
	}

	roles, err := s.roleNamesByIdentity()
	if err != nil {
		return nil, err
	}
	if names, ok := roles[identityID]; ok {
		p.Roles = names
	}
	return p, nil
}

func (s *UserProfileStore) roleNamesByIdentity() (map[int64][]string, error) {
	rows, err := s.db.Query(
		`SELECT ur.user_id, r.name FROM user_roles ur
		 LEFT JOIN roles r ON r.id = ur.role_id
		 ORDER BY ur.user_id ASC, r.name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list role associations: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]string)
	for rows.Next() {
		var userID int64
		var name sql.NullString
		if err := rows.Scan(&userID, &name); err != nil {
			return nil, fmt.Errorf("scan role association: %w", err)
		}
		if !name.Valid {
			continue
		}
		out[userID] = append(out[userID], name.String)
	}
	return out, rows.Err()
}

// --- Chore aggregates ---

// GetWithChores returns a profile with its assignments and completion
// history, each joined to its chore. It returns nil when the profile does
// not exist.
func (s *UserProfileStore) GetWithChores(id int64) (*model.ProfileWithChores, error) {
	p, err := s.GetByID(id)
	if err != nil || p == nil {
		return nil, err
	}

	assignments, err := s.chores.ListAssignmentsByProfile(id)
	if err != nil {
		return nil, err
	}
	if assignments == nil {
		assignments = []model.ChoreAssignment{}
	}

	completions, err := s.chores.ListCompletionsByProfile(id)
	if err != nil {
		return nil, err
	}
	if completions == nil {
		completions = []model.ChoreCompletion{}
	}

	return &model.ProfileWithChores{
		UserProfile:      *p,
		ChoreAssignments: assignments,
		ChoreCompletions: completions,
	}, nil
}
