package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/chorekeeper/internal/model"
)

type ChoreStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db, now: time.Now}
}

// --- Chore methods ---

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	err := scanner.Scan(&c.ID, &c.Name, &c.Difficulty, &c.RecurrenceDays)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const choreCols = `id, name, difficulty, recurrence_days`

func (s *ChoreStore) Create(name string, difficulty, recurrenceDays int) (*model.Chore, error) {
	result, err := s.db.Exec(
		`INSERT INTO chores (name, difficulty, recurrence_days) VALUES (?, ?, ?)`,
		name, difficulty, recurrenceDays,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChoreStore) GetByID(id int64) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

func (s *ChoreStore) List() ([]model.Chore, error) {
	rows, err := s.db.Query(`SELECT ` + choreCols + ` FROM chores ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

// Update overwrites the mutable fields of a chore. The id never changes.
// It returns nil when no chore has that id.
func (s *ChoreStore) Update(id int64, name string, difficulty, recurrenceDays int) (*model.Chore, error) {
	_, err := s.db.Exec(
		`UPDATE chores SET name = ?, difficulty = ?, recurrence_days = ? WHERE id = ?`,
		name, difficulty, recurrenceDays, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update chore: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a chore together with its assignments and completions.
func (s *ChoreStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM chores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	return nil
}

func (s *ChoreStore) GetWithCompletions(id int64) (*model.ChoreWithCompletions, error) {
	c, err := s.GetByID(id)
	if err != nil || c == nil {
		return nil, err
	}

	completions, err := s.ListCompletionsByChore(id)
	if err != nil {
		return nil, err
	}
	if completions == nil {
		completions = []model.ChoreCompletion{}
	}
	return &model.ChoreWithCompletions{Chore: *c, ChoreCompletions: completions}, nil
}

// --- Completion methods ---

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.ChoreCompletion, error) {
	var c model.ChoreCompletion
	err := scanner.Scan(&c.ID, &c.ChoreID, &c.UserProfileID, &c.CompletedOn)
	if err != nil {
		return nil, err
	}
	c.CompletedOn = c.CompletedOn.UTC()
	return &c, nil
}

// scanCompletionWithChore reads a completion row followed by choreCols.
func scanCompletionWithChore(scanner interface{ Scan(...any) error }) (*model.ChoreCompletion, error) {
	var c model.ChoreCompletion
	var ch model.Chore
	err := scanner.Scan(
		&c.ID, &c.ChoreID, &c.UserProfileID, &c.CompletedOn,
		&ch.ID, &ch.Name, &ch.Difficulty, &ch.RecurrenceDays,
	)
	if err != nil {
		return nil, err
	}
	c.CompletedOn = c.CompletedOn.UTC()
	c.Chore = &ch
	return &c, nil
}

const completionCols = `id, chore_id, user_profile_id, completed_on`

const completionWithChoreQuery = `SELECT cc.id, cc.chore_id, cc.user_profile_id, cc.completed_on,
	c.id, c.name, c.difficulty, c.recurrence_days
	FROM chore_completions cc
	JOIN chores c ON c.id = cc.chore_id`

// CreateCompletion records that profileID completed choreID now. The
// timestamp is always taken from the server clock.
func (s *ChoreStore) CreateCompletion(choreID, profileID int64) (*model.ChoreCompletion, error) {
	completedOn := s.now().UTC()

	result, err := s.db.Exec(
		`INSERT INTO chore_completions (chore_id, user_profile_id, completed_on) VALUES (?, ?, ?)`,
		choreID, profileID, completedOn,
	)
	if err != nil {
		return nil, fmt.Errorf("insert completion: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+completionCols+` FROM chore_completions WHERE id = ?`, id)
	c, err := scanCompletion(row)
	if err != nil {
		return nil, fmt.Errorf("get completion: %w", err)
	}
	return c, nil
}

func (s *ChoreStore) ListCompletionsByChore(choreID int64) ([]model.ChoreCompletion, error) {
	rows, err := s.db.Query(
		`SELECT `+completionCols+` FROM chore_completions WHERE chore_id = ? ORDER BY completed_on DESC, id DESC`,
		choreID,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var completions []model.ChoreCompletion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}

// ListCompletionsByProfile returns a profile's completion history, each
// entry carrying its chore.
func (s *ChoreStore) ListCompletionsByProfile(profileID int64) ([]model.ChoreCompletion, error) {
	rows, err := s.db.Query(
		completionWithChoreQuery+` WHERE cc.user_profile_id = ? ORDER BY cc.completed_on DESC, cc.id DESC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions by profile: %w", err)
	}
	defer rows.Close()

	var completions []model.ChoreCompletion
	for rows.Next() {
		c, err := scanCompletionWithChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}

// --- Assignment methods ---

func scanAssignment(scanner interface{ Scan(...any) error }) (*model.ChoreAssignment, error) {
	var a model.ChoreAssignment
	err := scanner.Scan(&a.ID, &a.ChoreID, &a.UserProfileID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAssignmentWithChore(scanner interface{ Scan(...any) error }) (*model.ChoreAssignment, error) {
	var a model.ChoreAssignment
	var ch model.Chore
	err := scanner.Scan(
		&a.ID, &a.ChoreID, &a.UserProfileID,
		&ch.ID, &ch.Name, &ch.Difficulty, &ch.RecurrenceDays,
	)
	if err != nil {
		return nil, err
	}
	a.Chore = &ch
	return &a, nil
}

const assignmentCols = `id, chore_id, user_profile_id`

// CreateAssignment links a profile to a chore. The same pair may be
// assigned more than once.
func (s *ChoreStore) CreateAssignment(choreID, profileID int64) (*model.ChoreAssignment, error) {
	result, err := s.db.Exec(
		`INSERT INTO chore_assignments (chore_id, user_profile_id) VALUES (?, ?)`,
		choreID, profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+assignmentCols+` FROM chore_assignments WHERE id = ?`, id)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// DeleteAssignments removes every assignment of choreID to profileID and
// reports how many rows went.
func (s *ChoreStore) DeleteAssignments(choreID, profileID int64) (int64, error) {
	result, err := s.db.Exec(
		`DELETE FROM chore_assignments WHERE chore_id = ? AND user_profile_id = ?`,
		choreID, profileID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete assignments: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func (s *ChoreStore) ListAssignmentsByProfile(profileID int64) ([]model.ChoreAssignment, error) {
	rows, err := s.db.Query(
		`SELECT ca.id, ca.chore_id, ca.user_profile_id, c.id, c.name, c.difficulty, c.recurrence_days
		 FROM chore_assignments ca
		 JOIN chores c ON c.id = ca.chore_id
		 WHERE ca.user_profile_id = ?
		 ORDER BY ca.id ASC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments by profile: %w", err)
	}
	defer rows.Close()

	var assignments []model.ChoreAssignment
	for rows.Next() {
		a, err := scanAssignmentWithChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}
