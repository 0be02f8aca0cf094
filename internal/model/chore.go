package model

import "time"

type Chore struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Difficulty     int    `json:"difficulty"`
	RecurrenceDays int    `json:"recurrence_days"`
}

type ChoreAssignment struct {
	ID            int64  `json:"id"`
	ChoreID       int64  `json:"chore_id"`
	UserProfileID int64  `json:"user_profile_id"`
	Chore         *Chore `json:"chore,omitempty"`
}

// ChoreCompletion is append-only. CompletedOn is always stamped by the
// server.
type ChoreCompletion struct {
	ID            int64     `json:"id"`
	ChoreID       int64     `json:"chore_id"`
	UserProfileID int64     `json:"user_profile_id"`
	CompletedOn   time.Time `json:"completed_on"`
	Chore         *Chore    `json:"chore,omitempty"`
}

type ChoreWithCompletions struct {
	Chore
	ChoreCompletions []ChoreCompletion `json:"chore_completions"`
}
