package model

type UserProfile struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Address        string `json:"address"`
	IdentityUserID int64  `json:"identity_user_id"`
}

// ProfileWithRoles adds the identity-derived fields, resolved at read time.
type ProfileWithRoles struct {
	UserProfile
	Email    string   `json:"email"`
	UserName string   `json:"user_name"`
	Roles    []string `json:"roles"`
}

func (p ProfileWithRoles) HasRole(name string) bool {
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}

type ProfileWithChores struct {
	UserProfile
	ChoreAssignments []ChoreAssignment `json:"chore_assignments"`
	ChoreCompletions []ChoreCompletion `json:"chore_completions"`
}
