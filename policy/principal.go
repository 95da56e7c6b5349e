package policy

import "peerlearn/models"

// Principal is the identity on whose behalf an operation executes.
// Controllers build it from the freshly loaded user row, not from token
// claims, so role and year changes take effect immediately.
type Principal struct {
	ID          uint
	Role        string
	YearOfStudy int
}

func PrincipalFromUser(u models.User) Principal {
	return Principal{
		ID:          u.ID,
		Role:        u.Role,
		YearOfStudy: u.YearOfStudy,
	}
}
