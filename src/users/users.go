package users

import (
	"errors"

	"github.com/chocolate-network/ledger/src/ledger"
)

var ErrUserNotFound = errors.New("user not found")

// User is a per-account profile. RankPoints grows by one for every accepted
// review the account authored; ProjectID backlinks the single project the
// account may own.
type User struct {
	RankPoints uint32
	ProjectID  *uint32
}

// Registry is the user-profile collaborator. It owns the
// one-project-per-user constraint.
type Registry interface {
	// GetByID returns a copy of the profile, or ErrUserNotFound
	GetByID(id ledger.AccountID) (User, error)

	// GetOrCreateDefault returns the profile, creating a zeroed one if absent
	GetOrCreateDefault(id ledger.AccountID) User

	// AssignProject backlinks the profile to its project, creating the
	// profile if absent. Other fields are left alone.
	AssignProject(id ledger.AccountID, projectID uint32)

	// IncrementRank bumps the rank by one, saturating, creating the profile
	// if absent, and returns the updated copy
	IncrementRank(id ledger.AccountID) User

	// Set inserts or overwrites a profile. Bootstrap only.
	Set(id ledger.AccountID, user User)
}
