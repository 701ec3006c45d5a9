package engine

import (
	"time"

	"github.com/chocolate-network/ledger/src/ledger"
)

type EventKind string

const (
	EventProjectCreated  EventKind = "project_created"
	EventReviewCreated   EventKind = "review_created"
	EventReviewAccepted  EventKind = "review_accepted"
	EventProjectAccepted EventKind = "project_accepted"
	EventMinted          EventKind = "minted"
)

// Event describes a committed state transition. Project/Review/User carry
// snapshots taken at commit time, so downstream consumers never observe a
// half-applied operation.
type Event struct {
	Kind      EventKind
	Timestamp time.Time

	Project *Project
	Review  *Review

	// Account whose profile changed, with its rank points after the change
	Account    ledger.AccountID
	RankPoints uint32

	// Payout of an accepted review, or the minted amount
	Amount ledger.Balance
}
