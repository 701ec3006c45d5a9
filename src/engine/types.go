package engine

import (
	"github.com/chocolate-network/ledger/src/ledger"
)

// ProjectID is dense, starts at 1 and is never reused
type ProjectID = uint32

type Status string

const (
	StatusProposed Status = "Proposed"
	StatusAccepted Status = "Accepted"
	StatusRejected Status = "Rejected"
)

type ReasonKind string

const (
	// Custom reason, details in the note
	ReasonOther ReasonKind = "Other"
	// Base conditions for the project missing or review lacking detail
	ReasonInsufficientMetaData ReasonKind = "InsufficientMetaData"
	// Project or review is malicious
	ReasonMalicious ReasonKind = "Malicious"
	// Positive neutral, covers rank up to accepted
	ReasonPassedRequirements ReasonKind = "PassedRequirements"
)

type Reason struct {
	Kind ReasonKind
	Note []byte
}

type ProposalStatus struct {
	Status Status
	Reason Reason
}

func defaultProposalStatus() ProposalStatus {
	return ProposalStatus{
		Status: StatusProposed,
		Reason: Reason{Kind: ReasonPassedRequirements},
	}
}

type Project struct {
	ID       ProjectID
	Owner    ledger.AccountID
	Metadata []byte

	ProposalStatus ProposalStatus

	// Reward still reserved and not yet paid out. Starts at the reward cap,
	// only ever decreases through the payout protocol.
	Reward ledger.Balance

	// Sum of reviewers' rank-point snapshots at review-creation time. Saturating.
	TotalUserScores uint32

	// Sum of 1-5 review scores of accepted reviews. Saturating.
	TotalReviewScore uint64

	// Count of accepted reviews. Saturating.
	NumberOfReviews uint32

	// Accounts that reviewed the project, in creation order
	Reviewers []ledger.AccountID
}

func newProject(owner ledger.AccountID, metadata []byte) *Project {
	return &Project{
		Owner:          owner,
		Metadata:       metadata,
		ProposalStatus: defaultProposalStatus(),
	}
}

// Review is identified by the (reviewer, project) pair
type Review struct {
	Reviewer  ledger.AccountID
	ProjectID ProjectID
	Content   []byte

	ProposalStatus ProposalStatus

	// Reviewer's rank points captured at creation time, immutable afterward
	PointSnapshot uint32

	// Integer in [1,5], validated at creation
	ReviewScore uint8

	// Asset the reviewer locked; must differ from the native reward currency
	CollateralCurrency ledger.CurrencyID
}

type reviewKey struct {
	Reviewer  ledger.AccountID
	ProjectID ProjectID
}
