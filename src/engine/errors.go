package engine

import "errors"

var (
	// A referenced value that must exist is missing
	ErrNoneValue = errors.New("value not found")

	// The project does not exist
	ErrNoProjectWithID = errors.New("no project with this id")

	// The reviewer has already placed a review on this project
	ErrDuplicateReview = errors.New("duplicate review")

	// The project id counter is exhausted
	ErrStorageOverflow = errors.New("project id space exhausted")

	// Project owners cannot review their own projects
	ErrOwnerReviewedProject = errors.New("owner cannot review own project")

	// Insufficient funds for reserving or transferring
	ErrInsufficientBalance = errors.New("insufficient balance")

	// The reward on the project isn't backed by the owner's reserve
	ErrRewardInconsistent = errors.New("project reward inconsistent with reserve")

	// User already owns a project
	ErrAlreadyOwnsProject = errors.New("user already owns a project")

	// The collateral for the review is no longer fully reserved
	ErrInconsistentCollateral = errors.New("review collateral inconsistent with reserve")

	// The review matching this key cannot be found
	ErrReviewNotFound = errors.New("review not found")

	// Accept must be called on a proposed review or project
	ErrAcceptingNotProposed = errors.New("accepting a non-proposed proposal")

	// Review score is out of range 1-5
	ErrReviewScoreOutOfRange = errors.New("review score out of range")

	// Collateral must not be the native reward currency
	ErrNativeCollateral = errors.New("collateral in native currency")

	// Metadata or content exceeds the configured bound
	ErrMetadataTooLong = errors.New("metadata too long")

	// Arithmetic errors, classified by cause
	ErrDivisionByZero = errors.New("division by zero")
	ErrOverflow       = errors.New("arithmetic overflow")
	ErrUnderflow      = errors.New("arithmetic underflow")
)
