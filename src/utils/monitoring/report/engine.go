package report

import (
	"go.uber.org/atomic"
)

type EngineState struct {
	ProjectsCreated  atomic.Uint64 `json:"projects_created"`
	ReviewsCreated   atomic.Uint64 `json:"reviews_created"`
	ReviewsAccepted  atomic.Uint64 `json:"reviews_accepted"`
	ProjectsAccepted atomic.Uint64 `json:"projects_accepted"`
	Mints            atomic.Uint64 `json:"mints"`

	// Sum of all payouts ever released
	RewardsPaid atomic.Uint64 `json:"rewards_paid"`

	AverageReviewsAcceptedPerMinute atomic.Float64 `json:"average_reviews_accepted_per_minute"`
}

type EngineErrors struct {
	NotFound          atomic.Uint64 `json:"not_found"`
	Precondition      atomic.Uint64 `json:"precondition"`
	InsufficientFunds atomic.Uint64 `json:"insufficient_funds"`
	Inconsistency     atomic.Uint64 `json:"inconsistency"`
	Arithmetic        atomic.Uint64 `json:"arithmetic"`
	Capacity          atomic.Uint64 `json:"capacity"`

	DbStore      atomic.Uint64 `json:"db_store"`
	RedisPublish atomic.Uint64 `json:"redis_publish"`
}

type EngineReport struct {
	State  EngineState  `json:"state"`
	Errors EngineErrors `json:"errors"`
}
