package model

import (
	"encoding/json"
	"time"

	"github.com/chocolate-network/ledger/src/engine"
)

// EventNotification is the wire form of a committed state transition,
// published to Redis for external consumers
type EventNotification struct {
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`

	ProjectId     uint32 `json:"project_id,omitempty"`
	ProjectOwner  string `json:"project_owner,omitempty"`
	ProjectStatus string `json:"project_status,omitempty"`

	Reviewer    string `json:"reviewer,omitempty"`
	ReviewScore uint8  `json:"review_score,omitempty"`

	Account    string `json:"account,omitempty"`
	RankPoints uint32 `json:"rank_points,omitempty"`

	Amount uint64 `json:"amount,omitempty"`
}

func NewEventNotification(event *engine.Event) (self *EventNotification) {
	self = &EventNotification{
		Kind:       string(event.Kind),
		Timestamp:  event.Timestamp,
		Account:    string(event.Account),
		RankPoints: event.RankPoints,
		Amount:     uint64(event.Amount),
	}

	if event.Project != nil {
		self.ProjectId = event.Project.ID
		self.ProjectOwner = string(event.Project.Owner)
		self.ProjectStatus = string(event.Project.ProposalStatus.Status)
	}

	if event.Review != nil {
		self.Reviewer = string(event.Review.Reviewer)
		self.ReviewScore = event.Review.ReviewScore
	}

	return
}

func (self *EventNotification) MarshalBinary() (data []byte, err error) {
	return json.Marshal(self)
}
