package model

import (
	"time"

	"github.com/lib/pq"
)

const TableProject = "projects"

// Reporting replica of a committed project, one row per project id.
// The in-memory registry stays authoritative, rows are upserted after commit.
type Project struct {
	Id               uint32 `gorm:"primaryKey"`
	Owner            string
	Metadata         []byte
	Status           string
	ReasonKind       string
	ReasonNote       []byte
	Reward           uint64
	TotalUserScores  uint32
	TotalReviewScore uint64
	NumberOfReviews  uint32
	Reviewers        pq.StringArray `gorm:"type:text[]"`
	UpdatedAt        time.Time
}

func (Project) TableName() string {
	return TableProject
}
