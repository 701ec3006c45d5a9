package model

import (
	"time"
)

const TableReview = "reviews"

// Reporting replica of a committed review, keyed by (reviewer, project)
type Review struct {
	Reviewer           string `gorm:"primaryKey"`
	ProjectId          uint32 `gorm:"primaryKey"`
	Content            []byte
	Status             string
	ReasonKind         string
	PointSnapshot      uint32
	ReviewScore        uint8
	CollateralCurrency uint32
	UpdatedAt          time.Time
}

func (Review) TableName() string {
	return TableReview
}
