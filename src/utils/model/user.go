package model

import (
	"time"
)

const TableUser = "users"

// Reporting replica of a user profile
type User struct {
	Account    string `gorm:"primaryKey"`
	RankPoints uint32
	ProjectId  *uint32
	UpdatedAt  time.Time
}

func (User) TableName() string {
	return TableUser
}
