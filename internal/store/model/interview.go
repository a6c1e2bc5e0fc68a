package model

import (
	"encoding/json"
	"time"
)

type Interview struct {
	InterviewID   int64     `gorm:"primaryKey;column:interview_id"`
	InterviewDate time.Time `gorm:"column:interview_date;not null"`
	CandidateID   int64     `gorm:"column:candidate_id;not null"`
	ManagerID     int64     `gorm:"column:manager_id;not null"`
	Remarks       string    `gorm:"column:remarks;type:text"`
	CreatedOn     time.Time `gorm:"column:created_on;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Interview) TableName() string {
	return "interview"
}

func (i Interview) String() string {
	val, _ := json.Marshal(i)
	return string(val)
}
