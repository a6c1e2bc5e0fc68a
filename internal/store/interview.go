package store

import (
	"context"
	"errors"

	"github.com/talentscreen/interview-api/internal/store/model"
	"gorm.io/gorm"
)

type Interview interface {
	Get(ctx context.Context, id int64) (*model.Interview, error)
	InitialMigration() error
}

type InterviewStore struct {
	db *gorm.DB
}

// Make sure we conform to Interview interface
var _ Interview = (*InterviewStore)(nil)

func NewInterviewStore(db *gorm.DB) Interview {
	return &InterviewStore{db: db}
}

func (s *InterviewStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Interview{})
}

func (s *InterviewStore) Get(ctx context.Context, id int64) (*model.Interview, error) {
	var interview model.Interview
	result := s.db.WithContext(ctx).First(&interview, "interview_id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &interview, nil
}
