package store

import (
	"gorm.io/gorm"
)

type Store interface {
	Interview() Interview
	Evaluation() Evaluation
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db         *gorm.DB
	interview  Interview
	evaluation Evaluation
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:         db,
		interview:  NewInterviewStore(db),
		evaluation: NewEvaluationStore(db),
	}
}

func (s *DataStore) Interview() Interview {
	return s.interview
}

func (s *DataStore) Evaluation() Evaluation {
	return s.evaluation
}

func (s *DataStore) InitialMigration() error {
	if err := s.interview.InitialMigration(); err != nil {
		return err
	}
	return s.evaluation.InitialMigration()
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
