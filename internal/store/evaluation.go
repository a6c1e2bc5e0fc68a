package store

import (
	"context"

	"github.com/talentscreen/interview-api/internal/store/model"
	"gorm.io/gorm"
)

// Scores holds the four rubric dimensions produced by the scoring model.
type Scores struct {
	SemanticSimilarity   float64
	BroadTopicSimilarity float64
	Grammar              float64
	Disfluency           float64
}

type Evaluation interface {
	ListByInterview(ctx context.Context, interviewID int64) (model.EvaluationList, error)
	// UpdateTranscriptKey sets the transcript reference on every evaluation
	// whose video key matches. Returns the number of rows affected; zero rows
	// is not an error.
	UpdateTranscriptKey(ctx context.Context, videoKey string, transcriptKey string) (int64, error)
	UpdateScores(ctx context.Context, evaluationID int64, scores Scores) error
	InitialMigration() error
}

type EvaluationStore struct {
	db *gorm.DB
}

// Make sure we conform to Evaluation interface
var _ Evaluation = (*EvaluationStore)(nil)

func NewEvaluationStore(db *gorm.DB) Evaluation {
	return &EvaluationStore{db: db}
}

func (s *EvaluationStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Evaluation{})
}

func (s *EvaluationStore) ListByInterview(ctx context.Context, interviewID int64) (model.EvaluationList, error) {
	var evaluations model.EvaluationList
	result := s.db.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		Order("evaluation_id").
		Find(&evaluations)
	if result.Error != nil {
		return nil, result.Error
	}
	return evaluations, nil
}

func (s *EvaluationStore) UpdateTranscriptKey(ctx context.Context, videoKey string, transcriptKey string) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("videofile_s3key = ?", videoKey).
		Update("asrfile_s3key", transcriptKey)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (s *EvaluationStore) UpdateScores(ctx context.Context, evaluationID int64, scores Scores) error {
	result := s.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("evaluation_id = ?", evaluationID).
		Updates(map[string]any{
			"semantic_similarity_score": scores.SemanticSimilarity,
			"broad_topic_sim_score":     scores.BroadTopicSimilarity,
			"grammar_score":             scores.Grammar,
			"disfluency_score":          scores.Disfluency,
		})
	return result.Error
}
