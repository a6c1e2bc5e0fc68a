package jobs

import (
	"context"
	"fmt"

	"github.com/talentscreen/interview-api/internal/scoring"
	"github.com/talentscreen/interview-api/internal/store"
	"github.com/talentscreen/interview-api/pkg/metrics"
	"go.uber.org/zap"
)

// ScoreResult mirrors the original scoring response: the scores persisted
// for the interview's last evaluation.
type ScoreResult struct {
	InterviewID int64
	QuestionID  int64
	Scores      scoring.Scores
}

// Scorer runs the synchronous scoring job: locate each evaluation's
// transcript in object storage, score it with the model and persist the
// scores. Unlike the processing job the caller waits for the result.
type Scorer struct {
	store  store.Store
	media  MediaStore
	scorer scoring.Scorer
}

func NewScorer(s store.Store, media MediaStore, scorer scoring.Scorer) *Scorer {
	return &Scorer{
		store:  s,
		media:  media,
		scorer: scorer,
	}
}

func (s *Scorer) Score(ctx context.Context, interviewID int64) (*ScoreResult, error) {
	logger := zap.S().Named("scorer").With("interview_id", interviewID)

	evaluations, err := s.store.Evaluation().ListByInterview(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluations: %w", err)
	}
	if len(evaluations) == 0 {
		return nil, NewErrEvaluationsNotFound(interviewID)
	}

	result := &ScoreResult{InterviewID: interviewID}

	for _, evaluation := range evaluations {
		if evaluation.ASRFileS3Key == nil || *evaluation.ASRFileS3Key == "" {
			return nil, NewErrTranscriptNotFound(fmt.Sprintf("evaluation %d has no transcript", evaluation.EvaluationID))
		}

		key := s.media.TrimKey(*evaluation.ASRFileS3Key)

		transcript, err := s.media.FindTranscript(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to locate transcript %s: %w", key, err)
		}
		if transcript == "" {
			return nil, NewErrTranscriptNotFound(key)
		}

		scores, err := s.scorer.Score(ctx, transcript)
		if err != nil {
			metrics.IncreaseScoringCallsTotalMetric("failure")
			return nil, fmt.Errorf("failed to score transcript %s: %w", key, err)
		}
		metrics.IncreaseScoringCallsTotalMetric("success")

		storeScores := store.Scores{
			SemanticSimilarity:   scores.SemanticSimilarity,
			BroadTopicSimilarity: scores.BroadTopicSimilarity,
			Grammar:              scores.Grammar,
			Disfluency:           scores.Disfluency,
		}
		if err := s.store.Evaluation().UpdateScores(ctx, evaluation.EvaluationID, storeScores); err != nil {
			return nil, fmt.Errorf("failed to persist scores for evaluation %d: %w", evaluation.EvaluationID, err)
		}

		logger.Infow("evaluation scored", "evaluation_id", evaluation.EvaluationID, "question_id", evaluation.QuestionID)

		result.QuestionID = evaluation.QuestionID
		result.Scores = scores
	}

	return result, nil
}
