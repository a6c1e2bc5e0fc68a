package service

import (
	"context"
	"errors"

	"github.com/talentscreen/interview-api/internal/jobs"
	"github.com/talentscreen/interview-api/internal/store"
	"go.uber.org/zap"
)

// ProcessAck is the synchronous acknowledgement returned once a processing
// job has been accepted and detached.
type ProcessAck struct {
	InterviewID int64
	CandidateID int64
	ManagerID   int64
	Status      string
	Message     string
}

// InterviewService validates requests against the store, launches the
// background processing job and runs the synchronous scoring job.
type InterviewService struct {
	store  store.Store
	runner *jobs.Runner
	scorer *jobs.Scorer
}

func NewInterviewService(s store.Store, runner *jobs.Runner, scorer *jobs.Scorer) *InterviewService {
	return &InterviewService{
		store:  s,
		runner: runner,
		scorer: scorer,
	}
}

// Process checks that the interview exists and has at least one evaluation,
// then kicks off the background job and returns immediately. The job's
// outcome is observable only through progress events and persisted rows.
func (s *InterviewService) Process(ctx context.Context, interviewID int64) (*ProcessAck, error) {
	interview, err := s.store.Interview().Get(ctx, interviewID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, jobs.NewErrInterviewNotFound(interviewID)
		}
		return nil, err
	}

	evaluations, err := s.store.Evaluation().ListByInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if len(evaluations) == 0 {
		return nil, jobs.NewErrEvaluationsNotFound(interviewID)
	}

	zap.S().Named("interview_service").Infow("processing accepted",
		"interview_id", interviewID,
		"candidate_id", interview.CandidateID,
		"evaluations", len(evaluations),
	)

	// Detached from the request: its context must outlive this handler.
	go s.runner.Run(context.Background(), interviewID)

	return &ProcessAck{
		InterviewID: interview.InterviewID,
		CandidateID: interview.CandidateID,
		ManagerID:   interview.ManagerID,
		Status:      "processing",
		Message:     "The Processing has started. Connect to the WebSocket for progress updates.",
	}, nil
}

// ScoreInterview runs the scoring job synchronously and returns its result.
func (s *InterviewService) ScoreInterview(ctx context.Context, interviewID int64) (*jobs.ScoreResult, error) {
	if _, err := s.store.Interview().Get(ctx, interviewID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, jobs.NewErrInterviewNotFound(interviewID)
		}
		return nil, err
	}

	return s.scorer.Score(ctx, interviewID)
}
