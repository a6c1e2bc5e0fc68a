package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/talentscreen/interview-api/internal/jobs"
	"github.com/talentscreen/interview-api/internal/service"
	"go.uber.org/zap"
)

type InterviewRequest struct {
	InterviewID int64 `json:"interview_id"`
}

type InterviewResponse struct {
	InterviewID int64  `json:"interview_id"`
	CandidateID int64  `json:"candidate_id"`
	ManagerID   int64  `json:"manager_id"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

type ScoringResponse struct {
	InterviewID             int64   `json:"interview_id"`
	QuestionID              int64   `json:"question_id"`
	SemanticSimilarityScore float64 `json:"semantic_similarity_score"`
	BroadTopicSimScore      float64 `json:"broad_topic_sim_score"`
	GrammarScore            float64 `json:"grammar_score"`
	DisfluencyScore         float64 `json:"disfluency_score"`
	Message                 string  `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type Handler struct {
	service *service.InterviewService
}

func NewHandler(service *service.InterviewService) *Handler {
	return &Handler{service: service}
}

// (POST /process-interview)
func (h *Handler) ProcessInterview(w http.ResponseWriter, r *http.Request) {
	var req InterviewRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Detail: "invalid request body"})
		return
	}

	ack, err := h.service.Process(r.Context(), req.InterviewID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, InterviewResponse{
		InterviewID: ack.InterviewID,
		CandidateID: ack.CandidateID,
		ManagerID:   ack.ManagerID,
		Status:      ack.Status,
		Message:     ack.Message,
	})
}

// (POST /score-interview)
func (h *Handler) ScoreInterview(w http.ResponseWriter, r *http.Request) {
	var req InterviewRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Detail: "invalid request body"})
		return
	}

	result, err := h.service.ScoreInterview(r.Context(), req.InterviewID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, ScoringResponse{
		InterviewID:             result.InterviewID,
		QuestionID:              result.QuestionID,
		SemanticSimilarityScore: result.Scores.SemanticSimilarity,
		BroadTopicSimScore:      result.Scores.BroadTopicSimilarity,
		GrammarScore:            result.Scores.Grammar,
		DisfluencyScore:         result.Scores.Disfluency,
		Message:                 "Scoring completed successfully.",
	})
}

// (GET /health)
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"message": "Interview API is running!"})
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *jobs.NotFoundError
	if errors.As(err, &notFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errorResponse{Detail: err.Error()})
		return
	}

	zap.S().Named("interview_handler").Errorw("request failed", "error", err)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, errorResponse{Detail: "internal server error"})
}
