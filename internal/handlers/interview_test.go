package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/talentscreen/interview-api/internal/config"
	"github.com/talentscreen/interview-api/internal/handlers"
	"github.com/talentscreen/interview-api/internal/jobs"
	"github.com/talentscreen/interview-api/internal/progress"
	"github.com/talentscreen/interview-api/internal/scoring"
	"github.com/talentscreen/interview-api/internal/service"
	"github.com/talentscreen/interview-api/internal/store"
	"github.com/talentscreen/interview-api/internal/store/model"
)

// failingMedia satisfies jobs.MediaStore for handler tests where no job
// should ever reach storage.
type failingMedia struct{}

func (failingMedia) Download(ctx context.Context, key string, localPath string, onProgress func(transferred, total int64)) error {
	return errors.New("storage unavailable")
}

func (failingMedia) UploadTranscript(ctx context.Context, name string, text string) (string, error) {
	return "", errors.New("storage unavailable")
}

func (failingMedia) FindTranscript(ctx context.Context, name string) (string, error) {
	return "", nil
}

func (failingMedia) TrimKey(key string) string {
	return key
}

type failingTranscriber struct{}

func (failingTranscriber) Transcribe(ctx context.Context, mediaPath string) (string, error) {
	return "", errors.New("no transcriber in tests")
}

type zeroScorer struct{}

func (zeroScorer) Score(ctx context.Context, transcript string) (scoring.Scores, error) {
	return scoring.Scores{}, nil
}

var _ = Describe("interview endpoints", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		server *httptest.Server
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		cfg.Database.Type = "sqlite"
		cfg.Database.Name = filepath.Join(GinkgoT().TempDir(), "handlers.db")

		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())

		registry := progress.NewRegistry()
		runner := jobs.NewRunner(s, failingMedia{}, failingTranscriber{}, progress.NewNotifier(registry), GinkgoT().TempDir())
		scorer := jobs.NewScorer(s, failingMedia{}, zeroScorer{})
		svc := service.NewInterviewService(s, runner, scorer)

		h := handlers.NewHandler(svc)
		router := chi.NewRouter()
		router.Get("/health", h.Health)
		router.Post("/process-interview", h.ProcessInterview)
		router.Post("/score-interview", h.ScoreInterview)
		server = httptest.NewServer(router)
	})

	AfterAll(func() {
		server.Close()
		_ = s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM evaluation")
		gormdb.Exec("DELETE FROM interview")
	})

	postJSON := func(path string, body any) *http.Response {
		payload, err := json.Marshal(body)
		Expect(err).To(BeNil())
		resp, err := http.Post(server.URL+path, "application/json", bytes.NewReader(payload))
		Expect(err).To(BeNil())
		return resp
	}

	It("responds on the health endpoint", func() {
		resp, err := http.Get(server.URL + "/health")
		Expect(err).To(BeNil())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	It("returns 404 with a detail body for an unknown interview", func() {
		resp := postJSON("/process-interview", handlers.InterviewRequest{InterviewID: 404})
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))

		var body map[string]string
		Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
		Expect(body["detail"]).To(ContainSubstring("Interview ID not found"))
	})

	It("acknowledges processing with 202 and the interview identity", func() {
		tx := gormdb.Create(&model.Interview{InterviewID: 42, InterviewDate: time.Now(), CandidateID: 10, ManagerID: 20})
		Expect(tx.Error).To(BeNil())
		tx = gormdb.Create(&model.Evaluation{EvaluationID: 1, InterviewID: 42})
		Expect(tx.Error).To(BeNil())

		resp := postJSON("/process-interview", handlers.InterviewRequest{InterviewID: 42})
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusAccepted))

		var body handlers.InterviewResponse
		Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
		Expect(body.InterviewID).To(Equal(int64(42)))
		Expect(body.CandidateID).To(Equal(int64(10)))
		Expect(body.ManagerID).To(Equal(int64(20)))
		Expect(body.Status).To(Equal("processing"))
	})

	It("returns 400 for a malformed body", func() {
		resp, err := http.Post(server.URL+"/process-interview", "application/json", bytes.NewReader([]byte("{")))
		Expect(err).To(BeNil())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("returns 404 when scoring an interview without transcripts", func() {
		tx := gormdb.Create(&model.Interview{InterviewID: 42, InterviewDate: time.Now(), CandidateID: 10, ManagerID: 20})
		Expect(tx.Error).To(BeNil())
		tx = gormdb.Create(&model.Evaluation{EvaluationID: 1, InterviewID: 42})
		Expect(tx.Error).To(BeNil())

		resp := postJSON("/score-interview", handlers.InterviewRequest{InterviewID: 42})
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})
})
