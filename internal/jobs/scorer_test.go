package jobs_test

import (
	"context"
	"errors"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/talentscreen/interview-api/internal/config"
	"github.com/talentscreen/interview-api/internal/jobs"
	"github.com/talentscreen/interview-api/internal/scoring"
	"github.com/talentscreen/interview-api/internal/store"
	"github.com/talentscreen/interview-api/internal/store/model"
)

var _ = Describe("scorer", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		cfg.Database.Type = "sqlite"
		cfg.Database.Name = filepath.Join(GinkgoT().TempDir(), "scorer.db")

		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())
	})

	AfterAll(func() {
		_ = s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM evaluation")
		gormdb.Exec("DELETE FROM interview")
	})

	It("returns not found when the interview has no evaluations", func() {
		scoringModel := &fakeScorer{}
		scorer := jobs.NewScorer(s, newFakeMedia(), scoringModel)

		_, err := scorer.Score(context.TODO(), 42)
		var notFound *jobs.NotFoundError
		Expect(errors.As(err, &notFound)).To(BeTrue())
		Expect(scoringModel.calls).To(Equal(0))
	})

	It("returns not found before any model call when a transcript reference is missing", func() {
		tx := gormdb.Create(&model.Evaluation{EvaluationID: 1, InterviewID: 42, QuestionID: 7})
		Expect(tx.Error).To(BeNil())

		scoringModel := &fakeScorer{}
		scorer := jobs.NewScorer(s, newFakeMedia(), scoringModel)

		_, err := scorer.Score(context.TODO(), 42)
		var notFound *jobs.NotFoundError
		Expect(errors.As(err, &notFound)).To(BeTrue())
		Expect(scoringModel.calls).To(Equal(0))
	})

	It("returns not found when no transcript object matches in storage", func() {
		tx := gormdb.Create(&model.Evaluation{
			EvaluationID: 1,
			InterviewID:  42,
			QuestionID:   7,
			ASRFileS3Key: strPtr(testBucketPrefix + "ConvertedTextFile/a.txt"),
		})
		Expect(tx.Error).To(BeNil())

		media := newFakeMedia()
		scoringModel := &fakeScorer{}
		scorer := jobs.NewScorer(s, media, scoringModel)

		_, err := scorer.Score(context.TODO(), 42)
		var notFound *jobs.NotFoundError
		Expect(errors.As(err, &notFound)).To(BeTrue())
		Expect(media.findCalls).To(Equal(1))
		Expect(scoringModel.calls).To(Equal(0))
	})

	It("scores every evaluation and persists the results", func() {
		for i, name := range []string{"a", "b"} {
			tx := gormdb.Create(&model.Evaluation{
				EvaluationID: int64(i + 1),
				InterviewID:  42,
				QuestionID:   int64(100 + i),
				ASRFileS3Key: strPtr(testBucketPrefix + "ConvertedTextFile/" + name + ".txt"),
			})
			Expect(tx.Error).To(BeNil())
		}

		media := newFakeMedia()
		media.transcripts["ConvertedTextFile/a.txt"] = "first answer"
		media.transcripts["ConvertedTextFile/b.txt"] = "second answer"

		scoringModel := &fakeScorer{scores: scoring.Scores{
			SemanticSimilarity:   85.5,
			BroadTopicSimilarity: 90,
			Grammar:              75,
			Disfluency:           80,
		}}
		scorer := jobs.NewScorer(s, media, scoringModel)

		result, err := scorer.Score(context.TODO(), 42)
		Expect(err).To(BeNil())
		Expect(scoringModel.calls).To(Equal(2))
		Expect(result.InterviewID).To(Equal(int64(42)))
		Expect(result.QuestionID).To(Equal(int64(101)))
		Expect(result.Scores.SemanticSimilarity).To(Equal(85.5))

		evaluations, err := s.Evaluation().ListByInterview(context.TODO(), 42)
		Expect(err).To(BeNil())
		for _, evaluation := range evaluations {
			Expect(*evaluation.SemanticSimilarityScore).To(Equal(85.5))
			Expect(*evaluation.DisfluencyScore).To(Equal(80.0))
		}
	})
})
