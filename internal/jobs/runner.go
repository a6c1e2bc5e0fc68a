package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/talentscreen/interview-api/internal/progress"
	"github.com/talentscreen/interview-api/internal/store"
	"github.com/talentscreen/interview-api/internal/store/model"
	"github.com/talentscreen/interview-api/internal/transcriber"
	"github.com/talentscreen/interview-api/pkg/metrics"
	"go.uber.org/zap"
)

// MediaStore is the object storage collaborator the runner stages media
// through. Satisfied by mediastore.MediaStore.
type MediaStore interface {
	Download(ctx context.Context, key string, localPath string, onProgress func(transferred, total int64)) error
	UploadTranscript(ctx context.Context, name string, text string) (string, error)
	FindTranscript(ctx context.Context, name string) (string, error)
	TrimKey(key string) string
}

// Runner drives one interview's media through fetch, transcription and
// persistence, pushing progress to whoever is subscribed. Artifacts are
// processed strictly in order; one artifact's failure never aborts the rest.
type Runner struct {
	store       store.Store
	media       MediaStore
	transcriber transcriber.Transcriber
	notifier    *progress.Notifier
	workDir     string
}

func NewRunner(s store.Store, media MediaStore, t transcriber.Transcriber, notifier *progress.Notifier, workDir string) *Runner {
	if workDir == "" {
		workDir = filepath.Join(os.TempDir(), "interview-videos")
	}
	return &Runner{
		store:       s,
		media:       media,
		transcriber: t,
		notifier:    notifier,
		workDir:     workDir,
	}
}

// Run executes the whole processing job for one interview. It is meant to be
// launched on its own goroutine after the request has been validated and
// acknowledged: nothing it does is ever visible to the triggering request.
func (r *Runner) Run(ctx context.Context, interviewID int64) {
	logger := zap.S().Named("runner").With("interview_id", interviewID)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorw("processing job panicked", "panic", rec)
			r.notifier.Notify(interviewID, progress.NewFailedEvent(interviewID, "Processing failed unexpectedly."))
		}
	}()

	logger.Info("started processing interview media")

	evaluations, err := r.store.Evaluation().ListByInterview(ctx, interviewID)
	if err != nil {
		logger.Errorw("failed to load evaluations", "error", err)
		r.notifier.Notify(interviewID, progress.NewFailedEvent(interviewID, "Failed to load evaluations for processing."))
		return
	}

	if err := os.MkdirAll(r.workDir, 0o755); err != nil {
		logger.Errorw("failed to create staging directory", "dir", r.workDir, "error", err)
		r.notifier.Notify(interviewID, progress.NewFailedEvent(interviewID, "Failed to prepare local storage for processing."))
		return
	}

	for _, evaluation := range evaluations {
		if evaluation.VideoFileS3Key == nil || *evaluation.VideoFileS3Key == "" {
			logger.Debugw("evaluation has no video key, skipping", "evaluation_id", evaluation.EvaluationID)
			continue
		}
		r.processArtifact(ctx, interviewID, evaluation)
	}

	logger.Info("all media processed")
	r.notifier.Notify(interviewID, progress.NewCompletedEvent(interviewID, "Downloading and transcription completed successfully."))
}

// processArtifact handles one evaluation's video: download, transcribe,
// upload the transcript and record its reference. The staged local file is
// removed on every exit path. Failures are logged and swallowed so the next
// artifact still runs.
func (r *Runner) processArtifact(ctx context.Context, interviewID int64, evaluation model.Evaluation) {
	logger := zap.S().Named("runner").With("interview_id", interviewID, "evaluation_id", evaluation.EvaluationID)

	key := r.media.TrimKey(*evaluation.VideoFileS3Key)
	localPath := filepath.Join(r.workDir, stagingName(interviewID, key))
	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			logger.Warnw("failed to remove staged file", "path", localPath, "error", err)
		}
	}()

	reporter := transferReporter{notifier: r.notifier, interviewID: interviewID, key: key}
	if err := r.media.Download(ctx, key, localPath, reporter.report); err != nil {
		logger.Errorw("failed to download video", "key", key, "error", err)
		return
	}

	text, err := r.transcriber.Transcribe(ctx, localPath)
	if err != nil {
		metrics.IncreaseTranscriptionsTotalMetric("failure")
		logger.Errorw("failed to transcribe video", "key", key, "error", err)
		return
	}
	metrics.IncreaseTranscriptionsTotalMetric("success")

	transcriptRef, err := r.media.UploadTranscript(ctx, key, text)
	if err != nil {
		logger.Errorw("failed to upload transcript", "key", key, "error", err)
		return
	}

	rows, err := r.store.Evaluation().UpdateTranscriptKey(ctx, *evaluation.VideoFileS3Key, transcriptRef)
	if err != nil {
		logger.Errorw("failed to record transcript reference", "key", key, "error", err)
		return
	}
	if rows == 0 {
		logger.Warnw("no evaluation rows matched video key", "video_key", *evaluation.VideoFileS3Key)
	}
}

// transferReporter forwards transfer callbacks as progress events. It is a
// value type capturing the interview id and artifact key explicitly, so each
// artifact gets its own reporter instead of a closure over loop state.
type transferReporter struct {
	notifier    *progress.Notifier
	interviewID int64
	key         string
}

func (t transferReporter) report(transferred, total int64) {
	if total <= 0 {
		return
	}
	percent := int(transferred * 100 / total)
	t.notifier.Notify(t.interviewID, progress.NewProgressEvent(t.interviewID, percent,
		fmt.Sprintf("Downloading %d%% complete for video %s", percent, t.key)))
}

// stagingName derives a collision-free local filename from the interview id
// and the remote key, so concurrent jobs never stage over each other.
func stagingName(interviewID int64, key string) string {
	return fmt.Sprintf("%d_%s", interviewID, strings.ReplaceAll(key, "/", "_"))
}
