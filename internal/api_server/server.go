package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/talentscreen/interview-api/internal/config"
	"github.com/talentscreen/interview-api/internal/handlers"
	"github.com/talentscreen/interview-api/internal/jobs"
	"github.com/talentscreen/interview-api/internal/mediastore"
	"github.com/talentscreen/interview-api/internal/progress"
	"github.com/talentscreen/interview-api/internal/scoring"
	"github.com/talentscreen/interview-api/internal/service"
	"github.com/talentscreen/interview-api/internal/store"
	"github.com/talentscreen/interview-api/internal/transcriber"
	"github.com/talentscreen/interview-api/pkg/metrics"
	"github.com/talentscreen/interview-api/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
}

// New returns a new instance of the interview-api server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	media, err := mediastore.NewMediaStore(
		mediastore.WithEndpoint(s.cfg.Service.S3.Endpoint),
		mediastore.WithBucket(s.cfg.Service.S3.Bucket),
		mediastore.WithAccessKey(s.cfg.Service.S3.AccessKey),
		mediastore.WithSecretKey(s.cfg.Service.S3.SecretKey),
		mediastore.WithSSL(s.cfg.Service.S3.UseSSL),
		mediastore.WithTranscriptPrefix(s.cfg.Service.S3.TranscriptPrefix),
	)
	if err != nil {
		return err
	}

	pipeline := transcriber.NewPipeline(
		transcriber.WithFfmpegBin(s.cfg.Service.Transcriber.FfmpegBin),
		transcriber.WithWhisperBin(s.cfg.Service.Transcriber.WhisperBin),
		transcriber.WithModelPath(s.cfg.Service.Transcriber.ModelPath),
	)
	pool := transcriber.NewPool(pipeline, s.cfg.Service.Transcriber.Workers)

	scoringClient := scoring.NewClient(
		scoring.WithBaseUrl(s.cfg.Service.Scoring.BaseUrl),
		scoring.WithAPIKey(s.cfg.Service.Scoring.APIKey),
		scoring.WithModel(s.cfg.Service.Scoring.Model),
	)

	registry := progress.NewRegistry()
	notifier := progress.NewNotifier(registry)

	runner := jobs.NewRunner(s.store, media, pool, notifier, s.cfg.Service.WorkDir)
	scorer := jobs.NewScorer(s.store, media, scoringClient)

	interviewService := service.NewInterviewService(s.store, runner, scorer)

	h := handlers.NewHandler(interviewService)
	ph := handlers.NewProgressHandler(registry)

	router.Get("/", h.Health)
	router.Get("/health", h.Health)
	router.Post("/process-interview", h.ProcessInterview)
	router.Post("/score-interview", h.ScoreInterview)
	router.Get("/ws/progress", ph.Subscribe)

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
