package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"interviews"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address        string `envconfig:"INTERVIEW_API_ADDRESS" default:":8080"`
	MetricsAddress string `envconfig:"INTERVIEW_API_METRICS_ADDRESS" default:":8081"`
	BaseUrl        string `envconfig:"INTERVIEW_API_BASE_URL" default:"http://localhost:8080"`
	LogLevel       string `envconfig:"INTERVIEW_API_LOG_LEVEL" default:"info"`
	WorkDir        string `envconfig:"INTERVIEW_API_WORK_DIR" default:""`

	S3          s3Config
	Transcriber transcriberConfig
	Scoring     scoringConfig
}

type s3Config struct {
	Endpoint         string `envconfig:"INTERVIEW_API_S3_ENDPOINT" default:"s3.amazonaws.com"`
	Bucket           string `envconfig:"INTERVIEW_API_S3_BUCKET" default:"seekers3data"`
	AccessKey        string `envconfig:"INTERVIEW_API_S3_ACCESS_KEY" default:""`
	SecretKey        string `envconfig:"INTERVIEW_API_S3_SECRET_KEY" default:""`
	UseSSL           bool   `envconfig:"INTERVIEW_API_S3_USE_SSL" default:"true"`
	TranscriptPrefix string `envconfig:"INTERVIEW_API_S3_TRANSCRIPT_PREFIX" default:"ConvertedTextFile/"`
}

type transcriberConfig struct {
	FfmpegBin  string `envconfig:"INTERVIEW_API_FFMPEG_BIN" default:"ffmpeg"`
	WhisperBin string `envconfig:"INTERVIEW_API_WHISPER_BIN" default:"whisper-cli"`
	ModelPath  string `envconfig:"INTERVIEW_API_WHISPER_MODEL" default:""`
	Workers    int64  `envconfig:"INTERVIEW_API_TRANSCRIBER_WORKERS" default:"2"`
}

type scoringConfig struct {
	BaseUrl string `envconfig:"INTERVIEW_API_SCORING_BASE_URL" default:"https://api.openai.com/v1"`
	APIKey  string `envconfig:"INTERVIEW_API_SCORING_API_KEY" default:""`
	Model   string `envconfig:"INTERVIEW_API_SCORING_MODEL" default:"gpt-4o-mini"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a config populated with defaults only, ignoring the
// environment. Used by tests.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type:     "pgsql",
			Hostname: "localhost",
			Port:     "5432",
			Name:     "interviews",
			User:     "admin",
			Password: "adminpass",
		},
		Service: &svcConfig{
			Address:        ":8080",
			MetricsAddress: ":8081",
			BaseUrl:        "http://localhost:8080",
			LogLevel:       "info",
			S3: s3Config{
				Endpoint:         "s3.amazonaws.com",
				Bucket:           "seekers3data",
				UseSSL:           true,
				TranscriptPrefix: "ConvertedTextFile/",
			},
			Transcriber: transcriberConfig{
				FfmpegBin:  "ffmpeg",
				WhisperBin: "whisper-cli",
				Workers:    2,
			},
			Scoring: scoringConfig{
				BaseUrl: "https://api.openai.com/v1",
				Model:   "gpt-4o-mini",
			},
		},
	}
}
