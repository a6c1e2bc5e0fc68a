package transcriber

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// commandResult is an internal process execution response.
type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (commandResult, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := commandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// non-zero exit is reported through ExitCode, not as an error
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		result.ExitCode = -1
		return result, err
	}
	return result, nil
}

type PipelineOpts func(p *Pipeline)

// Pipeline extracts the audio track with ffmpeg and transcribes it with a
// whisper CLI. Intermediate artifacts live in a per-call temp directory that
// is removed when the call returns.
type Pipeline struct {
	ffmpegBin  string
	whisperBin string
	modelPath  string
	runner     commandRunner
}

// Make sure we conform to Transcriber interface
var _ Transcriber = (*Pipeline)(nil)

func NewPipeline(opts ...PipelineOpts) *Pipeline {
	p := &Pipeline{
		ffmpegBin:  "ffmpeg",
		whisperBin: "whisper-cli",
		runner:     execRunner{},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pipeline) Transcribe(ctx context.Context, mediaPath string) (string, error) {
	tempDir, err := os.MkdirTemp("", "transcribe-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			zap.S().Named("transcriber").Warnw("failed to remove temp dir", "dir", tempDir, "error", err)
		}
	}()

	audioPath := filepath.Join(tempDir, "audio.wav")
	if err := p.extractAudio(ctx, mediaPath, audioPath); err != nil {
		return "", err
	}

	return p.runWhisper(ctx, audioPath, tempDir)
}

func (p *Pipeline) extractAudio(ctx context.Context, mediaPath, audioPath string) error {
	// 16kHz mono pcm_s16le is the input whisper expects
	result, err := p.runner.Run(ctx, p.ffmpegBin,
		"-y",
		"-i", mediaPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		audioPath,
	)
	if err != nil {
		return fmt.Errorf("running %s: %w", p.ffmpegBin, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("audio extraction failed (exit=%d): %s", result.ExitCode, lastLine(result.Stderr))
	}
	return nil
}

func (p *Pipeline) runWhisper(ctx context.Context, audioPath, outputDir string) (string, error) {
	outputBase := filepath.Join(outputDir, "transcript")
	args := []string{
		"-f", audioPath,
		"-otxt",
		"-of", outputBase,
		"-np",
	}
	if p.modelPath != "" {
		args = append(args, "-m", p.modelPath)
	}

	result, err := p.runner.Run(ctx, p.whisperBin, args...)
	if err != nil {
		return "", fmt.Errorf("running %s: %w", p.whisperBin, err)
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("transcription failed (exit=%d): %s", result.ExitCode, lastLine(result.Stderr))
	}

	content, err := os.ReadFile(outputBase + ".txt")
	if err != nil {
		// some whisper builds write the transcript to stdout only
		if trimmed := strings.TrimSpace(result.Stdout); trimmed != "" {
			return trimmed, nil
		}
		return "", fmt.Errorf("reading transcript: %w", err)
	}

	return strings.TrimSpace(string(content)), nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

func WithFfmpegBin(bin string) PipelineOpts {
	return func(p *Pipeline) {
		p.ffmpegBin = bin
	}
}

func WithWhisperBin(bin string) PipelineOpts {
	return func(p *Pipeline) {
		p.whisperBin = bin
	}
}

func WithModelPath(path string) PipelineOpts {
	return func(p *Pipeline) {
		p.modelPath = path
	}
}

func withRunner(r commandRunner) PipelineOpts {
	return func(p *Pipeline) {
		p.runner = r
	}
}
