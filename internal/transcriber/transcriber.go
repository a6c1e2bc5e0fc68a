package transcriber

import "context"

// Transcriber turns a local media file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string) (string, error)
}
