package jobs

import "fmt"

// NotFoundError marks a missing interview, evaluation set or transcript.
// Handlers map it to a 404.
type NotFoundError struct {
	error
}

func NewErrInterviewNotFound(id int64) *NotFoundError {
	return &NotFoundError{fmt.Errorf("Interview ID not found in the database")}
}

func NewErrEvaluationsNotFound(id int64) *NotFoundError {
	return &NotFoundError{fmt.Errorf("Evaluations for Interview ID not found in the database")}
}

func NewErrTranscriptNotFound(key string) *NotFoundError {
	return &NotFoundError{fmt.Errorf("ASR file not found in S3: %s", key)}
}
