package progress

// Status is the coarse state of a processing job as seen by a subscriber.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Event is a single progress frame pushed to a subscriber. Events are never
// mutated after creation.
type Event struct {
	Status      Status `json:"status"`
	InterviewID int64  `json:"interview_id"`
	Progress    *int   `json:"progress,omitempty"`
	Message     string `json:"message"`
}

// NewProgressEvent returns an in_progress event carrying a percentage.
func NewProgressEvent(interviewID int64, percent int, message string) Event {
	return Event{
		Status:      StatusInProgress,
		InterviewID: interviewID,
		Progress:    &percent,
		Message:     message,
	}
}

// NewCompletedEvent returns the terminal success event for a job.
func NewCompletedEvent(interviewID int64, message string) Event {
	return Event{
		Status:      StatusCompleted,
		InterviewID: interviewID,
		Message:     message,
	}
}

// NewFailedEvent returns the terminal failure event for a job.
func NewFailedEvent(interviewID int64, message string) Event {
	return Event{
		Status:      StatusFailed,
		InterviewID: interviewID,
		Message:     message,
	}
}
