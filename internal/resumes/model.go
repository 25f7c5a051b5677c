package resumes

import (
	"errors"
	"time"
)

// ErrNotFound indicates no submission is stored for a client session id.
var ErrNotFound = errors.New("resume submission not found")

// Submission is one prepared resume, immutable once saved.
type Submission struct {
	ClientSessionID string
	ResumeText      string
	Notes           string
	JobDescription  string
	CreatedAt       time.Time
}
