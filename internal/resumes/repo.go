package resumes

import "context"

// Repo stores resume submissions keyed by client session id.
type Repo interface {
	Save(ctx context.Context, clientSessionID string, sub Submission) error
	Get(ctx context.Context, clientSessionID string) (Submission, error)
}
