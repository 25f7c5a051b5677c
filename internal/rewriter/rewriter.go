// Package rewriter defines the resume rewriting capability and the prompt
// every provider sends.
package rewriter

import (
	"context"
	"errors"
	"time"

	"resume-tailor/internal/shared/metrics"
)

// Input is the text a rewriter tailors.
type Input struct {
	ResumeText     string
	Notes          string
	JobDescription string
}

// Rewriter turns a resume and a job description into a tailored resume.
// Calls are single-shot; callers do not retry.
type Rewriter interface {
	Rewrite(ctx context.Context, in Input) (string, error)
}

// ErrNotConfigured is returned by Placeholder.
var ErrNotConfigured = errors.New("resume rewriter not configured")

// Placeholder fails every call. Used when no provider key is set.
type Placeholder struct{}

func (Placeholder) Rewrite(ctx context.Context, in Input) (string, error) {
	return "", ErrNotConfigured
}

// Instrumented records call latency for the named provider.
type Instrumented struct {
	Provider string
	Next     Rewriter
}

func (r Instrumented) Rewrite(ctx context.Context, in Input) (string, error) {
	start := time.Now()
	out, err := r.Next.Rewrite(ctx, in)
	metrics.RewriteDuration.WithLabelValues(r.Provider).Observe(time.Since(start).Seconds())
	return out, err
}
