// Package generation runs the paid rewrite flow: verify payment, spend a
// credit, load the prepared resume, and call the rewriter.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-tailor/internal/credits"
	"resume-tailor/internal/payments"
	"resume-tailor/internal/resumes"
	"resume-tailor/internal/rewriter"
	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/telemetry"
)

// Request identifies the payment and the prepared resume to rewrite.
type Request struct {
	CheckoutSessionID string
	ClientSessionID   string
}

// Result is a successful generation.
type Result struct {
	EnhancedResumeText string
	RemainingCredits   int
}

// Service orchestrates one generation request at a time; it holds no
// locks of its own, the ledger serializes credit mutations.
type Service struct {
	Verifier payments.Verifier
	Ledger   credits.Ledger
	Resumes  resumes.Repo
	Rewriter rewriter.Rewriter
	// Quota seeds a payment's ledger entry. Zero means credits.DefaultQuota.
	Quota int
	// CheckResumeFirst loads the resume before spending the credit. When
	// false a missing resume still costs the credit.
	CheckResumeFirst bool
}

func (s *Service) quota() int {
	if s.Quota > 0 {
		return s.Quota
	}
	return credits.DefaultQuota
}

// Generate runs the flow. Every failure is an *apperr.Error.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	res, err := s.generate(ctx, req)
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(string(apperr.KindOf(err))).Inc()
		return Result{}, err
	}
	metrics.GenerationTotal.WithLabelValues("success").Inc()
	return res, nil
}

func (s *Service) generate(ctx context.Context, req Request) (Result, error) {
	paymentID := strings.TrimSpace(req.CheckoutSessionID)
	clientSessionID := strings.TrimSpace(req.ClientSessionID)
	if paymentID == "" || clientSessionID == "" {
		return Result{}, apperr.New(apperr.KindInvalidRequest, "checkoutSessionId and clientSessionId are required.")
	}

	verification, err := s.Verifier.Verify(ctx, paymentID)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindInvalidSession, "Could not verify payment session.", err)
	}
	if !verification.Paid {
		return Result{}, apperr.New(apperr.KindUnpaid, "Payment not confirmed. Please complete payment before generating resumes.")
	}

	var (
		sub    resumes.Submission
		loaded bool
	)
	if s.CheckResumeFirst {
		if sub, err = s.loadResume(ctx, clientSessionID); err != nil {
			return Result{}, err
		}
		loaded = true
	}

	if err := s.Ledger.InitIfAbsent(ctx, paymentID, s.quota()); err != nil {
		return Result{}, apperr.Wrap(apperr.KindServer, "Unable to prepare credits. Please try again.", err)
	}
	spent, err := s.Ledger.Consume(ctx, paymentID)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindServer, "Unable to use a credit. Please try again.", err)
	}
	if !spent.OK {
		return Result{}, apperr.New(apperr.KindNoCredits, fmt.Sprintf("You have used all %d resume upgrades for this purchase.", s.quota()))
	}
	metrics.CreditsConsumedTotal.Inc()
	telemetry.Info("credits.consumed", map[string]any{
		"checkout_session_id": paymentID,
		"client_session_id":   clientSessionID,
		"remaining":           spent.Remaining,
	})

	if !loaded {
		if sub, err = s.loadResume(ctx, clientSessionID); err != nil {
			telemetry.Warn("credits.spent_without_resume", map[string]any{
				"checkout_session_id": paymentID,
				"client_session_id":   clientSessionID,
				"remaining":           spent.Remaining,
			})
			return Result{}, err
		}
	}

	text, err := s.Rewriter.Rewrite(ctx, rewriter.Input{
		ResumeText:     sub.ResumeText,
		Notes:          sub.Notes,
		JobDescription: sub.JobDescription,
	})
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindServer, "Failed to generate enhanced resume. Please try again.", err)
	}

	return Result{EnhancedResumeText: text, RemainingCredits: spent.Remaining}, nil
}

func (s *Service) loadResume(ctx context.Context, clientSessionID string) (resumes.Submission, error) {
	sub, err := s.Resumes.Get(ctx, clientSessionID)
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			return resumes.Submission{}, apperr.New(apperr.KindInvalidSession, "Resume data not found for this session.")
		}
		return resumes.Submission{}, apperr.Wrap(apperr.KindServer, "Unable to load resume data. Please try again.", err)
	}
	return sub, nil
}
