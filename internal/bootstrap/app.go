package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/credits"
	"resume-tailor/internal/generation"
	"resume-tailor/internal/intake"
	"resume-tailor/internal/payments"
	"resume-tailor/internal/resumes"
	"resume-tailor/internal/rewriter"
	"resume-tailor/internal/rewriter/gemini"
	"resume-tailor/internal/rewriter/openai"
	"resume-tailor/internal/services/health"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/server"
	"resume-tailor/internal/shared/telemetry"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	Resumes           resumes.Repo
	Ledger            credits.Ledger
	Verifier          payments.Verifier
	Checkout          payments.CheckoutCreator
	Rewriter          rewriter.Rewriter
	IntakeService     *intake.Service
	GenerationService *generation.Service
	IntakeHandler     *intake.Handler
	GenerationHandler *generation.Handler
	PaymentsHandler   *payments.Handler

	closers []io.Closer
}

// Overrides replaces external capabilities, mainly for tests.
type Overrides struct {
	Verifier payments.Verifier
	Checkout payments.CheckoutCreator
	Rewriter rewriter.Rewriter
}

// Build wires stores, external capabilities, handlers and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	return BuildWith(ctx, cfg, Overrides{})
}

// BuildWith is Build with some capabilities supplied by the caller.
func BuildWith(ctx context.Context, cfg config.Config, ov Overrides) (*App, error) {
	app := &App{
		Config:  cfg,
		Resumes: resumes.NewMemoryRepo(),
		Ledger:  credits.NewMemoryLedger(),
	}

	if err := app.buildPayments(ov); err != nil {
		return nil, err
	}
	if err := app.buildRewriter(ctx, ov); err != nil {
		return nil, err
	}

	app.IntakeService = intake.NewService(app.Resumes)
	app.GenerationService = &generation.Service{
		Verifier:         app.Verifier,
		Ledger:           app.Ledger,
		Resumes:          app.Resumes,
		Rewriter:         app.Rewriter,
		Quota:            credits.DefaultQuota,
		CheckResumeFirst: cfg.CheckResumeFirst,
	}

	app.IntakeHandler = intake.NewHandler(app.IntakeService, cfg.MaxUploadBytes)
	app.GenerationHandler = generation.NewHandler(app.GenerationService)
	app.PaymentsHandler = payments.NewHandler(app.Checkout, app.Ledger)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		Health:            health.NewService(),
		IntakeHandler:     app.IntakeHandler,
		GenerationHandler: app.GenerationHandler,
		PaymentsHandler:   app.PaymentsHandler,
	})
	return app, nil
}

// Close releases provider clients.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (a *App) buildPayments(ov Overrides) error {
	a.Verifier, a.Checkout = ov.Verifier, ov.Checkout
	if a.Verifier != nil && a.Checkout != nil {
		return nil
	}

	var verifier payments.Verifier = payments.Unconfigured{}
	var checkout payments.CheckoutCreator = payments.Unconfigured{}
	if a.Config.Stripe.SecretKey != "" {
		gw, err := payments.NewStripeGateway(payments.StripeOptions{
			SecretKey:  a.Config.Stripe.SecretKey,
			PriceID:    a.Config.Stripe.PriceID,
			AppBaseURL: a.Config.AppBaseURL,
		})
		if err != nil {
			return fmt.Errorf("bootstrap: payments: %w", err)
		}
		verifier, checkout = gw, gw
	} else {
		telemetry.Warn("bootstrap.payments_unconfigured", map[string]any{"env": a.Config.Env})
	}

	if a.Verifier == nil {
		a.Verifier = verifier
	}
	if a.Checkout == nil {
		a.Checkout = checkout
	}
	return nil
}

func (a *App) buildRewriter(ctx context.Context, ov Overrides) error {
	if ov.Rewriter != nil {
		a.Rewriter = ov.Rewriter
		return nil
	}

	llm := a.Config.LLM
	var next rewriter.Rewriter
	switch {
	case llm.Provider == "openai" && llm.OpenAIKey != "":
		client, err := openai.NewClient(openai.Options{
			APIKey:  llm.OpenAIKey,
			Model:   llm.Model,
			Timeout: time.Duration(llm.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return fmt.Errorf("bootstrap: openai: %w", err)
		}
		next = client
	case llm.Provider == "gemini" && llm.GeminiKey != "":
		client, err := gemini.NewClient(ctx, llm.GeminiKey, llm.Model)
		if err != nil {
			return fmt.Errorf("bootstrap: gemini: %w", err)
		}
		a.closers = append(a.closers, client)
		next = client
	default:
		telemetry.Warn("bootstrap.rewriter_unconfigured", map[string]any{"provider": llm.Provider})
		next = rewriter.Placeholder{}
	}

	a.Rewriter = rewriter.Instrumented{Provider: llm.Provider, Next: next}
	return nil
}
