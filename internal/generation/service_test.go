package generation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/credits"
	"resume-tailor/internal/payments"
	"resume-tailor/internal/resumes"
	"resume-tailor/internal/rewriter"
	"resume-tailor/internal/shared/apperr"
)

type fakeVerifier struct {
	calls atomic.Int64
	paid  map[string]bool
	err   error
}

func (f *fakeVerifier) Verify(ctx context.Context, paymentID string) (payments.Verification, error) {
	f.calls.Add(1)
	if f.err != nil {
		return payments.Verification{}, f.err
	}
	return payments.Verification{PaymentID: paymentID, Paid: f.paid[paymentID]}, nil
}

type fakeRewriter struct {
	mu    sync.Mutex
	calls int
	last  rewriter.Input
	err   error
}

func (f *fakeRewriter) Rewrite(ctx context.Context, in rewriter.Input) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = in
	if f.err != nil {
		return "", f.err
	}
	return "TAILORED: " + in.ResumeText, nil
}

func (f *fakeRewriter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type countingRepo struct {
	resumes.Repo
	gets atomic.Int64
}

func (r *countingRepo) Get(ctx context.Context, id string) (resumes.Submission, error) {
	r.gets.Add(1)
	return r.Repo.Get(ctx, id)
}

type fixture struct {
	svc      *Service
	verifier *fakeVerifier
	ledger   *credits.MemoryLedger
	repo     *countingRepo
	rw       *fakeRewriter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := &countingRepo{Repo: resumes.NewMemoryRepo()}
	require.NoError(t, repo.Save(context.Background(), "sess-1", resumes.Submission{
		ResumeText:     "Jane Doe",
		Notes:          "keep it short",
		JobDescription: "Sales rep",
	}))
	f := &fixture{
		verifier: &fakeVerifier{paid: map[string]bool{"cs_paid": true, "cs_open": false}},
		ledger:   credits.NewMemoryLedger(),
		repo:     repo,
		rw:       &fakeRewriter{},
	}
	f.svc = &Service{Verifier: f.verifier, Ledger: f.ledger, Resumes: f.repo, Rewriter: f.rw}
	return f
}

func (f *fixture) remaining(t *testing.T, paymentID string) (int, bool) {
	t.Helper()
	n, ok, err := f.ledger.Remaining(context.Background(), paymentID)
	require.NoError(t, err)
	return n, ok
}

func TestGenerateSuccess(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Generate(context.Background(), Request{CheckoutSessionID: "cs_paid", ClientSessionID: "sess-1"})
	require.NoError(t, err)
	assert.Equal(t, "TAILORED: Jane Doe", res.EnhancedResumeText)
	assert.Equal(t, 2, res.RemainingCredits)
	assert.Equal(t, rewriter.Input{ResumeText: "Jane Doe", Notes: "keep it short", JobDescription: "Sales rep"}, f.rw.last)
}

func TestGenerateInvalidRequest(t *testing.T) {
	f := newFixture(t)
	for _, req := range []Request{
		{},
		{CheckoutSessionID: "cs_paid"},
		{ClientSessionID: "sess-1"},
		{CheckoutSessionID: "  ", ClientSessionID: "sess-1"},
	} {
		_, err := f.svc.Generate(context.Background(), req)
		assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err), "request %+v", req)
	}
	assert.Zero(t, f.verifier.calls.Load())
}

func TestGenerateVerifierFailure(t *testing.T) {
	f := newFixture(t)
	f.verifier.err = errors.New("no such checkout.session")

	_, err := f.svc.Generate(context.Background(), Request{CheckoutSessionID: "cs_bogus", ClientSessionID: "sess-1"})
	assert.Equal(t, apperr.KindInvalidSession, apperr.KindOf(err))
	_, ok := f.remaining(t, "cs_bogus")
	assert.False(t, ok)
	assert.Zero(t, f.rw.Calls())
}

func TestGenerateUnpaidConsumesNothing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.InitIfAbsent(context.Background(), "cs_open", 2))

	_, err := f.svc.Generate(context.Background(), Request{CheckoutSessionID: "cs_open", ClientSessionID: "sess-1"})
	assert.Equal(t, apperr.KindUnpaid, apperr.KindOf(err))

	n, _ := f.remaining(t, "cs_open")
	assert.Equal(t, 2, n)
	assert.Zero(t, f.rw.Calls())

	_, err = f.svc.Generate(context.Background(), Request{CheckoutSessionID: "cs_never", ClientSessionID: "sess-1"})
	assert.Equal(t, apperr.KindUnpaid, apperr.KindOf(err))
	_, ok := f.remaining(t, "cs_never")
	assert.False(t, ok)
}

func TestGenerateExhaustsCredits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := Request{CheckoutSessionID: "cs_paid", ClientSessionID: "sess-1"}

	for want := 2; want >= 0; want-- {
		res, err := f.svc.Generate(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, want, res.RemainingCredits)
	}
	getsBefore := f.repo.gets.Load()

	_, err := f.svc.Generate(ctx, req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNoCredits, apperr.KindOf(err))
	assert.Equal(t, 3, f.rw.Calls())
	assert.Equal(t, getsBefore, f.repo.gets.Load(), "resume data must not be read once credits are gone")
	assert.EqualValues(t, 4, f.verifier.calls.Load(), "payment is verified on every call")
}

func TestGenerateMissingResumeBurnsCredit(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), Request{CheckoutSessionID: "cs_paid", ClientSessionID: "sess-missing"})
	assert.Equal(t, apperr.KindInvalidSession, apperr.KindOf(err))

	n, _ := f.remaining(t, "cs_paid")
	assert.Equal(t, 2, n)
	assert.Zero(t, f.rw.Calls())
}

func TestGenerateCheckResumeFirstKeepsCredit(t *testing.T) {
	f := newFixture(t)
	f.svc.CheckResumeFirst = true

	_, err := f.svc.Generate(context.Background(), Request{CheckoutSessionID: "cs_paid", ClientSessionID: "sess-missing"})
	assert.Equal(t, apperr.KindInvalidSession, apperr.KindOf(err))
	_, ok := f.remaining(t, "cs_paid")
	assert.False(t, ok)

	res, err := f.svc.Generate(context.Background(), Request{CheckoutSessionID: "cs_paid", ClientSessionID: "sess-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.RemainingCredits)
}

func TestGenerateRewriterFailure(t *testing.T) {
	f := newFixture(t)
	f.rw.err = errors.New("model overloaded")

	_, err := f.svc.Generate(context.Background(), Request{CheckoutSessionID: "cs_paid", ClientSessionID: "sess-1"})
	assert.Equal(t, apperr.KindServer, apperr.KindOf(err))
	assert.Equal(t, 1, f.rw.Calls(), "no retry")

	n, _ := f.remaining(t, "cs_paid")
	assert.Equal(t, 2, n)
}

func TestGenerateAcrossClientSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repo.Save(ctx, "sess-2", resumes.Submission{ResumeText: "Jane Doe v2", JobDescription: "Sales rep"}))

	res, err := f.svc.Generate(ctx, Request{CheckoutSessionID: "cs_paid", ClientSessionID: "sess-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.RemainingCredits)

	res, err = f.svc.Generate(ctx, Request{CheckoutSessionID: "cs_paid", ClientSessionID: "sess-2"})
	require.NoError(t, err)
	assert.Equal(t, "TAILORED: Jane Doe v2", res.EnhancedResumeText)
	assert.Equal(t, 1, res.RemainingCredits)
}

func TestGenerateConcurrentRequestsRespectQuota(t *testing.T) {
	f := newFixture(t)
	const calls = 12

	var (
		wg        sync.WaitGroup
		successes atomic.Int64
		noCredits atomic.Int64
		start     = make(chan struct{})
	)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.svc.Generate(context.Background(), Request{CheckoutSessionID: "cs_paid", ClientSessionID: "sess-1"})
			switch apperr.KindOf(err) {
			case "":
				successes.Add(1)
			case apperr.KindNoCredits:
				noCredits.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, credits.DefaultQuota, successes.Load())
	assert.EqualValues(t, calls-credits.DefaultQuota, noCredits.Load())
	assert.Equal(t, credits.DefaultQuota, f.rw.Calls())
	n, _ := f.remaining(t, "cs_paid")
	assert.Equal(t, 0, n)
}
