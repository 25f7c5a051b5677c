package rewriter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/shared/metrics"
)

func TestBuildPromptIncludesInputsInOrder(t *testing.T) {
	p := BuildPrompt(Input{
		ResumeText:     "Jane Doe\nAccount Executive at Acme",
		Notes:          "Emphasize renewals",
		JobDescription: "Sales rep, SaaS",
	})

	assert.Contains(t, p.System, "expert resume writer")
	resumeAt := strings.Index(p.User, "Jane Doe\nAccount Executive at Acme")
	notesAt := strings.Index(p.User, "Emphasize renewals")
	jobAt := strings.Index(p.User, "Sales rep, SaaS")
	require.True(t, resumeAt > 0 && notesAt > 0 && jobAt > 0)
	assert.Less(t, resumeAt, notesAt)
	assert.Less(t, notesAt, jobAt)
	assert.True(t, strings.HasSuffix(p.User, "Return only the final, polished resume text."))
}

func TestBuildPromptDefaultsNotes(t *testing.T) {
	p := BuildPrompt(Input{ResumeText: "r", Notes: "   ", JobDescription: "j"})
	assert.Contains(t, p.User, "===== CANDIDATE NOTES / PREFERENCES =====\n(none provided)")
}

func TestCleanOutput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "  Jane Doe\nSales  \n", want: "Jane Doe\nSales"},
		{name: "fenced with lang", in: "```text\nJane Doe\n```", want: "Jane Doe"},
		{name: "fenced bare", in: "```\nJane Doe\n```", want: "Jane Doe"},
		{name: "empty", in: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanOutput(tt.in))
		})
	}
}

type stubRewriter struct {
	out string
	err error
}

func (s stubRewriter) Rewrite(ctx context.Context, in Input) (string, error) { return s.out, s.err }

func TestInstrumentedPassesThroughAndObserves(t *testing.T) {
	before := testutil.CollectAndCount(metrics.RewriteDuration)

	out, err := Instrumented{Provider: "stub-ok", Next: stubRewriter{out: "ok"}}.Rewrite(context.Background(), Input{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	boom := errors.New("boom")
	_, err = Instrumented{Provider: "stub-err", Next: stubRewriter{err: boom}}.Rewrite(context.Background(), Input{})
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, before+2, testutil.CollectAndCount(metrics.RewriteDuration))
}

func TestPlaceholder(t *testing.T) {
	_, err := Placeholder{}.Rewrite(context.Background(), Input{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
