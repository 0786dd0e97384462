package scoring

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Negibkaya/Mias-sema/internal/domain"
	"github.com/Negibkaya/Mias-sema/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func strPtr(s string) *string { return &s }

func testInput() domain.ScoreInput {
	return domain.ScoreInput{
		Project: domain.ScoreProject{ID: 1, Name: "Marketplace", Description: strPtr("A marketplace MVP")},
		Roles: []domain.Role{
			{Name: "Backend", Count: 2, Skills: []domain.Skill{{Name: "Go", Level: 6}}},
		},
		Candidates: []domain.ScoreCandidate{
			{ID: 10, Username: strPtr("alice"), Skills: []domain.Skill{{Name: "Go", Level: 8}}},
			{ID: 11, Username: strPtr("bob"), Skills: []domain.Skill{{Name: "Python", Level: 5}}},
			{ID: 12, Username: strPtr("carol"), Bio: strPtr("5 years backend")},
			{ID: 13, Username: strPtr("dave")},
		},
		TopN: 3,
	}
}

func TestScorerRejectsInvalidInput(t *testing.T) {
	stub := &stubGenerator{}
	scorer := NewScorer(stub, time.Second, testLogger())

	cases := []struct {
		name   string
		mutate func(in *domain.ScoreInput)
	}{
		{"empty roles", func(in *domain.ScoreInput) { in.Roles = nil }},
		{"empty candidates", func(in *domain.ScoreInput) { in.Candidates = nil }},
		{"missing project", func(in *domain.ScoreInput) { in.Project = domain.ScoreProject{} }},
		{"top_n too small", func(in *domain.ScoreInput) { in.TopN = 0 }},
		{"top_n too large", func(in *domain.ScoreInput) { in.TopN = 21 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := testInput()
			tc.mutate(&in)

			_, err := scorer.Score(context.Background(), in)
			require.Error(t, err)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 400, appErr.Code)
		})
	}

	// No remote call may be attempted for malformed input.
	assert.Equal(t, 0, stub.calls)
}

func TestScorerParsesCleanResponse(t *testing.T) {
	stub := &stubGenerator{
		response: `{"results":[{"role_name":"Backend","needed":2,"candidates":[{"id":10,"score":91,"reason":"strong Go"},{"id":12,"score":74,"reason":"relevant bio"}]}]}`,
	}
	scorer := NewScorer(stub, time.Second, testLogger())

	out, err := scorer.Score(context.Background(), testInput())
	require.NoError(t, err)

	require.Len(t, out.Results, 1)
	assert.Equal(t, "Backend", out.Results[0].RoleName)
	assert.Equal(t, 2, out.Results[0].Needed)
	require.Len(t, out.Results[0].Candidates, 2)
	assert.Equal(t, int64(10), out.Results[0].Candidates[0].ID)
	assert.Equal(t, 91, out.Results[0].Candidates[0].Score)
	assert.Equal(t, stub.response, out.Raw)
	assert.Equal(t, 1, stub.calls)
}

func TestScorerExtractsEmbeddedJSON(t *testing.T) {
	stub := &stubGenerator{
		response: `Sure! {"results":[{"role_name":"Backend","needed":2,"candidates":[{"id":1,"score":85,"reason":"x"}]}]} Thanks`,
	}
	scorer := NewScorer(stub, time.Second, testLogger())

	out, err := scorer.Score(context.Background(), testInput())
	require.NoError(t, err)

	require.Len(t, out.Results, 1)
	assert.Equal(t, "Backend", out.Results[0].RoleName)
	assert.Equal(t, 2, out.Results[0].Needed)
	require.Len(t, out.Results[0].Candidates, 1)
	assert.Equal(t, int64(1), out.Results[0].Candidates[0].ID)
	assert.Equal(t, 85, out.Results[0].Candidates[0].Score)
	// Raw keeps the surrounding commentary for the audit trail.
	assert.Equal(t, stub.response, out.Raw)
}

func TestScorerNormalizesBackendOutput(t *testing.T) {
	// Five unsorted candidates for top_n=3: the scorer must re-sort and cap
	// no matter what the model emitted.
	stub := &stubGenerator{
		response: `{"results":[{"role_name":"Backend","needed":2,"candidates":[
			{"id":1,"score":55,"reason":"a"},
			{"id":2,"score":97,"reason":"b"},
			{"id":3,"score":71,"reason":"c"},
			{"id":4,"score":83,"reason":"d"},
			{"id":5,"score":64,"reason":"e"}]}]}`,
	}
	scorer := NewScorer(stub, time.Second, testLogger())

	out, err := scorer.Score(context.Background(), testInput())
	require.NoError(t, err)

	candidates := out.Results[0].Candidates
	require.Len(t, candidates, 3)
	assert.Equal(t, []int64{2, 4, 3}, []int64{candidates[0].ID, candidates[1].ID, candidates[2].ID})
	for i := 1; i < len(candidates); i++ {
		assert.GreaterOrEqual(t, candidates[i-1].Score, candidates[i].Score)
	}
}

func TestScorerFallbackOnGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("upstream returned 503")}
	scorer := NewScorer(stub, time.Second, testLogger())

	in := testInput()
	in.Roles = append(in.Roles, domain.Role{Name: "Designer", Count: 1})

	out, err := scorer.Score(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, out.Results, 2)
	for i, result := range out.Results {
		assert.Equal(t, in.Roles[i].Name, result.RoleName)
		assert.Equal(t, in.Roles[i].Count, result.Needed)
		require.Len(t, result.Candidates, 3) // top_n of a 4-candidate pool
		for j, c := range result.Candidates {
			assert.GreaterOrEqual(t, c.Score, 70)
			assert.LessOrEqual(t, c.Score, 99)
			assert.Contains(t, c.Reason, result.RoleName)
			if j > 0 {
				assert.GreaterOrEqual(t, result.Candidates[j-1].Score, c.Score)
			}
		}
	}
	assert.Contains(t, out.Raw, "scoring request failed")
}

func TestScorerFallbackOnUnparsableResponse(t *testing.T) {
	stub := &stubGenerator{response: "I could not decide, sorry."}
	scorer := NewScorer(stub, time.Second, testLogger())

	out, err := scorer.Score(context.Background(), testInput())
	require.NoError(t, err)

	require.Len(t, out.Results, 1)
	assert.Equal(t, "Backend", out.Results[0].RoleName)
	assert.NotEmpty(t, out.Results[0].Candidates)
	// The garbled original text still goes to the audit trail.
	assert.Equal(t, stub.response, out.Raw)
}

func TestScorerFallbackCapsAtPoolSize(t *testing.T) {
	stub := &stubGenerator{err: errors.New("timeout")}
	scorer := NewScorer(stub, time.Second, testLogger())

	in := testInput()
	in.Candidates = in.Candidates[:2]
	in.TopN = 5

	out, err := scorer.Score(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.Len(t, out.Results[0].Candidates, 2)
}

func TestPromptContainsContract(t *testing.T) {
	stub := &stubGenerator{response: `{"results":[]}`}
	scorer := NewScorer(stub, time.Second, testLogger())

	_, err := scorer.Score(context.Background(), testInput())
	require.NoError(t, err)

	assert.Contains(t, stub.lastPrompt, "Marketplace")
	assert.Contains(t, stub.lastPrompt, "A marketplace MVP")
	assert.Contains(t, stub.lastPrompt, `"Go"`)
	assert.Contains(t, stub.lastPrompt, "TOP 3")
	assert.Contains(t, stub.lastPrompt, "Return ONLY valid JSON")
	assert.Contains(t, stub.lastPrompt, "sorted by score descending")
}
