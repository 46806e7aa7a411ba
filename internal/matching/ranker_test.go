package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/hireflow/hireflow/internal/extract"
	"github.com/hireflow/hireflow/internal/scoring"
	"github.com/hireflow/hireflow/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBlobs serves canned file contents by path.
type fakeBlobs struct {
	files map[string][]byte
}

func (f *fakeBlobs) Read(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("read blob %s: no such file", path)
	}
	return data, nil
}

// fakeExtractor passes blob contents through as text, failing for blobs
// marked corrupt.
type fakeExtractor struct{}

func (f *fakeExtractor) ExtractText(data []byte) (string, error) {
	if strings.HasPrefix(string(data), "corrupt") {
		return "", &extract.ErrDocumentFormat{Err: errors.New("malformed body")}
	}
	return string(data), nil
}

// fakeScorer answers with the canned completion whose key appears in the
// prompt, tracking how many calls were made.
type fakeScorer struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	calls     int
}

func (f *fakeScorer) Score(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}
	for key, response := range f.responses {
		if strings.Contains(prompt, key) {
			return response, nil
		}
	}
	return "{}", nil
}

func (f *fakeScorer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

const longDescription = "We are hiring a backend engineer to build and operate Go services at scale."

func testJob() types.JobContext {
	return types.JobContext{Title: "Backend Engineer", Description: longDescription}
}

func testCandidates() []types.CandidateContext {
	return []types.CandidateContext{
		{Email: "a@example.com", CVPath: "a.pdf"},
		{Email: "b@example.com", CVPath: "b.pdf"},
		{Email: "c@example.com", CVPath: "c.pdf"},
	}
}

func testBlobs() *fakeBlobs {
	return &fakeBlobs{files: map[string][]byte{
		"a.pdf": []byte("cv-alpha"),
		"b.pdf": []byte("cv-bravo"),
		"c.pdf": []byte("cv-charlie"),
	}}
}

func newTestRanker(scorer scoring.Scorer, opts Options) *Ranker {
	return NewRanker(&fakeExtractor{}, testBlobs(), scorer, opts)
}

func TestScoreCandidate_ShortDescription_NoNetworkCall(t *testing.T) {
	scorer := &fakeScorer{}
	ranker := newTestRanker(scorer, Options{})

	job := types.JobContext{Title: "x", Description: "too short"}
	_, err := ranker.ScoreCandidate(context.Background(), job, testCandidates()[0])

	var tooShort *ErrJobDescriptionTooShort
	require.ErrorAs(t, err, &tooShort)
	assert.Equal(t, len("too short"), tooShort.Length)
	assert.Zero(t, scorer.callCount())
}

func TestRankTop_ShortDescription_FailsWholeBatch(t *testing.T) {
	scorer := &fakeScorer{}
	ranker := newTestRanker(scorer, Options{})

	job := types.JobContext{Title: "x", Description: strings.Repeat("a", MinJobDescriptionLen-1)}
	_, err := ranker.RankTop(context.Background(), job, testCandidates(), 3)

	var tooShort *ErrJobDescriptionTooShort
	require.ErrorAs(t, err, &tooShort)
	assert.Zero(t, scorer.callCount())
}

func TestRankTop_TieBrokenByArrivalOrder(t *testing.T) {
	scorer := &fakeScorer{responses: map[string]string{
		"cv-alpha":   `{"matchScore": 90, "summary": "alpha"}`,
		"cv-bravo":   `{"matchScore": 90, "summary": "bravo"}`,
		"cv-charlie": `{"matchScore": 70, "summary": "charlie"}`,
	}}
	ranker := newTestRanker(scorer, Options{})

	ranked, err := ranker.RankTop(context.Background(), testJob(), testCandidates(), 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, "a@example.com", ranked[0].Candidate.Email)
	assert.Equal(t, "b@example.com", ranked[1].Candidate.Email)
	assert.Equal(t, 90, ranked[0].Record.MatchScore)
	assert.Equal(t, 90, ranked[1].Record.MatchScore)
}

func TestRankTop_TopNExceedsAvailable(t *testing.T) {
	scorer := &fakeScorer{responses: map[string]string{
		"cv-alpha": `{"matchScore": 10}`,
	}}
	ranker := newTestRanker(scorer, Options{})

	ranked, err := ranker.RankTop(context.Background(), testJob(), testCandidates(), 10)
	require.NoError(t, err)
	assert.Len(t, ranked, 3)
}

func TestRankTop_DefaultTopN(t *testing.T) {
	scorer := &fakeScorer{responses: map[string]string{
		"cv-alpha":   `{"matchScore": 40}`,
		"cv-bravo":   `{"matchScore": 30}`,
		"cv-charlie": `{"matchScore": 20}`,
	}}
	blobs := testBlobs()
	blobs.files["d.pdf"] = []byte("cv-delta")
	ranker := NewRanker(&fakeExtractor{}, blobs, scorer, Options{})

	candidates := append(testCandidates(), types.CandidateContext{Email: "d@example.com", CVPath: "d.pdf"})
	ranked, err := ranker.RankTop(context.Background(), testJob(), candidates, 0)
	require.NoError(t, err)
	assert.Len(t, ranked, DefaultTopN)
}

func TestRankTop_SkipsFailedCandidate(t *testing.T) {
	scorer := &fakeScorer{responses: map[string]string{
		"cv-alpha":   `{"matchScore": 80}`,
		"cv-charlie": `{"matchScore": 60}`,
	}}
	blobs := testBlobs()
	blobs.files["b.pdf"] = []byte("corrupt-bravo")
	ranker := NewRanker(&fakeExtractor{}, blobs, scorer, Options{})

	ranked, err := ranker.RankTop(context.Background(), testJob(), testCandidates(), 3)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "a@example.com", ranked[0].Candidate.Email)
	assert.Equal(t, "c@example.com", ranked[1].Candidate.Email)
}

func TestRankTop_FailFast_AbortsBatch(t *testing.T) {
	scorer := &fakeScorer{responses: map[string]string{
		"cv-alpha":   `{"matchScore": 80}`,
		"cv-charlie": `{"matchScore": 60}`,
	}}
	blobs := testBlobs()
	blobs.files["b.pdf"] = []byte("corrupt-bravo")
	ranker := NewRanker(&fakeExtractor{}, blobs, scorer, Options{FailFast: true})

	ranked, err := ranker.RankTop(context.Background(), testJob(), testCandidates(), 3)
	require.Error(t, err)
	assert.Nil(t, ranked)

	var formatErr *extract.ErrDocumentFormat
	assert.ErrorAs(t, err, &formatErr)
	assert.Contains(t, err.Error(), "b@example.com")
}

func TestRankTop_ScoringFailureSkipsCandidate(t *testing.T) {
	scorer := &fakeScorer{err: &scoring.ErrScoringService{Err: errors.New("upstream down")}}
	ranker := newTestRanker(scorer, Options{})

	ranked, err := ranker.RankTop(context.Background(), testJob(), testCandidates(), 3)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRankTop_WorkersPreserveOrdering(t *testing.T) {
	scorer := &fakeScorer{responses: map[string]string{
		"cv-alpha":   `{"matchScore": 90, "summary": "alpha"}`,
		"cv-bravo":   `{"matchScore": 90, "summary": "bravo"}`,
		"cv-charlie": `{"matchScore": 70, "summary": "charlie"}`,
	}}
	ranker := newTestRanker(scorer, Options{Workers: 3})

	ranked, err := ranker.RankTop(context.Background(), testJob(), testCandidates(), 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	// Same outcome as the sequential run: ties keep arrival order no matter
	// which worker finished first.
	assert.Equal(t, "a@example.com", ranked[0].Candidate.Email)
	assert.Equal(t, "b@example.com", ranked[1].Candidate.Email)
}

func TestRankTop_MissingBlobTreatedAsDocumentError(t *testing.T) {
	scorer := &fakeScorer{}
	blobs := &fakeBlobs{files: map[string][]byte{}}
	ranker := NewRanker(&fakeExtractor{}, blobs, scorer, Options{FailFast: true})

	_, err := ranker.RankTop(context.Background(), testJob(), testCandidates()[:1], 1)

	var formatErr *extract.ErrDocumentFormat
	require.ErrorAs(t, err, &formatErr)
	assert.Zero(t, scorer.callCount())
}
