// Package matching runs the candidate scoring pipeline and ranks the results.
package matching

import (
	"context"
	"fmt"
	"log"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hireflow/hireflow/internal/extract"
	"github.com/hireflow/hireflow/internal/scoring"
	"github.com/hireflow/hireflow/internal/types"
)

// MinJobDescriptionLen is the hard precondition on the job description.
// Anything shorter cannot anchor a meaningful assessment, and the check
// runs before any document is read or any network call is made.
const MinJobDescriptionLen = 50

// DefaultTopN is how many ranked candidates a bulk request returns when the
// caller does not ask for a specific count.
const DefaultTopN = 3

// ErrJobDescriptionTooShort indicates the job description fails the minimum
// length precondition.
type ErrJobDescriptionTooShort struct {
	Length int
}

func (e *ErrJobDescriptionTooShort) Error() string {
	return fmt.Sprintf("job description too short for analysis: %d chars, need at least %d", e.Length, MinJobDescriptionLen)
}

// TextExtractor produces plain text from a stored document blob.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// BlobReader reads an uploaded file by its stored path.
type BlobReader interface {
	Read(path string) ([]byte, error)
}

// RankedCandidate pairs a candidate with the scoring record produced for it.
type RankedCandidate struct {
	Candidate types.CandidateContext `json:"candidate"`
	Record    types.ScoringRecord    `json:"record"`
}

// Ranker runs extract -> prompt -> score -> parse for each candidate in a
// batch and ranks the outcomes.
type Ranker struct {
	extractor TextExtractor
	blobs     BlobReader
	scorer    scoring.Scorer

	// failFast aborts the whole batch on the first candidate failure instead
	// of skipping the candidate and continuing.
	failFast bool
	// workers > 1 scores candidates concurrently with a bounded pool. The
	// ranking order is identical either way: results are collected by input
	// index, so completion order never affects the tie-break.
	workers int
}

// Options tunes batch behavior.
type Options struct {
	FailFast bool
	Workers  int
}

// NewRanker creates a ranker over the given collaborators.
func NewRanker(extractor TextExtractor, blobs BlobReader, scorer scoring.Scorer, opts Options) *Ranker {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Ranker{
		extractor: extractor,
		blobs:     blobs,
		scorer:    scorer,
		failFast:  opts.FailFast,
		workers:   workers,
	}
}

// ScoreCandidate runs the full pipeline for a single candidate. The job
// description precondition is checked first so a bad request never costs a
// network call.
func (r *Ranker) ScoreCandidate(ctx context.Context, job types.JobContext, candidate types.CandidateContext) (types.ScoringRecord, error) {
	if len(job.Description) < MinJobDescriptionLen {
		return types.ScoringRecord{}, &ErrJobDescriptionTooShort{Length: len(job.Description)}
	}

	data, err := r.blobs.Read(candidate.CVPath)
	if err != nil {
		// A missing or unreadable blob is indistinguishable from a corrupt
		// upload as far as the caller is concerned.
		return types.ScoringRecord{}, &extract.ErrDocumentFormat{Err: err}
	}

	cvText, err := r.extractor.ExtractText(data)
	if err != nil {
		return types.ScoringRecord{}, err
	}

	prompt := scoring.BuildMatchPrompt(cvText, candidate.ProfileText, job.Title, job.Description)

	raw, err := r.scorer.Score(ctx, prompt)
	if err != nil {
		return types.ScoringRecord{}, err
	}

	return scoring.ParseRecord(raw), nil
}

// RankTop scores every candidate and returns the top N by match score.
// The sort is stable and descending: ties keep the order in which the
// candidates arrived. N greater than the number of scored candidates
// returns all of them.
func (r *Ranker) RankTop(ctx context.Context, job types.JobContext, candidates []types.CandidateContext, topN int) ([]RankedCandidate, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if len(job.Description) < MinJobDescriptionLen {
		return nil, &ErrJobDescriptionTooShort{Length: len(job.Description)}
	}

	results, err := r.scoreBatch(ctx, job, candidates)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedCandidate, 0, len(results))
	for _, result := range results {
		if result != nil {
			ranked = append(ranked, *result)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Record.MatchScore > ranked[j].Record.MatchScore
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}

// scoreBatch produces one result slot per candidate, in arrival order.
// Failed candidates leave a nil slot unless failFast is set.
func (r *Ranker) scoreBatch(ctx context.Context, job types.JobContext, candidates []types.CandidateContext) ([]*RankedCandidate, error) {
	results := make([]*RankedCandidate, len(candidates))

	if r.workers <= 1 {
		for i, candidate := range candidates {
			record, err := r.ScoreCandidate(ctx, job, candidate)
			if err != nil {
				if r.failFast {
					return nil, fmt.Errorf("candidate %s: %w", candidate.Email, err)
				}
				log.Printf("skipping candidate %s: %v", candidate.Email, err)
				continue
			}
			results[i] = &RankedCandidate{Candidate: candidate, Record: record}
		}
		return results, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)
	for i, candidate := range candidates {
		group.Go(func() error {
			record, err := r.ScoreCandidate(groupCtx, job, candidate)
			if err != nil {
				if r.failFast {
					return fmt.Errorf("candidate %s: %w", candidate.Email, err)
				}
				log.Printf("skipping candidate %s: %v", candidate.Email, err)
				return nil
			}
			results[i] = &RankedCandidate{Candidate: candidate, Record: record}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
