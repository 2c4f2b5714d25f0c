package improver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// BatchImprover evaluates a run's candidates concurrently. Candidate cycles
// have no data dependency on each other beyond the shared baseline, so they
// can proceed in parallel; the rate limiter keeps the provider happy. Ties
// are broken by lowest submission index, which matches the sequential
// first-seen rule.
type BatchImprover struct {
	improver    *Improver
	rateLimiter *rate.Limiter
}

// NewBatchImprover wraps an Improver for concurrent candidate evaluation.
func NewBatchImprover(improver *Improver) *BatchImprover {
	return &BatchImprover{
		improver:    improver,
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// SetRateLimit adjusts the limiter applied before each candidate's cycle.
func (b *BatchImprover) SetRateLimit(r rate.Limit, burst int) {
	b.rateLimiter = rate.NewLimiter(r, burst)
}

// Improve runs the same search as Improver.Improve with concurrent
// candidate evaluation.
func (b *BatchImprover) Improve(ctx context.Context, input any) (*SearchResult, error) {
	im := b.improver

	originalPrompt, err := im.baseline(input)
	if err != nil {
		return nil, err
	}

	originalResponse, err := im.target.Complete(ctx, im.systemPrompt, originalPrompt, 0)
	if err != nil {
		return nil, fmt.Errorf("baseline completion failed: %w", err)
	}

	total := im.iterations * im.candidates
	im.logger.Info("Starting concurrent format search", "total_candidates", total)

	// Candidates are sampled up front on the run's single RNG; only their
	// evaluation is concurrent.
	candidates := make([]Candidate, total)
	for i := range candidates {
		candidates[i] = im.sampleCandidate()
	}

	evaluations := make([]*evaluation, total)
	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate Candidate) {
			defer wg.Done()

			if err := b.rateLimiter.Wait(ctx); err != nil {
				im.logger.Warn("Candidate skipped", "index", i+1, "error", err)
				return
			}

			eval, err := im.evaluate(ctx, input, candidate, originalPrompt, originalResponse)
			if err != nil {
				im.logger.Warn("Candidate skipped", "index", i+1, "error", err)
				return
			}
			evaluations[i] = eval
		}(i, candidate)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Single aggregation pass in submission order.
	var best *evaluation
	bestScore := negInf
	var allScores []float64
	evaluated := 0
	for i, eval := range evaluations {
		if eval == nil {
			continue
		}
		evaluated++
		allScores = append(allScores, eval.score)
		im.debug.SaveCandidate(i+1, eval.candidate)
		if eval.score > bestScore {
			bestScore = eval.score
			best = eval
		}
	}

	result := &SearchResult{
		OriginalPrompt:   originalPrompt,
		OriginalResponse: originalResponse,
		NumCandidates:    evaluated,
		AllScores:        allScores,
	}
	if best == nil {
		result.ImprovedPrompt = originalPrompt
		result.ImprovedResponse = originalResponse
		result.Note = NoImprovement
	} else {
		result.ImprovedPrompt = best.prompt
		result.ImprovedResponse = best.response
		result.ImprovementScore = best.score
		result.BestFormat = best.candidate.Summary()
	}

	if err := validate.Struct(result); err != nil {
		return nil, fmt.Errorf("invalid search result: %w", err)
	}
	return result, nil
}
