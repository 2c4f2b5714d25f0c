// Package improver performs a fixed-size randomized search over the
// Cartesian product of the formatting rule catalogs: it samples rule
// combinations, renders candidate prompts, obtains collaborator responses,
// has a judge collaborator score each response against a fixed baseline, and
// tracks the best combination found.
package improver

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/promptlab/reformat/llm"
	"github.com/promptlab/reformat/reformatter"
	"github.com/promptlab/reformat/rules"
	"github.com/promptlab/reformat/template"
	"github.com/promptlab/reformat/utils"
)

const (
	DefaultIterations = 3
	DefaultCandidates = 10

	defaultSystemPrompt = "You are a helpful AI assistant."
)

var validate = validator.New()

// Improver runs the format search. Each Improver owns its rule catalogs,
// template, and RNG; nothing is shared across runs.
type Improver struct {
	target       llm.Client
	judge        llm.Client
	template     *template.Template
	logger       utils.Logger
	debug        *utils.DebugManager
	rng          *rand.Rand
	iterations   int
	candidates   int
	systemPrompt string
}

// Option configures an Improver.
type Option func(*Improver)

// WithIterations sets the number of search iterations.
func WithIterations(iterations int) Option {
	return func(im *Improver) {
		im.iterations = iterations
	}
}

// WithCandidates sets the number of candidates sampled per iteration.
func WithCandidates(candidates int) Option {
	return func(im *Improver) {
		im.candidates = candidates
	}
}

// WithTemplate sets the prompt template used for rendering.
func WithTemplate(t *template.Template) Option {
	return func(im *Improver) {
		im.template = t
	}
}

// WithSystemPrompt sets the system prompt sent with every completion call.
func WithSystemPrompt(prompt string) Option {
	return func(im *Improver) {
		im.systemPrompt = prompt
	}
}

// WithLogger sets the logger.
func WithLogger(logger utils.Logger) Option {
	return func(im *Improver) {
		im.logger = logger
	}
}

// WithDebugManager sets the run-artifact manager.
func WithDebugManager(debug *utils.DebugManager) Option {
	return func(im *Improver) {
		im.debug = debug
	}
}

// WithSeed makes candidate sampling reproducible.
func WithSeed(seed int64) Option {
	return func(im *Improver) {
		im.rng = rand.New(rand.NewSource(seed))
	}
}

// New creates an Improver searching with the given target and judge
// collaborators. The judge may be the same client as the target.
func New(target, judge llm.Client, opts ...Option) *Improver {
	generalTemplate, _ := template.Get("general")
	im := &Improver{
		target:       target,
		judge:        judge,
		template:     generalTemplate,
		logger:       utils.NewLogger(utils.LogLevelWarn),
		debug:        utils.NewDebugManager(utils.DebugOptions{}),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		iterations:   DefaultIterations,
		candidates:   DefaultCandidates,
		systemPrompt: defaultSystemPrompt,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// sampleCandidate draws one rule uniformly at random from each axis's
// default catalog.
func (im *Improver) sampleCandidate() Candidate {
	separators := rules.DefaultSeparatorRules()
	casings := rules.DefaultCasingRules()
	items := rules.DefaultItemFormattingRules()
	enums := rules.DefaultEnumerationRules()

	return Candidate{
		Separator:      separators[im.rng.Intn(len(separators))],
		Casing:         casings[im.rng.Intn(len(casings))],
		ItemFormatting: items[im.rng.Intn(len(items))],
		Enumeration:    enums[im.rng.Intn(len(enums))],
	}
}

// render builds a transient reformatter configured with exactly the
// candidate's one-rule-per-axis selection and renders the input under it.
func (im *Improver) render(input any, candidate Candidate) (string, error) {
	r := reformatter.New(
		reformatter.WithTemplate(im.template),
		reformatter.WithSelection(candidate.Selection()),
		reformatter.WithLogger(im.logger),
	)
	result, err := r.Format(input)
	if err != nil {
		return "", err
	}
	return result.Formatted, nil
}

// baseline renders the canonical unformatted prompt for input. For raw text
// the text itself is the baseline.
func (im *Improver) baseline(input any) (string, error) {
	r := reformatter.New(
		reformatter.WithTemplate(im.template),
		reformatter.WithLogger(im.logger),
	)
	result, err := r.Format(input)
	if err != nil {
		return "", err
	}
	return result.Original, nil
}

// evaluate runs one candidate's full cycle: render, completion call, judge
// call. Any collaborator failure aborts just this candidate.
func (im *Improver) evaluate(ctx context.Context, input any, candidate Candidate, originalPrompt, originalResponse string) (*evaluation, error) {
	prompt, err := im.render(input, candidate)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}

	response, err := im.target.Complete(ctx, im.systemPrompt, prompt, 0)
	if err != nil {
		return nil, fmt.Errorf("completion call failed: %w", err)
	}

	score, err := im.judgeScore(ctx, originalPrompt, originalResponse, response)
	if err != nil {
		return nil, fmt.Errorf("judge call failed: %w", err)
	}

	candidate.Score = &score
	return &evaluation{
		candidate: candidate,
		prompt:    prompt,
		response:  response,
		score:     score,
	}, nil
}

// Improve searches iterations x candidates rule combinations for one that
// improves the collaborator's response over the unformatted baseline. The
// baseline response is obtained exactly once and anchors every candidate's
// judge score. Collaborator failures skip the affected candidate; the run
// aborts only when the baseline call fails or ctx is canceled.
//
// Cost: 1 + iterations*candidates*2 collaborator calls.
func (im *Improver) Improve(ctx context.Context, input any) (*SearchResult, error) {
	originalPrompt, err := im.baseline(input)
	if err != nil {
		return nil, err
	}

	im.logger.Info("Starting format search",
		"iterations", im.iterations,
		"candidates_per_iteration", im.candidates,
		"prompt_tokens", utils.EstimateTokens(originalPrompt, im.target.Model()),
	)
	im.debug.LogPrompt("baseline", originalPrompt)

	originalResponse, err := im.target.Complete(ctx, im.systemPrompt, originalPrompt, 0)
	if err != nil {
		return nil, fmt.Errorf("baseline completion failed: %w", err)
	}
	im.debug.LogResponse("baseline", originalResponse)

	var best *evaluation
	bestScore := negInf
	var allScores []float64
	evaluated := 0
	index := 0

	for iteration := 0; iteration < im.iterations; iteration++ {
		im.logger.Info("Starting iteration", "iteration", iteration+1, "total", im.iterations)

		for c := 0; c < im.candidates; c++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			index++

			candidate := im.sampleCandidate()
			eval, err := im.evaluate(ctx, input, candidate, originalPrompt, originalResponse)
			if err != nil {
				im.logger.Warn("Candidate skipped", "index", index, "error", err)
				continue
			}

			evaluated++
			allScores = append(allScores, eval.score)
			im.debug.SaveCandidate(index, eval.candidate)

			if eval.score > bestScore {
				bestScore = eval.score
				best = eval
				im.logger.Info("New best score", "score", fmt.Sprintf("%.3f", bestScore), "format", eval.candidate.Summary())
			}
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
