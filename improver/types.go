package improver

import (
	"math"

	"github.com/promptlab/reformat/rules"
)

// Candidate is one sampled rule combination, one rule per axis, with its
// judge score once evaluated. Candidates are never mutated after scoring.
type Candidate struct {
	Separator      rules.SeparatorRule      `json:"separator_rule"`
	Casing         rules.CasingRule         `json:"casing_rule"`
	ItemFormatting rules.ItemFormattingRule `json:"item_formatting_rule"`
	Enumeration    rules.EnumerationRule    `json:"enumeration_rule"`
	Score          *float64                 `json:"score,omitempty" validate:"omitempty,min=0,max=1"`
}

// Selection builds a one-rule-per-axis selection for rendering the candidate.
func (c Candidate) Selection() *rules.Selection {
	return rules.NewSelectionFromRules(
		[]rules.SeparatorRule{c.Separator},
		[]rules.CasingRule{c.Casing},
		[]rules.ItemFormattingRule{c.ItemFormatting},
		[]rules.EnumerationRule{c.Enumeration},
	)
}

// Summary reports the candidate's rule name per axis.
func (c Candidate) Summary() map[string]string {
	return c.Selection().Summary()
}

// NoImprovement is the BestFormat sentinel reported when no candidate could
// be evaluated.
const NoImprovement = "no candidates succeeded"

// SearchResult aggregates one full search run. Built once per Improve call
// and read-only thereafter.
type SearchResult struct {
	OriginalPrompt   string            `json:"original_prompt"`
	OriginalResponse string            `json:"original_response"`
	ImprovedPrompt   string            `json:"improved_prompt"`
	ImprovedResponse string            `json:"improved_response"`
	ImprovementScore float64           `json:"improvement_score" validate:"min=0,max=1"`
	BestFormat       map[string]string `json:"best_format"`
	NumCandidates    int               `json:"num_candidates_evaluated" validate:"min=0"`
	AllScores        []float64         `json:"all_scores" validate:"dive,min=0,max=1"`
	Note             string            `json:"note,omitempty"`
}

// evaluation pairs a scored candidate with the artifacts its score was
// derived from.
type evaluation struct {
	candidate Candidate
	prompt    string
	response  string
	score     float64
}

// negInf initializes best-score tracking so the first evaluated candidate
// always becomes the current best.
var negInf = math.Inf(-1)
