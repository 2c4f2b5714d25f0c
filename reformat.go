// Package reformat explores how surface-level prompt formatting affects a
// language model's answers. It provides a rule-based reformatting engine
// built from four orthogonal axes (separators, casing, item wrapping,
// enumeration), structured prompt templates that compose them, and a
// randomized search loop that samples rule combinations and scores them with
// an LLM judge against an unformatted baseline.
//
// This file is a thin facade over the subpackages; the types re-exported
// here form the public surface most callers need.
package reformat

import (
	"github.com/promptlab/reformat/config"
	"github.com/promptlab/reformat/improver"
	"github.com/promptlab/reformat/llm"
	"github.com/promptlab/reformat/providers"
	"github.com/promptlab/reformat/reformatter"
	"github.com/promptlab/reformat/rules"
	"github.com/promptlab/reformat/template"
	"github.com/promptlab/reformat/utils"
)

// Core types.
type (
	Reformatter  = reformatter.Reformatter
	FormatResult = reformatter.Result
	Improver     = improver.Improver
	Candidate    = improver.Candidate
	SearchResult = improver.SearchResult
	Selection    = rules.Selection
	Profile      = rules.Profile
	Template     = template.Template
	Values       = template.Values
	Example      = template.Example
	Config       = config.Config
	Logger       = utils.Logger
)

// Rule types.
type (
	SeparatorRule      = rules.SeparatorRule
	CasingRule         = rules.CasingRule
	ItemFormattingRule = rules.ItemFormattingRule
	EnumerationRule    = rules.EnumerationRule
)

// Reformatter construction.
var (
	NewReformatter = reformatter.New
	WithSelection  = reformatter.WithSelection
	WithTemplate   = reformatter.WithTemplate
	WithLogger     = reformatter.WithLogger
)

// Catalog access.
var (
	DefaultSeparatorRules      = rules.DefaultSeparatorRules
	DefaultCasingRules         = rules.DefaultCasingRules
	DefaultItemFormattingRules = rules.DefaultItemFormattingRules
	DefaultEnumerationRules    = rules.DefaultEnumerationRules
	NewSelection               = rules.NewSelection
	GetProfile                 = rules.GetProfile
	GetTemplate                = template.Get
)

// Search construction.
var (
	NewImprover      = improver.New
	NewBatchImprover = improver.NewBatchImprover
	WithIterations   = improver.WithIterations
	WithCandidates   = improver.WithCandidates
	WithSeed         = improver.WithSeed
)

// NewClient builds a collaborator client for cfg's primary provider using
// the full provider registry.
func NewClient(cfg *config.Config, logger utils.Logger) (llm.Client, error) {
	return llm.NewClient(cfg, logger, providers.NewRegistry())
}

// NewJudgeClient builds a collaborator client for cfg's judge provider.
func NewJudgeClient(cfg *config.Config, logger utils.Logger) (llm.Client, error) {
	return llm.NewJudgeClient(cfg, logger, providers.NewRegistry())
}
