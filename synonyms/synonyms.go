// Package synonyms is a downstream post-processing filter: given a finished
// rendered prompt and historical per-word accuracy statistics, it substitutes
// words with better-performing synonyms, subject to a minimum semantic
// similarity against the original text measured by an external embedding
// collaborator. The search core never depends on this package.
package synonyms

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/promptlab/reformat/utils"
)

// Stats records how often a word led to a correct answer.
type Stats struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Accuracy returns the word's success rate, 0 for unseen words.
func (s Stats) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// Table maps each category word to the accuracy statistics of its synonyms,
// the category word itself included.
type Table map[string]map[string]Stats

// LoadTable reads a table from a JSON file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read synonym table: %w", err)
	}
	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse synonym table: %w", err)
	}
	return table, nil
}

// Embedder is the semantic-similarity collaborator.
type Embedder interface {
	// Similarity returns the cosine similarity of the two texts' embeddings.
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// DefaultThreshold is the minimum whole-text similarity a substitution must
// preserve.
const DefaultThreshold = 0.95

// Rewriter applies synonym substitutions to rendered prompts.
type Rewriter struct {
	table     Table
	embedder  Embedder
	threshold float64
	logger    utils.Logger
	category  map[string]string
}

// RewriterOption configures a Rewriter.
type RewriterOption func(*Rewriter)

// WithThreshold overrides the minimum similarity threshold.
func WithThreshold(threshold float64) RewriterOption {
	return func(rw *Rewriter) {
		rw.threshold = threshold
	}
}

// WithLogger sets the logger.
func WithLogger(logger utils.Logger) RewriterOption {
	return func(rw *Rewriter) {
		rw.logger = logger
	}
}

// NewRewriter builds a Rewriter over the given statistics table.
func NewRewriter(table Table, embedder Embedder, opts ...RewriterOption) *Rewriter {
	// Reverse lookup: each synonym points back at its category word.
	category := make(map[string]string)
	for cat, entries := range table {
		for synonym := range entries {
			category[synonym] = cat
		}
	}

	rw := &Rewriter{
		table:     table,
		embedder:  embedder,
		threshold: DefaultThreshold,
		logger:    utils.NewLogger(utils.LogLevelWarn),
		category:  category,
	}
	for _, opt := range opts {
		opt(rw)
	}
	return rw
}

type ranked struct {
	word     string
	accuracy float64
}

// Apply substitutes words in text with higher-performing synonyms. For each
// word found in the table, synonyms with strictly better accuracy are tried
// in descending order; the first whose substituted text stays within the
// similarity threshold of the original wins. Words absent from the table are
// left alone.
func (rw *Rewriter) Apply(ctx context.Context, text string) (string, error) {
	words := strings.Fields(text)
	augmented := make([]string, len(words))
	copy(augmented, words)

	for idx, word := range words {
		cat, ok := rw.categoryFor(word)
		if !ok {
			continue
		}
		entries := rw.table[cat]
		current, ok := entries[word]
		if !ok {
			continue
		}

		var better []ranked
		for synonym, stats := range entries {
			if synonym != word && stats.Accuracy() > current.Accuracy() {
				better = append(better, ranked{word: synonym, accuracy: stats.Accuracy()})
			}
		}
		sort.Slice(better, func(i, j int) bool {
			if better[i].accuracy != better[j].accuracy {
				return better[i].accuracy > better[j].accuracy
			}
			return better[i].word < better[j].word
		})

		for _, candidate := range better {
			trial := make([]string, len(augmented))
			copy(trial, augmented)
			trial[idx] = candidate.word

			similarity, err := rw.embedder.Similarity(ctx, strings.Join(words, " "), strings.Join(trial, " "))
			if err != nil {
				return "", fmt.Errorf("similarity check failed: %w", err)
			}
			if similarity >= rw.threshold {
				rw.logger.Debug("Substituted word", "from", word, "to", candidate.word, "similarity", similarity)
				augmented[idx] = candidate.word
				break
			}
		}
	}

	return strings.Join(augmented, " "), nil
}

func (rw *Rewriter) categoryFor(word string) (string, bool) {
	if _, ok := rw.table[word]; ok {
		return word, true
	}
	cat, ok := rw.category[word]
	return cat, ok
}
