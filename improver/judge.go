package improver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const judgeSystemPrompt = "You are an expert evaluating response quality."

const judgePromptFormat = `Compare and evaluate these two responses to determine if the second response is better than the first.

Prompt:
%s

Response 1:
%s

Response 2:
%s

Consider the following criteria:
1. Accuracy and correctness of information
2. Completeness of the answer
3. Relevance to the query
4. Clarity and coherence of the response

Rate how much better Response 2 is compared to Response 1 on a scale from 0 to 1, where:
0 = Response 2 is worse or equal to Response 1
1 = Response 2 is significantly better than Response 1

Provide only the numerical score (e.g., 0.85) without any explanation.`

// scoreResponse is the structured judge reply used when the judge provider
// supports schema-constrained output.
type scoreResponse struct {
	Score float64 `json:"score" jsonschema:"minimum=0,maximum=1"`
}

// judgeScore asks the judge collaborator to rate a candidate response
// against the baseline and returns the score clamped to [0, 1]. A reply
// that cannot be parsed is a recoverable judge-format error: the candidate
// is scored 0.0, the event is logged, and the search continues. A transport
// failure is returned to the caller, which skips the candidate.
func (im *Improver) judgeScore(ctx context.Context, originalPrompt, originalResponse, candidateResponse string) (float64, error) {
	prompt := fmt.Sprintf(judgePromptFormat, originalPrompt, originalResponse, candidateResponse)

	var reply string
	var err error
	if im.judge.SupportsJSONSchema() {
		reply, err = im.judge.CompleteWithSchema(ctx, judgeSystemPrompt, prompt, 0, &scoreResponse{})
	} else {
		reply, err = im.judge.Complete(ctx, judgeSystemPrompt, prompt, 0)
	}
	if err != nil {
		return 0, err
	}

	score, parseErr := parseScore(reply)
	if parseErr != nil {
		im.logger.Error("Judge provided invalid score format", "reply", reply, "error", parseErr)
		return 0, nil
	}
	return clampScore(score), nil
}

// parseScore reads a judge reply as either a bare float literal or a
// {"score": n} JSON object.
func parseScore(reply string) (float64, error) {
	reply = strings.TrimSpace(reply)

	if score, err := strconv.ParseFloat(reply, 64); err == nil {
		return score, nil
	}

	var structured scoreResponse
	if err := json.Unmarshal([]byte(reply), &structured); err == nil && strings.Contains(reply, "score") {
		return structured.Score, nil
	}

	return 0, fmt.Errorf("not a numeric score: %q", reply)
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
