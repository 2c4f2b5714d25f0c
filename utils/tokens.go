package utils

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// EstimateTokens returns the token count of text under the given model's
// encoding. Collaborator calls are the dominant cost of a search run, so the
// estimate is logged before the run starts to let callers budget against
// iterations x candidates. Unknown models fall back to cl100k_base, and if
// no encoder is available at all a rough words*4/3 heuristic is used.
func EstimateTokens(text, model string) int {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		return len(strings.Fields(text)) * 4 / 3
	}
	return len(encoding.Encode(text, nil, nil))
}
