package agent

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
	encErr  error
)

func encoding() (*tiktoken.Tiktoken, error) {
	encOnce.Do(func() {
		enc, encErr = tiktoken.GetEncoding("cl100k_base")
	})
	return enc, encErr
}

// estimateTokens counts s's tokens for the refinement token-budget cap. It
// is used as a fallback whenever a Model response does not itself report
// usage (llm.Response.Usage left zero) - some providers never populate it,
// and the budget must still be enforced rather than silently disabled.
func estimateTokens(s string) int {
	e, err := encoding()
	if err != nil {
		// Fall back to a rough character-based estimate (about four
		// characters per token) rather than letting the budget cap become
		// a no-op.
		return len(s) / 4
	}
	return len(e.Encode(s, nil, nil))
}
