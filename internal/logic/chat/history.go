package chat

import "github.com/taskpilot/taskpilot/internal/db"

// historyScanLimit bounds how many rows the windower ever pulls from the
// store; the token budget is the real cutoff.
const historyScanLimit = 200

// EstimateTokens approximates the model token cost of a text. Rough 4
// chars per token, with a floor of one token per message so empty
// messages still carry weight. Deterministic and monotonic in the input.
func EstimateTokens(content string) int {
	return len(content)/4 + 1
}

// WindowMessages walks messages (newest first) accumulating estimated
// token cost, stops before the budget would be exceeded, and returns the
// kept slice in chronological order.
//
// If the single newest message alone exceeds the budget it is returned
// anyway: a non-empty conversation never yields an empty window.
func WindowMessages(newestFirst []*db.Message, tokenBudget int) []*db.Message {
	kept := make([]*db.Message, 0, len(newestFirst))
	total := 0

	for i, msg := range newestFirst {
		cost := EstimateTokens(msg.Content)
		if total+cost > tokenBudget {
			if i == 0 {
				kept = append(kept, msg)
			}
			break
		}
		kept = append(kept, msg)
		total += cost
	}

	// Reverse to chronological order
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}
