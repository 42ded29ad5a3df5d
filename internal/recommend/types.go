package recommend

import (
	"github.com/scoutmcp/scout/internal/catalog"
)

// Method identifies which path produced keywords or rankings.
type Method string

const (
	// MethodAIAssisted marks output derived from the completion service.
	MethodAIAssisted Method = "ai-assisted"

	// MethodHeuristic marks output from the deterministic fallback path.
	MethodHeuristic Method = "heuristic"
)

// RankedServer wraps one catalog server with its relevance ranking.
type RankedServer struct {
	Server catalog.Server `json:"server"`

	// Score is the relevance score, clamped to [0,1].
	Score float64 `json:"score"`

	// Reasoning is a short human-readable explanation of the score.
	Reasoning string `json:"reasoning,omitempty"`

	// MatchedKeywords lists the query tokens that matched this server.
	// May be empty, notably on the AI-assisted path.
	MatchedKeywords []string `json:"matchedKeywords,omitempty"`
}

// Result is the outcome of one recommendation request.
type Result struct {
	// Query is the original free-form request text.
	Query string `json:"query"`

	// Recommendations is sorted by score descending, ties broken by original
	// discovery order. At most five entries.
	Recommendations []RankedServer `json:"recommendations"`

	// Method reports how the search keywords were derived, so callers can
	// distinguish AI-derived from deterministic recommendations.
	Method Method `json:"method"`

	// Confidence is the top candidate's score, discounted when the
	// deterministic ranking fallback ran. Clamped to [0,1].
	Confidence float64 `json:"confidence"`

	// SearchKeywords are the keywords actually used for the catalog fan-out.
	SearchKeywords []string `json:"searchKeywords"`

	// Error is set only when Recommendations is empty and the cause is a
	// pipeline dead end rather than genuinely empty rankings.
	Error string `json:"error,omitempty"`
}
