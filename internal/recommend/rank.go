package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/scoutmcp/scout/internal/catalog"
	"github.com/scoutmcp/scout/internal/filter"
)

const (
	// maxRankCandidates bounds how many candidates are presented to the
	// completion service for ranking.
	maxRankCandidates = 10

	// minHeuristicScore is the cut-off below which heuristic candidates are
	// discarded as noise.
	minHeuristicScore = 0.1

	// Weighted token-overlap contributions for the heuristic path.
	weightQualifiedName = 0.3
	weightDisplayName   = 0.2
	weightDescription   = 0.1

	// Flat bonuses for the heuristic path.
	bonusVerified     = 0.1
	bonusPopular      = 0.1
	bonusRemote       = 0.05
	popularUseCount   = 1000
	maxDescriptionLen = 100

	rankPrompt = `You are ranking MCP (Model Context Protocol) servers by relevance to a user request.

Request: "%s"

Candidates:
%s

Return ONLY a JSON array of objects {"index": <candidate number>, "score": <0-100>, "reasoning": "<short reason>"} for candidates scoring above 30, sorted by score descending.`
)

// rankServers orders candidates by relevance to the query. The AI-assisted
// path is attempted first; any parse or service failure triggers the
// deterministic weighted token-overlap heuristic. Both paths produce the same
// output shape so callers are agnostic to which ran.
func (e *Engine) rankServers(ctx context.Context, query string, servers []catalog.Server) ([]RankedServer, Method) {
	ranked, err := e.aiRank(ctx, query, servers)
	if err == nil && len(ranked) > 0 {
		return ranked, MethodAIAssisted
	}
	if err != nil {
		e.logger.Debug("AI ranking unavailable, using heuristics", "error", err)
	}

	return heuristicRank(query, servers), MethodHeuristic
}

// aiRankItem is one entry of the completion service's ranking response.
type aiRankItem struct {
	Index     int     `json:"index"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// aiRank asks the completion service to score the candidates.
func (e *Engine) aiRank(ctx context.Context, query string, servers []catalog.Server) ([]RankedServer, error) {
	candidates := servers
	if len(candidates) > maxRankCandidates {
		candidates = candidates[:maxRankCandidates]
	}

	var summaries strings.Builder
	for i, s := range candidates {
		fmt.Fprintf(&summaries, "%d. %s: %s\n", i, s.QualifiedName, truncate(s.Description, maxDescriptionLen))
	}

	response, err := e.complete(ctx, fmt.Sprintf(rankPrompt, query, summaries.String()))
	if err != nil {
		return nil, err
	}

	var items []aiRankItem
	if err := unmarshalFirstJSONArray(response, &items); err != nil {
		return nil, fmt.Errorf("failed to parse ranking response: %w", err)
	}

	ranked := make([]RankedServer, 0, len(items))
	for _, item := range items {
		// Out-of-range indices are discarded, not treated as failure.
		if item.Index < 0 || item.Index >= len(candidates) {
			continue
		}
		ranked = append(ranked, RankedServer{
			Server:    candidates[item.Index],
			Score:     clampScore(item.Score / 100),
			Reasoning: item.Reasoning,
		})
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("ranking response contained no usable entries")
	}

	sortByScore(ranked)

	return ranked, nil
}

// heuristicRank scores candidates by weighted token overlap with the query
// plus flat bonuses for trust signals. Candidates scoring at or below the
// minimum are discarded.
func heuristicRank(query string, servers []catalog.Server) []RankedServer {
	tokens := filter.Tokenize(query)

	ranked := make([]RankedServer, 0, len(servers))
	for _, s := range servers {
		score := 0.0
		var matched []string

		for _, token := range tokens {
			tokenMatched := false
			if filter.ContainsFold(s.QualifiedName, token) {
				score += weightQualifiedName
				tokenMatched = true
			}
			if filter.ContainsFold(s.DisplayName, token) {
				score += weightDisplayName
				tokenMatched = true
			}
			if filter.ContainsFold(s.Description, token) {
				score += weightDescription
				tokenMatched = true
			}
			if tokenMatched {
				matched = append(matched, token)
			}
		}

		var signals []string
		if s.IsVerified {
			score += bonusVerified
			signals = append(signals, "verified publisher")
		}
		if s.UseCount > popularUseCount {
			score += bonusPopular
			signals = append(signals, "widely used")
		}
		if s.IsRemote {
			score += bonusRemote
			signals = append(signals, "remotely hosted")
		}

		score = clampScore(score)
		if score <= minHeuristicScore {
			continue
		}

		ranked = append(ranked, RankedServer{
			Server:          s,
			Score:           score,
			Reasoning:       heuristicReasoning(matched, signals),
			MatchedKeywords: matched,
		})
	}

	sortByScore(ranked)

	return ranked
}

// sortByScore sorts descending by score; the sort is stable so ties keep
// their original discovery order.
func sortByScore(ranked []RankedServer) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
}

func heuristicReasoning(matched, signals []string) string {
	var parts []string
	if len(matched) > 0 {
		parts = append(parts, "matched: "+strings.Join(matched, ", "))
	}
	if len(signals) > 0 {
		parts = append(parts, strings.Join(signals, ", "))
	}
	if len(parts) == 0 {
		return "weak match"
	}
	return strings.Join(parts, "; ")
}

func clampScore(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

// truncate shortens s to at most n runes, never splitting a multi-byte rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
