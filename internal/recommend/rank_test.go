package recommend

import (
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/scoutmcp/scout/internal/catalog"
)

func TestHeuristicRank(t *testing.T) {
	t.Parallel()

	servers := []catalog.Server{
		{
			QualifiedName: "owner/github-server",
			DisplayName:   "GitHub",
			Description:   "Work with GitHub repositories",
		},
		{
			QualifiedName: "owner/unrelated",
			DisplayName:   "Weather",
			Description:   "Weather forecasts",
		},
	}

	ranked := heuristicRank("manage github issues", servers)

	require.Len(t, ranked, 1, "unrelated server scores below the cut-off")
	require.Equal(t, "owner/github-server", ranked[0].Server.QualifiedName)
	require.Contains(t, ranked[0].MatchedKeywords, "github")
	require.Contains(t, ranked[0].Reasoning, "matched: github")

	// "github" matches qualified name, display name and description.
	require.InDelta(t, 0.6, ranked[0].Score, 1e-9)
}

func TestHeuristicRank_TrustSignalBonuses(t *testing.T) {
	t.Parallel()

	base := catalog.Server{
		QualifiedName: "owner/github",
		DisplayName:   "plain",
		Description:   "",
	}

	verified := base
	verified.QualifiedName = "owner/github-verified"
	verified.IsVerified = true

	popular := base
	popular.QualifiedName = "owner/github-popular"
	popular.UseCount = 1001

	remote := base
	remote.QualifiedName = "owner/github-remote"
	remote.IsRemote = true

	ranked := heuristicRank("github", []catalog.Server{base, verified, popular, remote})
	require.Len(t, ranked, 4)

	scores := make(map[string]float64, len(ranked))
	for _, r := range ranked {
		scores[r.Server.QualifiedName] = r.Score
	}

	require.InDelta(t, 0.3, scores["owner/github"], 1e-9)
	require.InDelta(t, 0.4, scores["owner/github-verified"], 1e-9)
	require.InDelta(t, 0.4, scores["owner/github-popular"], 1e-9)
	require.InDelta(t, 0.35, scores["owner/github-remote"], 1e-9)
}

func TestHeuristicRank_UseCountBoundary(t *testing.T) {
	t.Parallel()

	atThreshold := catalog.Server{QualifiedName: "owner/github-a", UseCount: 1000}
	overThreshold := catalog.Server{QualifiedName: "owner/github-b", UseCount: 1001}

	ranked := heuristicRank("github", []catalog.Server{atThreshold, overThreshold})
	require.Len(t, ranked, 2)

	// The popularity bonus requires strictly more than 1000 uses.
	require.Equal(t, "owner/github-b", ranked[0].Server.QualifiedName)
	require.InDelta(t, 0.4, ranked[0].Score, 1e-9)
	require.InDelta(t, 0.3, ranked[1].Score, 1e-9)
}

func TestHeuristicRank_ScoreClampedToOne(t *testing.T) {
	t.Parallel()

	server := catalog.Server{
		QualifiedName: "owner/github-slack-postgres",
		DisplayName:   "github slack postgres",
		Description:   "github slack postgres everything",
		IsVerified:    true,
		IsRemote:      true,
		UseCount:      5000,
	}

	ranked := heuristicRank("github slack postgres", []catalog.Server{server})
	require.Len(t, ranked, 1)
	require.Equal(t, 1.0, ranked[0].Score)
}

func TestHeuristicRank_StableTieOrder(t *testing.T) {
	t.Parallel()

	servers := []catalog.Server{
		{QualifiedName: "owner/github-first"},
		{QualifiedName: "owner/github-second"},
		{QualifiedName: "owner/github-third"},
	}

	ranked := heuristicRank("github", servers)
	require.Len(t, ranked, 3)
	require.Equal(t, "owner/github-first", ranked[0].Server.QualifiedName)
	require.Equal(t, "owner/github-second", ranked[1].Server.QualifiedName)
	require.Equal(t, "owner/github-third", ranked[2].Server.QualifiedName)
}

func TestAIRank(t *testing.T) {
	t.Parallel()

	servers := []catalog.Server{
		{QualifiedName: "owner/a"},
		{QualifiedName: "owner/b"},
	}

	completion := &fakeCompletion{
		responses: []string{`[
			{"index": 1, "score": 90, "reasoning": "direct match"},
			{"index": 0, "score": 40, "reasoning": "partial"},
			{"index": 7, "score": 99, "reasoning": "out of range"},
			{"index": -1, "score": 99, "reasoning": "negative"}
		]`},
	}
	engine := NewEngine(hclog.NewNullLogger(), &fakeSearcher{}, completion)

	ranked, err := engine.aiRank(t.Context(), "query", servers)
	require.NoError(t, err)
	require.Len(t, ranked, 2, "out-of-range indices are discarded")

	require.Equal(t, "owner/b", ranked[0].Server.QualifiedName)
	require.InDelta(t, 0.9, ranked[0].Score, 1e-9)
	require.Equal(t, "direct match", ranked[0].Reasoning)
	require.InDelta(t, 0.4, ranked[1].Score, 1e-9)
}

func TestRankServers_FallsBackOnAIFailure(t *testing.T) {
	t.Parallel()

	servers := []catalog.Server{{QualifiedName: "owner/github"}}

	engine := NewEngine(hclog.NewNullLogger(), &fakeSearcher{}, &fakeCompletion{err: fmt.Errorf("unavailable")})

	ranked, method := engine.rankServers(t.Context(), "github", servers)
	require.Equal(t, MethodHeuristic, method)
	require.Len(t, ranked, 1)
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.0, clampScore(-0.5))
	require.Equal(t, 1.0, clampScore(1.5))
	require.Equal(t, 0.42, clampScore(0.42))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "short", truncate("short", 100))
	require.Equal(t, "abc...", truncate("abcdef", 3))

	// Multi-byte descriptions are cut on rune boundaries, never mid-rune.
	require.Equal(t, "日本語...", truncate("日本語のテキスト", 3))
	require.True(t, utf8.ValidString(truncate("héllo wörld", 6)))
}
