package recommend

import (
	"context"
	"fmt"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

// fakeCompletion scripts the completion service for tests.
type fakeCompletion struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeCompletion) Complete(_ context.Context, promptText string) (string, error) {
	f.prompts = append(f.prompts, promptText)
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("no scripted response")
	}
	response := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return response, nil
}

func (f *fakeCompletion) Configured() bool { return true }

func TestHeuristicKeywords(t *testing.T) {
	t.Parallel()

	tc := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "screenshot implies playwright",
			query: "I need to take a screenshot of a webpage",
			want:  []string{"playwright"},
		},
		{
			name:  "multiple services in one request",
			query: "sync local files from github and post to slack",
			want:  []string{"github", "slack", "filesystem"},
		},
		{
			name:  "no trigger falls back to tokenization",
			query: "help me translate ancient manuscripts",
			want:  []string{"translate", "ancient", "manuscripts"},
		},
		{
			name:  "stop words and short tokens dropped",
			query: "I want to do it",
			want:  nil,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := heuristicKeywords(tt.query)
			if len(tt.want) == 0 {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestHeuristicKeywords_CappedAtFive(t *testing.T) {
	t.Parallel()

	query := "github gitlab slack playwright postgres sqlite mysql redis"
	got := heuristicKeywords(query)
	require.Len(t, got, 5)
}

func TestExtractKeywords_AIPath(t *testing.T) {
	t.Parallel()

	engine := NewEngine(hclog.NewNullLogger(), &fakeSearcher{}, &fakeCompletion{
		responses: []string{`Here you go: ["github", "pull request", ""] done`},
	})

	keywords, method := engine.extractKeywords(t.Context(), "review my PRs")
	require.Equal(t, MethodAIAssisted, method)
	require.Equal(t, []string{"github", "pull request"}, keywords)
}

func TestExtractKeywords_FallsBackOnFailure(t *testing.T) {
	t.Parallel()

	tc := []struct {
		name       string
		completion *fakeCompletion
	}{
		{
			name:       "service error",
			completion: &fakeCompletion{err: fmt.Errorf("boom")},
		},
		{
			name:       "non-JSON response",
			completion: &fakeCompletion{responses: []string{"I cannot help with that."}},
		},
		{
			name:       "empty array",
			completion: &fakeCompletion{responses: []string{"[]"}},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			engine := NewEngine(hclog.NewNullLogger(), &fakeSearcher{}, tt.completion)

			keywords, method := engine.extractKeywords(t.Context(), "take a screenshot")
			require.Equal(t, MethodHeuristic, method)
			require.Equal(t, []string{"playwright"}, keywords)
		})
	}
}

func TestUnmarshalFirstJSONArray(t *testing.T) {
	t.Parallel()

	tc := []struct {
		name    string
		text    string
		want    []string
		wantErr bool
	}{
		{
			name: "bare array",
			text: `["a","b"]`,
			want: []string{"a", "b"},
		},
		{
			name: "array wrapped in prose and fences",
			text: "Sure!\n```json\n[\"a\"]\n```\n",
			want: []string{"a"},
		},
		{
			name:    "no array",
			text:    "nothing here",
			wantErr: true,
		},
		{
			name:    "reversed brackets",
			text:    "] oops [",
			wantErr: true,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []string
			err := unmarshalFirstJSONArray(tt.text, &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
