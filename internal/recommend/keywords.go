package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scoutmcp/scout/internal/filter"
)

const (
	// maxKeywords bounds how many search terms one query yields.
	maxKeywords = 5

	keywordPrompt = `Extract search keywords for finding MCP (Model Context Protocol) servers that could help with this request:

"%s"

Return ONLY a JSON array of 3-5 short search terms, most specific first.
Example: ["github", "pull request", "code review"]`
)

// serviceTrigger maps a known service keyword to the phrases that imply it.
// Walked in order, so more specific services come first.
type serviceTrigger struct {
	keyword  string
	triggers []string
}

var serviceTriggers = []serviceTrigger{
	{"github", []string{"github", "pull request", "git repo", "repository"}},
	{"gitlab", []string{"gitlab", "merge request"}},
	{"slack", []string{"slack", "channel message"}},
	{"playwright", []string{"playwright", "screenshot", "browser", "web page", "scrape", "website"}},
	{"puppeteer", []string{"puppeteer", "headless"}},
	{"postgres", []string{"postgres", "postgresql", "sql database"}},
	{"sqlite", []string{"sqlite"}},
	{"mysql", []string{"mysql"}},
	{"mongodb", []string{"mongodb", "mongo"}},
	{"redis", []string{"redis", "cache store"}},
	{"filesystem", []string{"file system", "filesystem", "read file", "write file", "local files"}},
	{"notion", []string{"notion"}},
	{"jira", []string{"jira", "ticket", "issue tracker"}},
	{"linear", []string{"linear"}},
	{"google-drive", []string{"google drive", "gdrive"}},
	{"google-maps", []string{"google maps", "geocod", "directions"}},
	{"gmail", []string{"gmail", "email"}},
	{"calendar", []string{"calendar", "schedule meeting"}},
	{"stripe", []string{"stripe", "payment"}},
	{"aws", []string{"aws", "s3 bucket", "lambda"}},
	{"kubernetes", []string{"kubernetes", "k8s", "cluster"}},
	{"docker", []string{"docker", "container"}},
	{"search", []string{"web search", "search the web", "search engine"}},
	{"memory", []string{"remember", "memory", "knowledge graph"}},
	{"fetch", []string{"fetch url", "http request", "download page"}},
}

// extractKeywords turns a natural-language request into catalog search terms.
// The AI-assisted path is attempted first; any failure mode (service
// unreachable, non-JSON response, empty array) triggers the deterministic
// fallback rather than aborting the pipeline.
func (e *Engine) extractKeywords(ctx context.Context, query string) ([]string, Method) {
	keywords, err := e.aiKeywords(ctx, query)
	if err == nil && len(keywords) > 0 {
		return keywords, MethodAIAssisted
	}
	if err != nil {
		e.logger.Debug("AI keyword extraction unavailable, using heuristics", "error", err)
	}

	return heuristicKeywords(query), MethodHeuristic
}

// aiKeywords asks the completion service for search terms.
func (e *Engine) aiKeywords(ctx context.Context, query string) ([]string, error) {
	response, err := e.complete(ctx, fmt.Sprintf(keywordPrompt, query))
	if err != nil {
		return nil, err
	}

	var raw []string
	if err := unmarshalFirstJSONArray(response, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse keyword response: %w", err)
	}

	keywords := make([]string, 0, maxKeywords)
	for _, k := range raw {
		k = filter.NormalizeString(k)
		if k == "" {
			continue
		}
		keywords = append(keywords, k)
		if len(keywords) == maxKeywords {
			break
		}
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("keyword response contained no usable terms")
	}

	return keywords, nil
}

// heuristicKeywords derives search terms without the completion service.
// Known service trigger phrases are checked first; when none match, the query
// is tokenized with stop words and short tokens dropped.
func heuristicKeywords(query string) []string {
	normalized := filter.NormalizeString(query)

	var keywords []string
	for _, st := range serviceTriggers {
		for _, trigger := range st.triggers {
			if strings.Contains(normalized, trigger) {
				keywords = append(keywords, st.keyword)
				break
			}
		}
		if len(keywords) == maxKeywords {
			return keywords
		}
	}
	if len(keywords) > 0 {
		return keywords
	}

	tokens := filter.Tokenize(query)
	if len(tokens) > maxKeywords {
		tokens = tokens[:maxKeywords]
	}

	return tokens
}

// unmarshalFirstJSONArray decodes the first JSON-array substring found in
// text. Completion responses often wrap the requested JSON in prose or code
// fences; everything around the array is ignored.
func unmarshalFirstJSONArray(text string, target any) error {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("no JSON array found in response")
	}

	return json.Unmarshal([]byte(text[start:end+1]), target)
}
