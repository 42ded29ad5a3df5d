package catalog

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/scoutmcp/scout/internal/filter"
)

// CredentialRequirement describes one credential a server needs before it can
// be started or reached.
type CredentialRequirement struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// envVarNamePattern matches uppercase-with-underscores property names such as
// API_TOKEN, which catalog entries conventionally use for credentials.
var envVarNamePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// credentialHints are description substrings that mark a schema property as a
// credential regardless of its name.
var credentialHints = []string{"token", "api key", "secret", "password", "credential"}

// knownCredentials is the fallback table for servers that declare no usable
// config schema, keyed by substrings of the qualified name. Inferred
// credentials are always marked required.
var knownCredentials = map[string]CredentialRequirement{
	"github":    {Name: "GITHUB_PERSONAL_ACCESS_TOKEN", Description: "GitHub personal access token"},
	"gitlab":    {Name: "GITLAB_TOKEN", Description: "GitLab access token"},
	"slack":     {Name: "SLACK_BOT_TOKEN", Description: "Slack bot token"},
	"notion":    {Name: "NOTION_API_KEY", Description: "Notion integration API key"},
	"openai":    {Name: "OPENAI_API_KEY", Description: "OpenAI API key"},
	"anthropic": {Name: "ANTHROPIC_API_KEY", Description: "Anthropic API key"},
	"stripe":    {Name: "STRIPE_API_KEY", Description: "Stripe API key"},
	"postgres":  {Name: "DATABASE_URL", Description: "PostgreSQL connection string"},
	"mysql":     {Name: "DATABASE_URL", Description: "MySQL connection string"},
	"mongodb":   {Name: "MONGODB_URI", Description: "MongoDB connection URI"},
	"supabase":  {Name: "SUPABASE_ACCESS_TOKEN", Description: "Supabase access token"},
	"firebase":  {Name: "FIREBASE_SERVICE_ACCOUNT", Description: "Firebase service account credentials"},
	"aws":       {Name: "AWS_ACCESS_KEY_ID", Description: "AWS access key"},
	"brave":     {Name: "BRAVE_API_KEY", Description: "Brave Search API key"},
	"linear":    {Name: "LINEAR_API_KEY", Description: "Linear API key"},
	"jira":      {Name: "JIRA_API_TOKEN", Description: "Jira API token"},
	"airtable":  {Name: "AIRTABLE_API_KEY", Description: "Airtable API key"},
	"discord":   {Name: "DISCORD_BOT_TOKEN", Description: "Discord bot token"},
	"telegram":  {Name: "TELEGRAM_BOT_TOKEN", Description: "Telegram bot token"},
}

// ExtractRequiredCredentials derives the credentials a server needs.
//
// Declared connection schemas are the first tier: every schema property whose
// name looks like an environment variable, or whose description mentions a
// credential hint, is reported with the required flag taken from the schema's
// required-field list. Servers whose connections declare no usable schema fall
// back to the name-keyed table; that inference path always marks results
// required. The two-tier order must be preserved: it is the only way
// unstructured catalog entries yield usable setup instructions.
func ExtractRequiredCredentials(server Server) []CredentialRequirement {
	var creds []CredentialRequirement
	seen := make(map[string]struct{})

	for _, conn := range server.Connections {
		for _, cred := range schemaCredentials(conn.ConfigSchema) {
			if _, dup := seen[cred.Name]; dup {
				continue
			}
			seen[cred.Name] = struct{}{}
			creds = append(creds, cred)
		}
	}

	if len(creds) > 0 {
		return creds
	}

	// Fall back to name-based inference. Keys are walked in sorted order so
	// the output is deterministic when several substrings match.
	name := filter.NormalizeString(server.QualifiedName)
	keys := slices.Sorted(maps.Keys(knownCredentials))
	for _, key := range keys {
		if !strings.Contains(name, key) {
			continue
		}
		cred := knownCredentials[key]
		if _, dup := seen[cred.Name]; dup {
			continue
		}
		seen[cred.Name] = struct{}{}
		cred.Required = true
		creds = append(creds, cred)
	}

	return creds
}

// schemaCredentials extracts credential-looking properties from one declared
// config schema. Schemas that fail to compile as JSON Schema are ignored
// entirely: a malformed schema cannot be trusted for setup instructions.
func schemaCredentials(schema map[string]any) []CredentialRequirement {
	if len(schema) == 0 {
		return nil
	}

	if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
		return nil
	}

	properties, ok := schema["properties"].(map[string]any)
	if !ok {
		return nil
	}

	required := make(map[string]struct{})
	if reqList, ok := schema["required"].([]any); ok {
		for _, r := range reqList {
			if name, ok := r.(string); ok {
				required[name] = struct{}{}
			}
		}
	}

	var creds []CredentialRequirement
	for _, name := range slices.Sorted(maps.Keys(properties)) {
		rawProp := properties[name]
		description := ""
		if prop, ok := rawProp.(map[string]any); ok {
			if d, ok := prop["description"].(string); ok {
				description = d
			}
		}

		if !isCredentialProperty(name, description) {
			continue
		}

		_, isRequired := required[name]
		creds = append(creds, CredentialRequirement{
			Name:        name,
			Description: description,
			Required:    isRequired,
		})
	}

	return creds
}

// isCredentialProperty reports whether a schema property denotes a credential.
func isCredentialProperty(name, description string) bool {
	if envVarNamePattern.MatchString(name) {
		return true
	}

	description = strings.ToLower(description)
	for _, hint := range credentialHints {
		if strings.Contains(description, hint) {
			return true
		}
	}

	return false
}
