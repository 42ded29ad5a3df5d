// Package completion wraps the optional text-completion service used for
// AI-assisted keyword extraction and ranking. The service being entirely
// unconfigured is a supported state, not an error: callers receive
// ErrNotConfigured and fall back to their deterministic paths.
package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
)

// ErrNotConfigured indicates no completion service credentials are present.
var ErrNotConfigured = errors.New("completion service not configured")

// DefaultRequestTimeout bounds every outbound completion call.
const DefaultRequestTimeout = 15 * time.Second

// Client produces a text completion for a text prompt, or fails.
type Client interface {
	// Complete sends promptText to the completion service and returns the
	// completion text.
	Complete(ctx context.Context, promptText string) (string, error)

	// Configured reports whether the client can reach a real service.
	Configured() bool
}

// AzureOpenAIClient implements Client against an Azure OpenAI deployment.
type AzureOpenAIClient struct {
	client       *azopenai.Client
	deploymentID string
}

var _ Client = (*AzureOpenAIClient)(nil)

// NewAzureOpenAIClient creates a completion client for the given endpoint and
// deployment using key-credential authentication.
func NewAzureOpenAIClient(endpoint, apiKey, deploymentID string) (*AzureOpenAIClient, error) {
	endpoint = strings.TrimSpace(endpoint)
	apiKey = strings.TrimSpace(apiKey)
	deploymentID = strings.TrimSpace(deploymentID)
	if endpoint == "" || apiKey == "" || deploymentID == "" {
		return nil, ErrNotConfigured
	}

	keyCredential := azcore.NewKeyCredential(apiKey)
	client, err := azopenai.NewClientWithKeyCredential(endpoint, keyCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure OpenAI client: %w", err)
	}

	return &AzureOpenAIClient{
		client:       client,
		deploymentID: deploymentID,
	}, nil
}

// Complete sends a single user message to the deployment and returns the
// completion text.
func (c *AzureOpenAIClient) Complete(ctx context.Context, promptText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	defer cancel()

	resp, err := c.client.GetChatCompletions(
		ctx,
		azopenai.ChatCompletionsOptions{
			DeploymentName: to.Ptr(c.deploymentID),
			Messages: []azopenai.ChatRequestMessageClassification{
				&azopenai.ChatRequestUserMessage{
					Content: azopenai.NewChatRequestUserMessageContent(promptText),
				},
			},
		},
		nil,
	)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) > 0 && resp.Choices[0].Message != nil && resp.Choices[0].Message.Content != nil {
		return *resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("no completion received from service")
}

// Configured implements Client.
func (c *AzureOpenAIClient) Configured() bool {
	return c != nil && c.client != nil
}

// Disabled is a Client for when no completion service is configured.
// Every call reports ErrNotConfigured.
type Disabled struct{}

var _ Client = (*Disabled)(nil)

// Complete implements Client.
func (Disabled) Complete(_ context.Context, _ string) (string, error) {
	return "", ErrNotConfigured
}

// Configured implements Client.
func (Disabled) Configured() bool {
	return false
}

// FromEnvironment builds a Client from the given settings, returning Disabled
// when any of them is absent.
func FromEnvironment(endpoint, apiKey, deploymentID string) Client {
	client, err := NewAzureOpenAIClient(endpoint, apiKey, deploymentID)
	if err != nil {
		return Disabled{}
	}
	return client
}
