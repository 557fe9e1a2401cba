package summarizer

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const claudeDefaultModel = anthropic.ModelClaudeSonnet4_5_20250929

// claude calls the Anthropic Messages API.
type claude struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

// NewClaude creates a Remote backed by Anthropic Claude.
// The SDK's own retries are disabled so a call never outlives its strategy budget.
func NewClaude(cfg Config, opts ...Option) *Remote {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}

	c := &claude{
		client:    anthropic.NewClient(clientOpts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
	if c.model == "" {
		c.model = string(claudeDefaultModel)
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}
	return newRemote(ProviderClaude, c, cfg, opts)
}

func (c *claude) generate(ctx context.Context, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	return sb.String(), nil
}
