package summarizer

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

const openAIDefaultModel = openai.GPT4oMini

// openAI calls the chat completions API.
type openAI struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAI creates a Remote backed by the OpenAI chat completions API.
func NewOpenAI(cfg Config, opts ...Option) *Remote {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	o := &openAI{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
	if o.model == "" {
		o.model = openAIDefaultModel
	}
	if o.maxTokens <= 0 {
		o.maxTokens = DefaultMaxTokens
	}
	return newRemote(ProviderOpenAI, o, cfg, opts)
}

func (o *openAI) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	if err != nil {
		return "", err
	}

	// an empty choice list is a blank completion, not a transport failure
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
