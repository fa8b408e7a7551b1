package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/gcet-assistant/backend/internal/config"
)

// ArkProvider runs a prompt template and a chat model as an eino chain.
type ArkProvider struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewArkProvider builds the ark chat model from configuration.
func NewArkProvider(ctx context.Context, cfg config.AIConfig, creds config.ArkConfig) (*ArkProvider, error) {
	temperature := cfg.Temperature
	topP := cfg.TopP
	maxTokens := cfg.MaxOutputTokens

	arkCfg := &ark.ChatModelConfig{
		BaseURL:     cfg.URL,
		Region:      creds.Region,
		APIKey:      cfg.APIKey,
		AccessKey:   creds.AccessKey,
		SecretKey:   creds.SecretKey,
		Model:       cfg.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		TopP:        &topP,
	}

	chatModel, err := ark.NewChatModel(ctx, arkCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewChainProvider(ctx, chatModel)
}

// NewChainProvider compiles the chain around any eino chat model.
func NewChainProvider(ctx context.Context, chatModel model.BaseChatModel) (*ArkProvider, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}
	return &ArkProvider{chain: runnable}, nil
}

func (p *ArkProvider) Name() string { return "ark" }

// Generate runs the chain. Generation parameters are fixed when the model
// is built.
func (p *ArkProvider) Generate(ctx context.Context, req Request) (string, error) {
	input := map[string]any{
		"system":  req.System,
		"history": historyMessages(req.Turns),
	}

	resp, err := p.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}
	if resp == nil || resp.Content == "" {
		return "", ErrEmptyReply
	}
	return resp.Content, nil
}

func historyMessages(turns []Turn) []*schema.Message {
	history := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		switch t.Author {
		case AuthorUser:
			history = append(history, schema.UserMessage(t.Content))
		case AuthorBot:
			history = append(history, schema.AssistantMessage(t.Content, nil))
		}
	}
	return history
}
