package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	aclopenai "github.com/cloudwego/eino-ext/libs/acl/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const jsonInstruction = "Respond with a single valid JSON object and nothing else."

// EinoCompleter adapts eino chat models to Completer. A nil model for a
// mode means no credential was configured for it.
type EinoCompleter struct {
	text model.BaseChatModel
	json model.BaseChatModel
}

func NewEinoCompleter(text, json model.BaseChatModel) *EinoCompleter {
	return &EinoCompleter{text: text, json: json}
}

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// NewOpenAICompleter builds text and JSON-object chat models. Without an API
// key it returns a completer that fails every call with ErrNoCredential.
func NewOpenAICompleter(ctx context.Context, cfg OpenAIConfig) (*EinoCompleter, error) {
	if cfg.APIKey == "" {
		return &EinoCompleter{}, nil
	}

	temperature := cfg.Temperature
	base := openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Timeout:     cfg.Timeout,
		Temperature: &temperature,
	}

	textModel, err := openai.NewChatModel(ctx, &base)
	if err != nil {
		return nil, fmt.Errorf("create openai text model: %w", err)
	}

	jsonCfg := base
	jsonCfg.ResponseFormat = &aclopenai.ChatCompletionResponseFormat{
		Type: aclopenai.ChatCompletionResponseFormatTypeJSONObject,
	}
	jsonModel, err := openai.NewChatModel(ctx, &jsonCfg)
	if err != nil {
		return nil, fmt.Errorf("create openai json model: %w", err)
	}

	return NewEinoCompleter(textModel, jsonModel), nil
}

// NewOllamaCompleter uses one local model for both modes; JSON mode relies
// on the instruction message plus ExtractJSONObject.
func NewOllamaCompleter(ctx context.Context, baseURL, modelName string) (*EinoCompleter, error) {
	chatModel, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
		BaseURL: baseURL,
		Model:   modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("create ollama chat model: %w", err)
	}
	return NewEinoCompleter(chatModel, chatModel), nil
}

func (c *EinoCompleter) Complete(ctx context.Context, prompt string, mode Mode) (string, error) {
	chatModel := c.text
	if mode == ModeJSON {
		chatModel = c.json
	}
	if chatModel == nil {
		return "", ErrNoCredential
	}

	messages := []*schema.Message{schema.UserMessage(prompt)}
	if mode == ModeJSON {
		messages = append([]*schema.Message{schema.SystemMessage(jsonInstruction)}, messages...)
	}

	resp, err := chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate %s completion: %w", mode, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", ErrEmptyCompletion
	}

	if mode == ModeJSON {
		return ExtractJSONObject(resp.Content), nil
	}
	return strings.TrimSpace(resp.Content), nil
}
