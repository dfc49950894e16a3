package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIConfig configures an OpenAIModel.
type OpenAIConfig struct {
	// APIKey authenticates against the OpenAI (or OpenAI-compatible)
	// endpoint. Required.
	APIKey string
	// BaseURL overrides the default endpoint, for Azure OpenAI or an
	// on-prem-compatible gateway. Optional.
	BaseURL string
	// Model is the completion model name, e.g. "gpt-4o".
	Model string
}

func (c *OpenAIConfig) validate() error {
	if c == nil {
		return errors.New("openai config cannot be nil")
	}
	if c.APIKey == "" {
		return errors.New("openai config: api key is required")
	}
	if c.Model == "" {
		return errors.New("openai config: model is required")
	}
	return nil
}

var _ Model = (*OpenAIModel)(nil)

// OpenAIModel adapts the openai-go client to the Model contract. It is one
// of several interchangeable adapters the orchestration engine can be
// wired against (an Anthropic or local-model adapter would satisfy the same
// Model interface); only this one is built out.
type OpenAIModel struct {
	client openai.Client
	model  string
}

// NewOpenAIModel constructs an OpenAIModel from config.
func NewOpenAIModel(config *OpenAIConfig) (*OpenAIModel, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	return &OpenAIModel{
		client: openai.NewClient(opts...),
		model:  config.Model,
	}, nil
}

// Generate implements Model.
func (o *OpenAIModel) Generate(ctx context.Context, req Request) (Response, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(o.model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Response{}, classifyError(err)
	}
	if len(completion.Choices) == 0 {
		return Response{}, &Error{Kind: KindTerminal, Err: errors.New("openai: empty choices")}
	}

	return Response{
		Text: completion.Choices[0].Message.Content,
		Usage: Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
		},
	}, nil
}

// classifyError maps an openai-go error into our transient/terminal split.
// Auth, bad-request and not-found errors (400, 401, 403, 404) are terminal;
// everything else - rate limits, timeouts, 5xx, any other status - is
// treated as transient and left to the caller's backoff policy.
func classifyError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403, 400, 404:
			return &Error{Kind: KindTerminal, Err: err}
		default:
			return &Error{Kind: KindTransient, Err: err}
		}
	}
	return &Error{Kind: KindTransient, Err: err}
}
