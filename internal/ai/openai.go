package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"today-i-learned/internal/category"
	"today-i-learned/internal/model"
)

// Assistant defines the AI helpers used by the form and the digest.
type Assistant interface {
	// SuggestCategory picks the registry category that best fits text.
	SuggestCategory(ctx context.Context, text string, reg *category.Registry) (string, error)
	// SummarizeFacts writes a short intro paragraph for a digest.
	SummarizeFacts(ctx context.Context, facts []model.Fact, language string) (string, error)
}

// completer is the slice of the OpenAI client used here.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient implements Assistant using OpenAI Chat Completions API.
type OpenAIClient struct {
	client completer
	model  string
	log    *zap.Logger
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

func NewOpenAI(cfg Config, log *zap.Logger) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai: api key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("openai: model must be specified")
	}
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OpenAIClient{client: c, model: cfg.Model, log: log}, nil
}

func (o *OpenAIClient) SuggestCategory(ctx context.Context, text string, reg *category.Registry) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("suggest category: empty text")
	}
	names := reg.Names()
	sys := fmt.Sprintf(`
		You sort short trivia facts into categories.
		Answer with exactly one word from this list and nothing else: %s.
		`, strings.Join(names, ", "))
	out, err := o.create(ctx, sys, text, 0)
	if err != nil {
		o.log.Error("openai: suggest category error", zap.Error(err))
		return "", err
	}
	return matchCategory(out, reg)
}

func (o *OpenAIClient) SummarizeFacts(ctx context.Context, facts []model.Fact, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()
	if len(facts) == 0 {
		return "", nil
	}
	b := &strings.Builder{}
	for i, f := range facts {
		if i >= 10 {
			break
		}
		fmt.Fprintf(b, "- %s (%s)\n", f.Text, f.Category)
	}
	sys := fmt.Sprintf(`
		Write in %s. Return 2 ~ 3 sentences (40–120 words) introducing the facts below to a curious reader.
		Be playful, do not repeat the facts verbatim, no links.
		`, langOrDefault(language))
	user := fmt.Sprintf("Most interesting facts this period:\n%s", b.String())
	out, err := o.create(ctx, sys, user, 0.6)
	if err != nil {
		o.log.Error("openai: summarize facts error", zap.Error(err))
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (o *OpenAIClient) create(ctx context.Context, system, user string, temperature float32) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// matchCategory maps a model answer onto a registry name.
func matchCategory(answer string, reg *category.Registry) (string, error) {
	a := strings.ToLower(strings.Trim(strings.TrimSpace(answer), ".\"'`"))
	if reg.Has(a) {
		return a, nil
	}
	for _, name := range reg.Names() {
		if strings.Contains(a, name) {
			return name, nil
		}
	}
	return "", fmt.Errorf("suggest category: answer %q: %w", answer, category.ErrCategoryNotFound)
}

func langOrDefault(lang string) string {
	l := strings.TrimSpace(lang)
	if l == "" {
		return "English"
	}
	return l
}
