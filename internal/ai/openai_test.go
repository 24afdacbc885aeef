package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"today-i-learned/internal/category"
	"today-i-learned/internal/model"
)

type fakeCompleter struct {
	answer string
	err    error
	last   openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.last = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.answer}}},
	}, nil
}

func newFake(answer string) (*OpenAIClient, *fakeCompleter) {
	fc := &fakeCompleter{answer: answer}
	return &OpenAIClient{client: fc, model: "test-model", log: zap.NewNop()}, fc
}

func TestNewOpenAIRequiresKeyAndModel(t *testing.T) {
	_, err := NewOpenAI(Config{Model: "m"}, nil)
	assert.Error(t, err)
	_, err = NewOpenAI(Config{APIKey: "k"}, nil)
	assert.Error(t, err)
	c, err := NewOpenAI(Config{APIKey: "k", Model: "m", BaseURL: "http://localhost:1/v1"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestSuggestCategory(t *testing.T) {
	c, fc := newFake(" Science.\n")
	got, err := c.SuggestCategory(context.Background(), "Octopuses have three hearts.", category.Default())
	require.NoError(t, err)
	assert.Equal(t, "science", got)
	assert.Equal(t, "test-model", fc.last.Model)
	assert.Contains(t, fc.last.Messages[0].Content, "technology, science, finance")
	assert.Equal(t, "Octopuses have three hearts.", fc.last.Messages[1].Content)
}

func TestSuggestCategoryUnknownAnswer(t *testing.T) {
	c, _ := newFake("astrology")
	_, err := c.SuggestCategory(context.Background(), "Mercury is in retrograde.", category.Default())
	assert.True(t, errors.Is(err, category.ErrCategoryNotFound))
}

func TestSuggestCategoryEmptyText(t *testing.T) {
	c, _ := newFake("science")
	_, err := c.SuggestCategory(context.Background(), "  ", category.Default())
	assert.Error(t, err)
}

func TestSummarizeFacts(t *testing.T) {
	c, fc := newFake("  A playful intro.  ")
	facts := make([]model.Fact, 12)
	for i := range facts {
		facts[i] = model.Fact{Text: "fact", Category: "news"}
	}
	out, err := c.SummarizeFacts(context.Background(), facts, "")
	require.NoError(t, err)
	assert.Equal(t, "A playful intro.", out)
	assert.Equal(t, 10, strings.Count(fc.last.Messages[1].Content, "- fact (news)"))
	assert.Contains(t, fc.last.Messages[0].Content, "English")

	out, err = c.SummarizeFacts(context.Background(), nil, "French")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSummarizeFactsError(t *testing.T) {
	c, fc := newFake("")
	fc.err = errors.New("rate limited")
	_, err := c.SummarizeFacts(context.Background(), []model.Fact{{Text: "x"}}, "")
	assert.Error(t, err)
}
