package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	reply string
	err   error
	got   []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.got = input
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.reply}, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"chatter", `Sure! {"a":{"b":2}} hope this helps`, `{"a":{"b":2}}`},
		{"no object", "  nothing here ", "nothing here"},
		{"reversed braces", "} {", "} {"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONObject(tt.in))
		})
	}
}

func TestCompleteWithoutCredential(t *testing.T) {
	c, err := NewOpenAICompleter(context.Background(), OpenAIConfig{})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "hi", ModeText)
	assert.ErrorIs(t, err, ErrNoCredential)

	_, err = c.Complete(context.Background(), "hi", ModeJSON)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestCompleteTextMode(t *testing.T) {
	text := &fakeChatModel{reply: "  JFK \n"}
	c := NewEinoCompleter(text, nil)

	out, err := c.Complete(context.Background(), "airport?", ModeText)
	require.NoError(t, err)
	assert.Equal(t, "JFK", out)
	require.Len(t, text.got, 1)
	assert.Equal(t, schema.User, text.got[0].Role)
	assert.Equal(t, "airport?", text.got[0].Content)
}

func TestCompleteJSONMode(t *testing.T) {
	jsonModel := &fakeChatModel{reply: "```json\n{\"origin\":\"Cairo\"}\n```"}
	c := NewEinoCompleter(&fakeChatModel{}, jsonModel)

	out, err := c.Complete(context.Background(), "extract", ModeJSON)
	require.NoError(t, err)
	assert.Equal(t, `{"origin":"Cairo"}`, out)
	require.Len(t, jsonModel.got, 2)
	assert.Equal(t, schema.System, jsonModel.got[0].Role)
}

func TestCompleteErrors(t *testing.T) {
	boom := errors.New("boom")
	c := NewEinoCompleter(&fakeChatModel{err: boom}, &fakeChatModel{reply: "   "})

	_, err := c.Complete(context.Background(), "x", ModeText)
	assert.ErrorIs(t, err, boom)

	_, err = c.Complete(context.Background(), "x", ModeJSON)
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestPrompts(t *testing.T) {
	p, err := IntakePrompt(IntakeData{
		Today:        "2026-10-19",
		Year:         2026,
		NextYear:     2027,
		Conversation: []PromptMessage{{Role: "user", Content: "Cairo to Paris"}},
		Message:      "Cairo to Paris",
		Origin:       "null",
	})
	require.NoError(t, err)
	assert.Contains(t, p, "Today is 2026-10-19")
	assert.Contains(t, p, "user: Cairo to Paris")
	assert.Contains(t, p, `"followup_question"`)
	assert.Contains(t, p, "if that date has already passed this year, use 2027")
	assert.Contains(t, p, "nearest future occurrence")
	assert.NotContains(t, p, "month is already past")

	p, err = AirportPrompt("New York")
	require.NoError(t, err)
	assert.Contains(t, p, `"New York"`)

	p, err = CabinPrompt("biz")
	require.NoError(t, err)
	assert.Contains(t, p, "PREMIUM_ECONOMY")

	p, err = SummaryPrompt([]SummaryPackage{{Index: 1, JSON: `{"package_id":1}`}, {Index: 2, JSON: `{"package_id":2}`}})
	require.NoError(t, err)
	assert.Contains(t, p, "Package 1:")
	assert.Contains(t, p, "Package 2:")
}
