package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	complete func(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
	last     *CompletionRequest
}

func (f *fakeProvider) Name() string                   { return "fake" }
func (f *fakeProvider) Ping(ctx context.Context) error { return nil }

func (f *fakeProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	f.last = req
	return f.complete(ctx, req)
}

func TestGenerateReturnsContent(t *testing.T) {
	p := &fakeProvider{complete: func(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
		return &CompletionResponse{Content: `{"diet":"a","exercise":"b"}`, Model: req.Model}, nil
	}}
	c := NewClient(p, "m1", "be brief", time.Second, nil)

	out, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"diet":"a","exercise":"b"}`, out)

	require.NotNil(t, p.last)
	assert.Equal(t, "m1", p.last.Model)
	assert.True(t, p.last.JSON)
	require.Len(t, p.last.Messages, 2)
	assert.Equal(t, "be brief", p.last.Messages[0].Content)
	assert.Equal(t, "hello", p.last.Messages[1].Content)
}

func TestGenerateTimeout(t *testing.T) {
	p := &fakeProvider{complete: func(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	c := NewClient(p, "m", "", 10*time.Millisecond, nil)

	_, err := c.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrService)
}

func TestGenerateServiceError(t *testing.T) {
	p := &fakeProvider{complete: func(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
		return nil, errors.New("status 503")
	}}
	c := NewClient(p, "m", "", time.Second, nil)

	_, err := c.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrService)
	assert.Contains(t, err.Error(), "status 503")
}

func TestGenerateCallerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &fakeProvider{complete: func(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
		cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	c := NewClient(p, "m", "", time.Second, nil)

	_, err := c.Generate(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrService)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem([]Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "u1"},
		{Role: "assistant", Content: "a1"},
	})
	assert.Equal(t, "sys", system)
	require.Len(t, rest, 2)
	assert.Equal(t, "u1", rest[0].Content)
	assert.Equal(t, "assistant", rest[1].Role)
}

func TestGeminiContentsRoles(t *testing.T) {
	contents := geminiContents([]Message{
		{Role: "user", Content: "plan please"},
		{Role: "assistant", Content: "{}"},
	})
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	require.Len(t, contents[1].Parts, 1)
	assert.Equal(t, "{}", contents[1].Parts[0].Text)
}
