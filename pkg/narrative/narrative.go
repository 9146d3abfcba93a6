// Package narrative wraps the Anthropic API behind the single operation
// the report generator needs: turn an aggregated-statistics prompt into
// prose.
package narrative

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SystemPrompt frames every narrative request.
const SystemPrompt = "You are a professional report writer specialising in student well-being analysis. Write clear, factual prose grounded strictly in the statistics you are given. Do not invent numbers."

// Client generates report narratives.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options tune the generation request.
type Options struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	// RPS throttles requests; zero or negative disables throttling.
	RPS float64
}

// sdkClient implements Client using the official anthropic-sdk-go.
type sdkClient struct {
	client  sdk.Client
	opts    Options
	limiter *rate.Limiter
}

// NewClient creates a narrative client backed by the SDK.
func NewClient(apiKey string, opts Options) Client {
	if opts.Model == "" {
		opts.Model = "claude-sonnet-4-5-20250929"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4000
	}

	var limiter *rate.Limiter
	if opts.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), 1)
	}

	return &sdkClient{
		client: sdk.NewClient(
			option.WithAPIKey(apiKey),
		),
		opts:    opts,
		limiter: limiter,
	}
}

// Generate sends one message request and returns the concatenated text
// blocks. A single attempt; callers decide what a failure means.
func (c *sdkClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "narrative: rate limit wait")
		}
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.opts.Model),
		MaxTokens: c.opts.MaxTokens,
		System: []sdk.TextBlockParam{
			{Text: SystemPrompt},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	}
	if c.opts.Temperature > 0 {
		params.Temperature = sdk.Float(c.opts.Temperature)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "narrative: create message")
	}

	var text string
	for _, b := range msg.Content {
		if b.Type == "text" {
			text += b.Text
		}
	}

	zap.L().Info("narrative generated",
		zap.String("model", string(msg.Model)),
		zap.String("stop_reason", string(msg.StopReason)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	return text, nil
}
