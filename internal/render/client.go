package render

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Client is a thin wrapper around the external generative image API.
// The model itself is an opaque collaborator: prompt in, image out,
// non-deterministic, rate- and permission-limited.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a render client. baseURL may point at any
// OpenAI-compatible image endpoint; model defaults to dall-e-3.
func NewClient(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

// Generate produces a rendered image for the given options and returns
// it as an inline data URL. Durability conversion is the host resolver's
// job, not ours.
func (c *Client) Generate(ctx context.Context, opts Options) (string, error) {
	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Prompt:         BuildPrompt(opts),
		Model:          c.model,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("image generation returned no data")
	}
	return "data:image/png;base64," + resp.Data[0].B64JSON, nil
}
