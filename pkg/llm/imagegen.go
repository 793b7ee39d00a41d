package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type ImageResult struct {
	URL          string
	GenerationMs int64
}

// ImageClient generates featured images through the OpenAI Images API.
type ImageClient struct {
	client *openai.Client
}

func NewImageClient(apiKey string) *ImageClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &ImageClient{client: &client}
}

func (c *ImageClient) GenerateImage(ctx context.Context, prompt, imageModel string) (*ImageResult, error) {
	model := openai.ImageModelDallE3
	if imageModel != "" {
		model = openai.ImageModel(imageModel)
	}

	start := time.Now()
	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  model,
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize1792x1024,
	})
	if err != nil {
		return nil, fmt.Errorf("image generation error: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no image returned")
	}

	return &ImageResult{
		URL:          resp.Data[0].URL,
		GenerationMs: time.Since(start).Milliseconds(),
	}, nil
}
