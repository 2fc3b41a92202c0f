package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/scans"
)

const maxTokens = 512

const systemPrompt = `You are a radiology triage assistant. You receive one brain MRI slice.
Answer with a single JSON object: {"label": <one of "no_tumor","glioma","meningioma","pituitary","astrocytoma">, "confidence": <number 0..1>}.
Do not add any other keys or commentary.`

// Client implements the Inference port over an OpenAI-compatible
// multimodal chat API.
type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

func (c *Client) Classify(ctx context.Context, image []byte) (domain.Prediction, error) {
	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	dataURL := fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(image))
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: "Classify this MRI slice."},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
				},
			},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Prediction{}, fmt.Errorf("empty completion response")
	}

	var pred domain.Prediction
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &pred); err != nil {
		return domain.Prediction{}, fmt.Errorf("decode model verdict: %w", err)
	}
	return pred, nil
}
