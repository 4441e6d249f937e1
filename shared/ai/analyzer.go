package ai

import (
	"context"
	"fmt"
	"strings"

	"ideascout/internal/models"
	"ideascout/shared/config"

	"google.golang.org/genai"
)

const systemPrompt = "You are a marketing analyst who studies trending videos " +
	"and proposes content ideas. Given a video's title and description, suggest " +
	"how a creator could build on the topic: angles to cover, formats to try, " +
	"and audiences to target. Answer in plain text, no markdown."

type Analyzer struct {
	client          *genai.Client
	model           string
	maxOutputTokens int32
}

func NewAnalyzer(ctx context.Context, cfg *config.AIConfig) (*Analyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Analyzer{
		client:          client,
		model:           cfg.Model,
		maxOutputTokens: cfg.MaxOutputTokens,
	}, nil
}

// AnalyzeVideo sends a single completion request for the video and returns
// the trimmed response text. One call per video, no retries.
func (a *Analyzer) AnalyzeVideo(ctx context.Context, video *models.Video) (string, error) {
	if video == nil {
		return "", fmt.Errorf("video cannot be nil")
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(buildIdeaPrompt(video)),
		}, genai.RoleUser),
	}

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: a.maxOutputTokens,
		SystemInstruction: genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(systemPrompt),
		}, genai.RoleUser),
	}

	result, err := a.client.Models.GenerateContent(ctx, a.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to analyze video %s: %w", video.ID, err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("no analysis response received for video %s", video.ID)
	}

	return text, nil
}

func buildIdeaPrompt(video *models.Video) string {
	return fmt.Sprintf(`Suggest content ideas inspired by this trending video.

Title: %s
Description: %s`,
		video.Title,
		truncateString(video.Description, 1000),
	)
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}
