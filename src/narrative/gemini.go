package narrative

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"crypto-analyst/src/interfaces"
	"crypto-analyst/src/logger"
	"crypto-analyst/src/models"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

var (
	_ interfaces.INarrativeGenerator = (*GeminiGenerator)(nil)
	_ interfaces.IGroundingProvider  = (*GeminiGenerator)(nil)
)

// GeminiGenerator produces narrative text with Google's Gemini API.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
	Logger      *logger.Logger

	enableGoogleSearch atomic.Bool
}

// -----------------------------------------------------------------------------

func NewGeminiGenerator(ctx context.Context, cfg *models.MConfig, log *logger.Logger) (*GeminiGenerator, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	model := strings.TrimPrefix(cfg.LLM.Model, "gemini/")
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.LLM.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	g := &GeminiGenerator{
		client:      client,
		model:       model,
		temperature: cfg.LLM.Temperature,
		Logger:      log,
	}
	g.SetEnableGoogleSearch(cfg.LLM.EnableGoogleSearch)
	return g, nil
}

// -----------------------------------------------------------------------------

// SetEnableGoogleSearch enables or disables Google Search grounding.
func (g *GeminiGenerator) SetEnableGoogleSearch(enable bool) {
	g.enableGoogleSearch.Store(enable)
}

// -----------------------------------------------------------------------------

func (g *GeminiGenerator) IsGoogleSearchEnabled() bool {
	return g.enableGoogleSearch.Load()
}

// -----------------------------------------------------------------------------

func (g *GeminiGenerator) Generate(ctx context.Context, prompt models.MNarrativePrompt) (string, error) {
	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt.Prompt), g.generateConfig(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate %s failed: %w", prompt.Section, err)
	}

	text := resp.Text()
	g.Logger.Info("Gemini: %s generated %d chars in %v (sources: %d)",
		prompt.Section, len(text), time.Since(start).Round(time.Millisecond), len(groundingSources(resp)))
	return text, nil
}

// -----------------------------------------------------------------------------

// generateConfig attaches the Google Search tool to grounded prompts.
func (g *GeminiGenerator) generateConfig(prompt models.MNarrativePrompt) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if prompt.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(prompt.SystemInstruction, genai.RoleUser)
	}
	if prompt.Grounded && g.IsGoogleSearchEnabled() {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return config
}

// -----------------------------------------------------------------------------

// groundingSources lists the web URIs the first candidate was grounded on.
func groundingSources(resp *genai.GenerateContentResponse) []string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var uris []string
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk != nil && chunk.Web != nil && chunk.Web.URI != "" {
			uris = append(uris, chunk.Web.URI)
		}
	}
	return uris
}
