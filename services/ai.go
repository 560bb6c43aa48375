package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/chessmanager/club-api/models"
)

// ============================================================================
// AI SERVICE - Extraction de listes de joueurs depuis une capture d'écran
// et génération de thèmes visuels. API Anthropic Messages (vision).
// ============================================================================

type AIService struct {
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type aiRequest struct {
	Model     string      `json:"model"`
	MaxTokens int         `json:"max_tokens"`
	System    string      `json:"system,omitempty"`
	Messages  []aiMessage `json:"messages"`
}

type aiMessage struct {
	Role    string    `json:"role"`
	Content []aiBlock `json:"content"`
}

// aiBlock is either a text block or a base64 image block.
type aiBlock struct {
	Type   string    `json:"type"`
	Text   string    `json:"text,omitempty"`
	Source *aiSource `json:"source,omitempty"`
}

type aiSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type aiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model string `json:"model"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewAIService() *AIService {
	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = "claude-3-5-sonnet-latest"
	}

	return &AIService{
		apiKey:     os.Getenv("ANTHROPIC_API_KEY"),
		model:      model,
		maxTokens:  2000,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// rosterPrompt is the fixed extraction instruction: the model must answer
// with nothing but a JSON array.
const rosterPrompt = `Extrais les membres du club d'échecs depuis cette image.
Pour chaque joueur, récupère : le NOM (en majuscules), le Prénom, l'ELO actuel, et le Numéro de licence si visible.
Réponds uniquement en JSON sous cette forme :
[{"last_name": "NOM", "first_name": "Prenom", "elo": 1500, "license_number": "A12345"}]`

// ExtractRoster sends a roster screenshot to the model and parses the JSON
// array it returns. A malformed reply is an error for the caller to surface,
// never a crash.
func (s *AIService) ExtractRoster(ctx context.Context, imageBase64, mimeType string) ([]models.ScannedMember, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	requestBody := aiRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []aiMessage{{
			Role: "user",
			Content: []aiBlock{
				{Type: "image", Source: &aiSource{Type: "base64", MediaType: mimeType, Data: imageBase64}},
				{Type: "text", Text: rosterPrompt},
			},
		}},
	}

	raw, err := s.executeRequest(ctx, requestBody)
	if err != nil {
		return nil, err
	}

	return ParseRosterReply(raw)
}

// designSystemPrompt constrains the theme generator to a strict JSON object.
const designSystemPrompt = `You are a brand designer for sports club web apps.
Given a short description of the desired mood, answer with ONLY a JSON object:
{"primary_color": "#rrggbb", "secondary_color": "#rrggbb", "accent_color": "#rrggbb",
 "border_radius": "0.375rem|1.2rem|2.5rem", "custom_font": "<one Google font>", "slogan": "<short slogan in French>"}
No other text.`

// GenerateDesign asks the model for a theme configuration from a free-text
// prompt. The first {...} block of the reply is parsed; everything else is
// ignored.
func (s *AIService) GenerateDesign(ctx context.Context, prompt string) (*models.AIDesignConfig, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	requestBody := aiRequest{
		Model:     s.model,
		MaxTokens: 400,
		System:    designSystemPrompt,
		Messages: []aiMessage{{
			Role:    "user",
			Content: []aiBlock{{Type: "text", Text: prompt}},
		}},
	}

	raw, err := s.executeRequest(ctx, requestBody)
	if err != nil {
		return nil, err
	}

	return ParseDesignReply(raw)
}

// ============================================================================
// REPLY PARSING (pure, tested without network)
// ============================================================================

var codeFenceRe = regexp.MustCompile("```(?:json)?")

// StripCodeFence removes the markdown decoration models like to wrap JSON in.
func StripCodeFence(raw string) string {
	return strings.TrimSpace(codeFenceRe.ReplaceAllString(raw, ""))
}

// ParseRosterReply decodes the extraction reply into scanned rows.
func ParseRosterReply(raw string) ([]models.ScannedMember, error) {
	cleaned := StripCodeFence(raw)

	var rows []models.ScannedMember
	if err := json.Unmarshal([]byte(cleaned), &rows); err != nil {
		return nil, fmt.Errorf("AI reply is not a member array: %w", err)
	}
	return rows, nil
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// ParseDesignReply extracts and decodes the first JSON object of the reply.
func ParseDesignReply(raw string) (*models.AIDesignConfig, error) {
	match := jsonObjectRe.FindString(StripCodeFence(raw))
	if match == "" {
		return nil, fmt.Errorf("AI reply contains no JSON object")
	}

	var cfg models.AIDesignConfig
	if err := json.Unmarshal([]byte(match), &cfg); err != nil {
		return nil, fmt.Errorf("AI reply is not a design object: %w", err)
	}
	return &cfg, nil
}

// ============================================================================
// HELPER: EXECUTE REQUEST
// ============================================================================

func (s *AIService) executeRequest(ctx context.Context, requestBody aiRequest) (string, error) {
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		"https://api.anthropic.com/v1/messages",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var aiResp aiResponse
	if err := json.Unmarshal(body, &aiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(aiResp.Content) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	fmt.Printf("[AI] Model: %s | Tokens: In %d / Out %d\n",
		aiResp.Model, aiResp.Usage.InputTokens, aiResp.Usage.OutputTokens)

	return aiResp.Content[0].Text, nil
}
