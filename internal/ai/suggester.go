// Package ai offers an optional Gemini-backed recipe suggestion: given the
// boxes currently in stock, propose a named composition. The feature is
// advisory only; nothing is persisted until the user creates the recipe.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bloomworks/bloomgo/internal/models"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Suggester interacts with the Gemini API using the official SDK.
type Suggester struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewSuggester creates a Gemini-backed suggester.
func NewSuggester(ctx context.Context, apiKey, modelName string) (*Suggester, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	return &Suggester{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Close closes the client connection
func (s *Suggester) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// Suggestion is a proposed recipe composition.
type Suggestion struct {
	Name    string              `json:"name"`
	Flowers []models.FlowerLine `json:"flowers"`
}

// SuggestRecipe asks the model for a bouquet composition buildable from the
// boxes currently in stock.
func (s *Suggester) SuggestRecipe(ctx context.Context, inStock []models.Box) (*Suggestion, error) {
	var b strings.Builder
	b.WriteString("You are helping a flower production facility design a bouquet recipe.\n")
	b.WriteString("Current in-stock inventory:\n")
	for _, box := range inStock {
		fmt.Fprintf(&b, "- %s, %s: %d %s\n", box.FlowerType, box.Color, box.Quantity, box.Unit)
	}
	b.WriteString("\nPropose one bouquet recipe using only flowers listed above. ")
	b.WriteString("Respond with JSON only, no prose, in this shape: ")
	b.WriteString(`{"name":"...","flowers":[{"type":"...","color":"...","quantity":N}]}`)

	resp, err := s.model.GenerateContent(ctx, genai.Text(b.String()))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var fullText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText += string(txt)
		}
	}

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(stripFences(fullText)), &suggestion); err != nil {
		return nil, fmt.Errorf("unparsable suggestion: %w", err)
	}
	if suggestion.Name == "" || len(suggestion.Flowers) == 0 {
		return nil, fmt.Errorf("incomplete suggestion from model")
	}
	return &suggestion, nil
}

// stripFences removes a markdown code fence the model sometimes wraps JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
