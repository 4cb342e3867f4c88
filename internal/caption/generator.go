// Package caption generates social media post captions for board items
// using the Anthropic API.
package caption

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/tarviz/pipeboard/internal/board"
)

const systemPrompt = "You are a social media copywriter for a digital marketing agency. " +
	"Write one ready-to-post caption for the content item described by the user. " +
	"Match the platform's conventions, keep it under 150 words, and include 3-5 " +
	"relevant hashtags at the end. Reply with the caption only, no preamble."

// Config holds settings for the caption generator.
type Config struct {
	// APIKey authenticates against the Anthropic API. Required.
	APIKey string

	// Model selects the model to use. Defaults to Claude Sonnet.
	Model anthropic.Model

	// MaxTokens caps the response length.
	MaxTokens int64

	// BaseURL overrides the API endpoint. Used in tests.
	BaseURL string
}

// DefaultConfig returns a Config with sensible defaults.
// The APIKey must still be set by the caller.
func DefaultConfig() Config {
	return Config{
		Model:     anthropic.ModelClaudeSonnet4_0,
		MaxTokens: 1024,
	}
}

// Generator produces captions for board items.
type Generator struct {
	client anthropic.Client
	config Config
}

// NewGenerator creates a Generator with the given configuration.
func NewGenerator(config Config) (*Generator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key cannot be empty")
	}
	if config.Model == "" {
		config.Model = DefaultConfig().Model
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultConfig().MaxTokens
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &Generator{
		client: anthropic.NewClient(opts...),
		config: config,
	}, nil
}

// Generate produces a caption for the given item. An optional brief adds
// campaign context beyond what the item itself carries.
func (g *Generator) Generate(ctx context.Context, item board.Item, brief string) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.config.Model,
		MaxTokens: g.config.MaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(item, brief))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate caption: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	caption := strings.TrimSpace(sb.String())
	if caption == "" {
		return "", fmt.Errorf("model returned no caption text")
	}
	return caption, nil
}

// buildPrompt renders the item into the user message. Only fields that are
// set appear, so sparse demo items still produce a usable prompt.
func buildPrompt(item board.Item, brief string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n", item.Title)
	if len(item.Platforms) > 0 {
		fmt.Fprintf(&sb, "Platforms: %s\n", strings.Join(item.Platforms, ", "))
	}
	if item.Client != "" {
		fmt.Fprintf(&sb, "Client: %s\n", item.Client)
	}
	if item.Copy != "" {
		fmt.Fprintf(&sb, "Creative copy:\n%s\n", item.Copy)
	}
	if brief != "" {
		fmt.Fprintf(&sb, "Campaign brief:\n%s\n", brief)
	}
	return sb.String()
}
