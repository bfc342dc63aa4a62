package genai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"github.com/campusvoice/feedback-api/pkg/config"
)

// Canonical sentiment labels accepted from the model. Anything else is
// coerced to NEUTRAL at this boundary so callers never see raw model output.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

// BlockedSummaryNotice is returned when the model produces no usable content
// for a summarization request.
const BlockedSummaryNotice = "The AI was unable to generate a summary for this content, possibly due to safety filters or other restrictions."

const sentimentPrompt = "Analyze the sentiment of the following student feedback. " +
	"Classify it as either 'POSITIVE', 'NEGATIVE', or 'NEUTRAL'. " +
	"Respond with only one of those three words, without any additional text or punctuation.\n\n" +
	"Feedback: %q"

const transcribePrompt = "Please transcribe the following audio. Respond with only the transcript text."

// Client is a thin wrapper over a generative-AI endpoint speaking the Ollama
// API. Every call is a single attempt with a per-call timeout; failures are
// reported to the caller, never retried here.
type Client struct {
	api    *api.Client
	cfg    config.GenAIConfig
	logger *zap.Logger
}

// New builds a gateway client. An empty base URL yields an unconfigured
// client whose calls short-circuit; callers decide how to degrade.
func New(cfg config.GenAIConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{cfg: cfg, logger: logger}
	if cfg.BaseURL == "" {
		return c, nil
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid genai base url: %w", err)
	}
	c.api = api.NewClient(u, &http.Client{Timeout: cfg.Timeout})
	return c, nil
}

// Configured reports whether a gateway endpoint is available.
func (c *Client) Configured() bool {
	return c != nil && c.api != nil
}

// Transcribe uploads the audio file and returns the trimmed transcript.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("genai gateway not configured")
	}
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}

	text, err := c.generate(ctx, transcribePrompt, api.ImageData(data))
	if err != nil {
		return "", err
	}
	transcript := strings.TrimSpace(text)
	if transcript == "" {
		return "", fmt.Errorf("transcription returned empty response")
	}
	c.logger.Info("audio transcribed", zap.String("file", audioPath), zap.Int("chars", len(transcript)))
	return transcript, nil
}

// ClassifySentiment asks the model for one of the three canonical labels.
// It returns an empty label when the gateway is unconfigured or the text is
// blank, and coerces any unexpected reply to NEUTRAL.
func (c *Client) ClassifySentiment(ctx context.Context, text string) (string, error) {
	if !c.Configured() || strings.TrimSpace(text) == "" {
		return "", nil
	}

	reply, err := c.generate(ctx, fmt.Sprintf(sentimentPrompt, text))
	if err != nil {
		return "", err
	}

	sentiment := strings.ToUpper(strings.Trim(strings.TrimSpace(reply), ".'\""))
	switch sentiment {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return sentiment, nil
	default:
		c.logger.Warn("sentiment analysis returned an unexpected value", zap.String("value", sentiment))
		return SentimentNeutral, nil
	}
}

// Summarize sends the prepared prompt and returns the generated text
// verbatim, or BlockedSummaryNotice when the model yields nothing usable.
func (c *Client) Summarize(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("genai gateway not configured")
	}

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		c.logger.Warn("summary response was blocked or empty")
		return BlockedSummaryNotice, nil
	}
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string, attachments ...api.ImageData) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	stream := false
	req := &api.GenerateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Stream: &stream,
	}
	if len(attachments) > 0 {
		req.Images = attachments
	}

	var sb strings.Builder
	err := c.api.Generate(ctx, req, func(r api.GenerateResponse) error {
		sb.WriteString(r.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("genai generate: %w", err)
	}
	return sb.String(), nil
}
