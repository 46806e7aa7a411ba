package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultTimeout bounds a single scoring call. The scoring service is a
// third-party network dependency and must never hang a request indefinitely.
const DefaultTimeout = 60 * time.Second

const defaultModel = "gemini-1.5-flash"

// ErrScoringService indicates the external scoring service was unreachable
// or returned an error. The call is not retried.
type ErrScoringService struct {
	Err error
}

func (e *ErrScoringService) Error() string {
	return fmt.Sprintf("scoring service request failed: %v", e.Err)
}

func (e *ErrScoringService) Unwrap() error { return e.Err }

// Scorer sends a rendered prompt to a generative-text service and returns
// the raw textual completion.
type Scorer interface {
	Score(ctx context.Context, prompt string) (string, error)
}

// GeminiScorer implements Scorer against the Gemini API. One outbound call
// per invocation; no retry, no caching.
type GeminiScorer struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiScorer creates a scorer backed by the Gemini API.
func NewGeminiScorer(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiScorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &GeminiScorer{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Score sends the prompt and returns the first textual completion. Timeouts
// and transport failures surface as ErrScoringService.
func (s *GeminiScorer) Score(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	model := s.client.GenerativeModel(s.model)
	model.SetTemperature(0.1) // Low temperature for consistent output

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ErrScoringService{Err: err}
	}

	return textFromResponse(resp), nil
}

// Close releases resources held by the client.
func (s *GeminiScorer) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// textFromResponse extracts the completion text. A response carrying no
// candidates, content, or text parts yields the empty-object literal so the
// parser downstream resolves it to a record with all defaults.
func textFromResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return "{}"
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "{}"
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "{}"
	}

	return strings.Join(parts, "")
}
