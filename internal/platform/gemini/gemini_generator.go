package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/generation"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/redact"
	"google.golang.org/genai"
)

const promptFormat = "Сгенерируй описание для товара на русском примерно в 15 слов, только описание текст: %s"

// contentGenerator is the part of genai.Models the generator calls.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements generation.DescriptionGenerator.
type GeminiGenerator struct {
	logger     *slog.Logger
	models     contentGenerator
	model      string
	maxRetries int
	baseDelay  time.Duration
}

var _ generation.DescriptionGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator backed by the Gemini API.
func NewGeminiGenerator(ctx context.Context, l *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(client.Models, l, cfg), nil
}

func newGenerator(models contentGenerator, l *slog.Logger, cfg config.LLMConfig) *GeminiGenerator {
	if l == nil {
		l = slog.Default()
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &GeminiGenerator{
		logger:     l.With("component", "gemini_generator"),
		models:     models,
		model:      cfg.ModelName,
		maxRetries: maxRetries,
		baseDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}
}

// GenerateDescription implements generation.DescriptionGenerator.
func (g *GeminiGenerator) GenerateDescription(ctx context.Context, productName string) (string, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return "", generation.ErrEmptyProductName
	}

	log := logger.FromContextOrDefault(ctx, g.logger)
	raw, err := g.callWithRetry(ctx, log, fmt.Sprintf(promptFormat, productName))
	if err != nil {
		return "", err
	}

	description := Sanitize(raw)
	if description == "" {
		return "", fmt.Errorf("%w: nothing left after sanitizing", generation.ErrInvalidResponse)
	}
	log.DebugContext(ctx, "description generated", "length", len([]rune(description)))
	return description, nil
}

func (g *GeminiGenerator) callWithRetry(ctx context.Context, log *slog.Logger, prompt string) (string, error) {
	for attempt := 0; ; attempt++ {
		text, err := g.call(ctx, prompt)
		if err == nil {
			return text, nil
		}

		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			log.WarnContext(ctx, "permanent gemini error, not retrying", "error", redact.Error(err))
			return "", err
		}

		if attempt >= g.maxRetries {
			log.WarnContext(ctx, "gemini retries exhausted",
				"attempts", attempt+1,
				"error", redact.Error(err))
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, g.maxRetries, err)
		}

		// delay = base * 2^attempt * [0.5, 1.0)
		delay := time.Duration(float64(g.baseDelay) * math.Pow(2, float64(attempt)) * (0.5 + rand.Float64()*0.5))
		log.InfoContext(ctx, "retrying gemini call",
			"attempt", attempt+1,
			"delay", delay.String())

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

func (g *GeminiGenerator) call(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", generation.ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content", generation.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}
