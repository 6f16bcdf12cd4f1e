package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeModels) GenerateContent(
	_ context.Context,
	_ string,
	contents []*genai.Content,
	_ *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, contents[0].Parts[0].Text)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return f.responses[len(f.responses)-1], nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func testConfig() config.LLMConfig {
	return config.LLMConfig{Enabled: true, GeminiAPIKey: "k", ModelName: "gemini-2.0-flash", MaxRetries: 2}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "Удобный рюкзак для города.", "Удобный рюкзак для города."},
		{"latin and digits removed", "Рюкзак X200 - 25 л, прочный!", "Рюкзак    л, прочный!"},
		{"quoted span extracted", "Вот описание: \"Лёгкий и прочный рюкзак\" Надеюсь, подойдёт.", "Лёгкий и прочный рюкзак"},
		{"leading period", ".Стильные часы", "Стильные часы"},
		{"unterminated quote kept", "\"Яркий шарф", "\"Яркий шарф"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Sanitize(tt.raw))
		})
	}
}

func TestGenerateDescription(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		fake := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse("\"Надёжный чайник из стали\"")}}
		g := newGenerator(fake, nil, testConfig())

		desc, err := g.GenerateDescription(context.Background(), "Чайник")
		require.NoError(t, err)
		assert.Equal(t, "Надёжный чайник из стали", desc)
		assert.True(t, strings.HasSuffix(fake.prompts[0], ": Чайник"))
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()
		g := newGenerator(&fakeModels{}, nil, testConfig())
		_, err := g.GenerateDescription(context.Background(), "  ")
		assert.ErrorIs(t, err, generation.ErrEmptyProductName)
	})

	t.Run("retries transient errors", func(t *testing.T) {
		t.Parallel()
		fake := &fakeModels{
			errs:      []error{errors.New("503"), nil},
			responses: []*genai.GenerateContentResponse{nil, textResponse("Тёплый плед")},
		}
		g := newGenerator(fake, nil, testConfig())

		desc, err := g.GenerateDescription(context.Background(), "Плед")
		require.NoError(t, err)
		assert.Equal(t, "Тёплый плед", desc)
		assert.Equal(t, 2, fake.calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("unavailable")
		fake := &fakeModels{errs: []error{boom, boom, boom}}
		g := newGenerator(fake, nil, testConfig())

		_, err := g.GenerateDescription(context.Background(), "Плед")
		assert.ErrorIs(t, err, generation.ErrTransientFailure)
		assert.Equal(t, 3, fake.calls)
	})

	t.Run("safety block is permanent", func(t *testing.T) {
		t.Parallel()
		fake := &fakeModels{responses: []*genai.GenerateContentResponse{{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		}}}
		g := newGenerator(fake, nil, testConfig())

		_, err := g.GenerateDescription(context.Background(), "Плед")
		assert.ErrorIs(t, err, generation.ErrContentBlocked)
		assert.Equal(t, 1, fake.calls)
	})

	t.Run("nothing usable after sanitizing", func(t *testing.T) {
		t.Parallel()
		fake := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse("Sorry, I can't")}}
		g := newGenerator(fake, nil, testConfig())

		_, err := g.GenerateDescription(context.Background(), "Плед")
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})
}

func TestNewGeminiGeneratorValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := NewGeminiGenerator(context.Background(), nil, config.LLMConfig{ModelName: "m"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewGeminiGenerator(context.Background(), nil, config.LLMConfig{GeminiAPIKey: "k"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}
