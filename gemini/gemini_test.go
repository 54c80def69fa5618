package gemini_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/policylens"
	"github.com/fwojciec/policylens/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// newFakeGemini serves generateContent requests with a fixed reply text and
// reports each request body on the returned channel.
func newFakeGemini(t *testing.T, status int, reply string) (*genai.Client, <-chan string) {
	t.Helper()

	bodies := make(chan string, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies <- string(data)
		if !strings.Contains(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error": {"code": 500, "message": "boom", "status": "INTERNAL"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": reply}},
				},
			}},
		})
	}))
	t.Cleanup(srv.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  srv.Client(),
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	require.NoError(t, err)
	return client, bodies
}

func TestSummarizer_Summarize(t *testing.T) {
	t.Parallel()

	t.Run("sends summary prompt and trims reply", func(t *testing.T) {
		t.Parallel()

		client, bodies := newFakeGemini(t, http.StatusOK, "  We sell nothing.\n")
		s := gemini.NewSummarizer(client, "gemini-2.5-flash")

		summary, err := s.Summarize(context.Background(), "We use cookies.")

		require.NoError(t, err)
		assert.Equal(t, "We sell nothing.", summary)
		assert.Contains(t, <-bodies, "Summarize the privacy policy in 2-3 sentences")
	})

	t.Run("empty text is invalid", func(t *testing.T) {
		t.Parallel()

		s := gemini.NewSummarizer(nil, "gemini-2.5-flash")

		_, err := s.Summarize(context.Background(), "  ")

		assert.Equal(t, policylens.EINVALID, policylens.ErrorCode(err))
	})

	t.Run("missing client is a backend error", func(t *testing.T) {
		t.Parallel()

		s := gemini.NewSummarizer(nil, "gemini-2.5-flash")

		_, err := s.Summarize(context.Background(), "We use cookies.")

		assert.Equal(t, policylens.EBACKEND, policylens.ErrorCode(err))
	})

	t.Run("API failure is a backend error", func(t *testing.T) {
		t.Parallel()

		client, _ := newFakeGemini(t, http.StatusInternalServerError, "")
		s := gemini.NewSummarizer(client, "gemini-2.5-flash")

		_, err := s.Summarize(context.Background(), "We use cookies.")

		assert.Equal(t, policylens.EBACKEND, policylens.ErrorCode(err))
	})

	t.Run("cancelled context is reported as canceled", func(t *testing.T) {
		t.Parallel()

		client, _ := newFakeGemini(t, http.StatusOK, "ok")
		s := gemini.NewSummarizer(client, "gemini-2.5-flash")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.Summarize(ctx, "We use cookies.")

		assert.Equal(t, policylens.ECANCELED, policylens.ErrorCode(err))
	})
}

func TestSummarizer_Generate_SendsPromptVerbatim(t *testing.T) {
	t.Parallel()

	client, bodies := newFakeGemini(t, http.StatusOK, "done")
	s := gemini.NewSummarizer(client, "gemini-2.5-flash")

	out, err := s.Generate(context.Background(), "raw prompt text")

	require.NoError(t, err)
	assert.Equal(t, "done", out)
	body := <-bodies
	assert.Contains(t, body, "raw prompt text")
	assert.NotContains(t, body, "Privacy Policy Content")
}

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	t.Run("parses category scores", func(t *testing.T) {
		t.Parallel()

		client, bodies := newFakeGemini(t, http.StatusOK, `{"Clarity": 0.8, "Transparency": 0.4, "Accessibility": 0.6, "Security": 0.9, "Comprehensiveness": 0.2}`)
		c := gemini.NewClassifier(client, "gemini-2.5-flash-lite")

		result, err := c.Classify(context.Background(), "We encrypt data.", policylens.ClassifyOptions{TopK: 2})

		require.NoError(t, err)
		assert.Equal(t, policylens.ClassificationResult{
			{Name: "Security", Score: 0.9},
			{Name: "Clarity", Score: 0.8},
		}, result)

		body := <-bodies
		assert.Contains(t, body, "application/json")
		assert.Contains(t, body, "We encrypt data.")
	})

	t.Run("unparseable reply is a backend error", func(t *testing.T) {
		t.Parallel()

		client, _ := newFakeGemini(t, http.StatusOK, "I cannot help with that.")
		c := gemini.NewClassifier(client, "gemini-2.5-flash-lite")

		_, err := c.Classify(context.Background(), "We encrypt data.", policylens.ClassifyOptions{})

		assert.Equal(t, policylens.EBACKEND, policylens.ErrorCode(err))
	})
}

func TestBuildSummaryConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildSummaryConfig()

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "privacy policies")
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.4, *config.Temperature, 0.001)
}

func TestBuildClassifyConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildClassifyConfig()

	assert.Equal(t, "application/json", config.ResponseMIMEType)
	require.NotNil(t, config.ResponseSchema)
	assert.Equal(t, genai.TypeObject, config.ResponseSchema.Type)
	assert.Equal(t, policylens.Categories, config.ResponseSchema.Required)
	for _, name := range policylens.Categories {
		require.Contains(t, config.ResponseSchema.Properties, name)
		assert.Equal(t, genai.TypeNumber, config.ResponseSchema.Properties[name].Type)
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := gemini.NewClient(context.Background(), "")

	assert.Equal(t, policylens.EBACKEND, policylens.ErrorCode(err))
}
