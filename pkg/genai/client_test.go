package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campusvoice/feedback-api/pkg/config"
)

// newTestClient points the gateway at a stub Ollama endpoint that replies with
// the given text for every generate call.
func newTestClient(t *testing.T, reply string) (*Client, *string) {
	t.Helper()
	var lastPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		lastPrompt = body.Prompt
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{
			"model":    "test-model",
			"response": reply,
			"done":     true,
		}))
	}))
	t.Cleanup(server.Close)

	client, err := New(config.GenAIConfig{
		BaseURL: server.URL,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}, nil)
	require.NoError(t, err)
	return client, &lastPrompt
}

func TestUnconfiguredClientShortCircuits(t *testing.T) {
	client, err := New(config.GenAIConfig{}, nil)
	require.NoError(t, err)
	require.False(t, client.Configured())

	label, err := client.ClassifySentiment(context.Background(), "some text")
	require.NoError(t, err)
	require.Empty(t, label)

	_, err = client.Summarize(context.Background(), "prompt")
	require.Error(t, err)

	_, err = client.Transcribe(context.Background(), "/tmp/nope.webm")
	require.Error(t, err)
}

func TestClassifySentimentTrimsPunctuation(t *testing.T) {
	client, _ := newTestClient(t, " 'positive'. ")

	label, err := client.ClassifySentiment(context.Background(), "the library hours are great")
	require.NoError(t, err)
	require.Equal(t, SentimentPositive, label)
}

func TestClassifySentimentCoercesUnexpectedReply(t *testing.T) {
	client, _ := newTestClient(t, "I would say this is mostly positive overall")

	label, err := client.ClassifySentiment(context.Background(), "mixed feelings")
	require.NoError(t, err)
	require.Equal(t, SentimentNeutral, label)
}

func TestClassifySentimentSkipsBlankText(t *testing.T) {
	client, lastPrompt := newTestClient(t, "POSITIVE")

	label, err := client.ClassifySentiment(context.Background(), "   ")
	require.NoError(t, err)
	require.Empty(t, label)
	require.Empty(t, *lastPrompt, "blank text must not reach the model")
}

func TestSummarizeReturnsNoticeOnEmptyReply(t *testing.T) {
	client, _ := newTestClient(t, "  ")

	summary, err := client.Summarize(context.Background(), "summarize this")
	require.NoError(t, err)
	require.Equal(t, BlockedSummaryNotice, summary)
}

func TestSummarizePassesPromptVerbatim(t *testing.T) {
	client, lastPrompt := newTestClient(t, "Top issues:\n- slow wifi")

	summary, err := client.Summarize(context.Background(), "the full prepared prompt")
	require.NoError(t, err)
	require.Equal(t, "Top issues:\n- slow wifi", summary)
	require.Equal(t, "the full prepared prompt", *lastPrompt)
}

func TestTranscribeRejectsEmptyTranscript(t *testing.T) {
	client, _ := newTestClient(t, "   ")

	audio := filepath.Join(t.TempDir(), "note.webm")
	require.NoError(t, os.WriteFile(audio, []byte("fake-audio-bytes"), 0o600))

	_, err := client.Transcribe(context.Background(), audio)
	require.Error(t, err)
}

func TestTranscribeTrimsReply(t *testing.T) {
	client, _ := newTestClient(t, "  the canteen queue is too long \n")

	audio := filepath.Join(t.TempDir(), "note.webm")
	require.NoError(t, os.WriteFile(audio, []byte("fake-audio-bytes"), 0o600))

	transcript, err := client.Transcribe(context.Background(), audio)
	require.NoError(t, err)
	require.Equal(t, "the canteen queue is too long", transcript)
}
