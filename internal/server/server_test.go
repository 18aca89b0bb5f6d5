package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/modelink/modelink/internal/chatlink"
	"github.com/modelink/modelink/internal/chatlink/content"
	"github.com/modelink/modelink/internal/chatlink/encode"
	"github.com/modelink/modelink/internal/config"
)

// newTestServer wires the full stack against a fake provider backend and
// returns the server handler.
func newTestServer(t *testing.T, providerStatus int, providerBody string) http.Handler {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(providerStatus)
		w.Write([]byte(providerBody))
	}))
	t.Cleanup(upstream.Close)

	registry := chatlink.NewRegistry(chatlink.Config{
		Providers: map[string]chatlink.ProviderConfig{
			"groq": {Enabled: true, Model: "test-model", APIKey: "sk-test", BaseURL: upstream.URL},
		},
	})
	return New(config.Default().Server, registry, nil, "test").Handler()
}

func postChat(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewReader(raw))
	h.ServeHTTP(rec, req)
	return rec
}

func TestChatRoundTrip(t *testing.T) {
	h := newTestServer(t, http.StatusOK,
		`{"choices":[{"message":{"content":"Hi there!"}}]}`)

	rec := postChat(t, h, map[string]any{"provider": "groq", "message": "Hello"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ConversationID string         `json:"conversation_id"`
		Provider       string         `json:"provider"`
		Model          string         `json:"model"`
		Reply          string         `json:"reply"`
		History        []content.Turn `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ConversationID)
	require.Equal(t, "groq", resp.Provider)
	require.Equal(t, "test-model", resp.Model)
	require.Equal(t, "Hi there!", resp.Reply)
	require.Len(t, resp.History, 2)

	// Second turn on the same conversation grows the transcript by two.
	rec = postChat(t, h, map[string]any{
		"conversation_id": resp.ConversationID,
		"provider":        "groq",
		"message":         "And again",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.History, 4)
}

func TestChatWithAttachment(t *testing.T) {
	h := newTestServer(t, http.StatusOK,
		`{"choices":[{"message":{"content":"looks like noise"}}]}`)

	rec := postChat(t, h, map[string]any{
		"provider": "groq",
		"message":  "what is this",
		"attachment": map[string]string{
			"name":      "blob.bin",
			"mime_type": "application/octet-stream",
			"data":      encode.ToBase64([]byte("binary")),
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		History []content.Turn `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.History[0].Content, "[Uploaded file: blob.bin")
}

func TestChatRejectsBadInput(t *testing.T) {
	h := newTestServer(t, http.StatusOK, `{}`)

	rec := postChat(t, h, map[string]any{"provider": "groq", "message": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "INVALID_INPUT")

	rec = postChat(t, h, map[string]any{
		"provider": "groq",
		"message":  "hi",
		"attachment": map[string]string{
			"name": "x", "mime_type": "text/plain", "data": "*** not base64 ***",
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatMapsProviderErrors(t *testing.T) {
	h := newTestServer(t, http.StatusUnauthorized, `{"error":"bad key"}`)
	rec := postChat(t, h, map[string]any{"provider": "groq", "message": "hi"})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "PROVIDER_AUTH_FAILED")

	h = newTestServer(t, http.StatusInternalServerError, `boom`)
	rec = postChat(t, h, map[string]any{"provider": "groq", "message": "hi"})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "PROVIDER_REQUEST_FAILED")

	h = newTestServer(t, http.StatusOK, `{}`)
	rec = postChat(t, h, map[string]any{"provider": "nonsense", "message": "hi"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConversationReset(t *testing.T) {
	h := newTestServer(t, http.StatusOK,
		`{"choices":[{"message":{"content":"ok"}}]}`)

	rec := postChat(t, h, map[string]any{"provider": "groq", "message": "hi"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		ConversationID string `json:"conversation_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	del := httptest.NewRecorder()
	h.ServeHTTP(del, httptest.NewRequest(http.MethodDelete, "/v1/conversations/"+resp.ConversationID, nil))
	require.Equal(t, http.StatusNoContent, del.Code)

	// Deleting again reports unknown.
	del = httptest.NewRecorder()
	h.ServeHTTP(del, httptest.NewRequest(http.MethodDelete, "/v1/conversations/"+resp.ConversationID, nil))
	require.Equal(t, http.StatusNotFound, del.Code)
}

func TestHealthAndProviders(t *testing.T) {
	h := newTestServer(t, http.StatusOK, `{}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/providers", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Providers []struct {
			ID     string `json:"id"`
			Vision bool   `json:"vision"`
		} `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Providers, 1)
	require.Equal(t, "groq", resp.Providers[0].ID)
}

func TestRequestIDEchoedOnErrors(t *testing.T) {
	h := newTestServer(t, http.StatusOK, `{}`)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewReader([]byte("{not json")))
	req.Header.Set("X-Request-Id", "req-42")
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Error struct {
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "req-42", resp.Error.RequestID)
}
