package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/modelink/modelink/internal/chatlink/content"
	"github.com/modelink/modelink/internal/chatlink/driver"
	"github.com/modelink/modelink/internal/chatlink/encode"
	servermw "github.com/modelink/modelink/internal/server/middleware"
)

// chatRequest is the POST /v1/chat body. Attachment data is standard
// base64.
type chatRequest struct {
	ConversationID string          `json:"conversation_id,omitempty"`
	Provider       string          `json:"provider,omitempty"`
	Message        string          `json:"message"`
	Attachment     *attachmentBody `json:"attachment,omitempty"`
}

type attachmentBody struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type chatResponse struct {
	ConversationID string         `json:"conversation_id"`
	Provider       string         `json:"provider"`
	Model          string         `json:"model"`
	Reply          string         `json:"reply"`
	Degraded       bool           `json:"degraded,omitempty"`
	History        []content.Turn `json:"history"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "INVALID_INPUT", "request body is not valid JSON")
		return
	}
	if strings.TrimSpace(req.Message) == "" && req.Attachment == nil {
		s.writeError(w, r, http.StatusBadRequest, "INVALID_INPUT", "message or attachment is required")
		return
	}

	var att *content.Attachment
	if req.Attachment != nil {
		data, err := encode.FromBase64(req.Attachment.Data)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "INVALID_INPUT", "attachment data is not valid base64")
			return
		}
		att = &content.Attachment{
			Name:     req.Attachment.Name,
			MimeType: req.Attachment.MimeType,
			Data:     data,
		}
	}

	id, convo := s.convos.acquire(req.ConversationID)

	// Single writer per conversation: concurrent messages for the same id
	// serialize here.
	convo.mu.Lock()
	defer convo.mu.Unlock()

	result, err := s.registry.Converse(r.Context(), req.Provider, req.Message, att, convo.history)
	if err != nil {
		s.writeConverseError(w, r, err)
		return
	}
	convo.history = result.History

	s.log.Info("chat turn completed",
		zap.String("request_id", servermw.GetRequestID(r.Context())),
		zap.String("conversation_id", id),
		zap.String("provider", result.Provider),
		zap.String("model", result.Model),
		zap.Bool("degraded", result.Degraded))

	s.writeJSON(w, http.StatusOK, chatResponse{
		ConversationID: id,
		Provider:       result.Provider,
		Model:          result.Model,
		Reply:          result.Reply,
		Degraded:       result.Degraded,
		History:        result.History,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.convos.reset(id) {
		s.writeError(w, r, http.StatusNotFound, "NOT_FOUND", "unknown conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	type providerInfo struct {
		ID        string `json:"id"`
		Label     string `json:"label"`
		Vision    bool   `json:"vision"`
		Documents bool   `json:"documents"`
	}

	var infos []providerInfo
	for _, id := range s.registry.ProviderIDs() {
		prof, ok := s.registry.Profile(id)
		if !ok {
			continue
		}
		infos = append(infos, providerInfo{
			ID:        prof.ID,
			Label:     prof.Label,
			Vision:    prof.SupportsVision,
			Documents: prof.SupportsDocuments,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"providers": infos})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// writeConverseError maps the adapter error taxonomy onto HTTP statuses:
// rejected credentials and upstream failures are bad-gateway class, unknown
// or disabled providers are client errors.
func (s *Server) writeConverseError(w http.ResponseWriter, r *http.Request, err error) {
	var authErr *driver.AuthError
	if errors.As(err, &authErr) {
		s.writeError(w, r, http.StatusBadGateway, "PROVIDER_AUTH_FAILED", authErr.Error())
		return
	}
	var provErr *driver.ProviderError
	if errors.As(err, &provErr) {
		s.writeError(w, r, http.StatusBadGateway, "PROVIDER_REQUEST_FAILED", provErr.Error())
		return
	}
	s.writeError(w, r, http.StatusBadRequest, "INVALID_INPUT", err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := servermw.GetRequestID(r.Context())
	s.log.Warn("request failed",
		zap.String("request_id", requestID),
		zap.String("code", code),
		zap.Int("status", status),
		zap.String("message", message))
	s.writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message, RequestID: requestID}})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
