package httpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultPrompt is used when a chat request carries no prompt.
const DefaultPrompt = "Hello from AI Accounting Agent"

const maxBodyBytes = 32 << 20

type presigner interface {
	Presign(ctx context.Context, filename, contentType string) (*Grant, error)
}

type store interface {
	Save(name string, data []byte) (string, error)
}

// Handler serves the development chat API.
type Handler struct {
	replyField string
	presigner  presigner
	store      store
	logger     logging.Logger
}

func NewHandler(replyField string, p presigner, s store, l logging.Logger) *Handler {
	if replyField == "" {
		replyField = common.ReplyFieldModelResponse
	}
	return &Handler{replyField: replyField, presigner: p, store: s, logger: l}
}

// Routes builds the API router. Every POST path other than /presign and
// /upload is chat.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Use(cors)

	r.Post(common.PresignPath, h.presign)
	r.Post(common.UploadPath, h.upload)
	r.Post(common.RootPath, h.chat)
	r.Post(common.RootPath+"*", h.chat)

	return r
}

type errorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// chat echoes the prompt. A JSON object body supplies "prompt"; any other
// body is the prompt itself.
func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	prompt := promptFrom(body)
	h.logger.Info(r.Context(), "chat", "prompt_len", len(prompt))

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         false,
		h.replyField: "(mock) echo: " + prompt,
	})
}

func promptFrom(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return DefaultPrompt
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return string(body)
	}

	raw, ok := obj["prompt"]
	if !ok {
		return DefaultPrompt
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

type presignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

func (h *Handler) presign(w http.ResponseWriter, r *http.Request) {
	var req presignRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode: %w", err))
		return
	}
	if strings.TrimSpace(req.Filename) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("filename is required"))
		return
	}

	grant, err := h.presigner.Presign(r.Context(), req.Filename, req.ContentType)
	if err != nil {
		h.logger.Error(r.Context(), "presign failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}

	h.logger.Info(r.Context(), "presigned", "key", grant.Key)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "presigned": grant})
}

type uploadRequest struct {
	Filename      string `json:"filename"`
	ContentBase64 string `json:"contentBase64"`
}

type uploadReply struct {
	OK       bool   `json:"ok"`
	Path     string `json:"path"`
	Markdown string `json:"markdown"`
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode: %w", err))
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.ContentBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("contentBase64: %w", err))
		return
	}

	path, err := h.store.Save(req.Filename, data)
	if err != nil {
		h.logger.Error(r.Context(), "upload failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	h.logger.Info(r.Context(), "uploaded", "path", path, "size", len(data))
	writeJSON(w, http.StatusOK, uploadReply{
		OK:       true,
		Path:     path,
		Markdown: fmt.Sprintf("Received **%s** (%d bytes), stored as `%s`.", req.Filename, len(data), path),
	})
}

// cors allows browser clients on any origin and answers preflight requests.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Debug(r.Context(), "request",
			"request_id", middleware.GetReqID(r.Context()), "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorReply{OK: false, Error: err.Error()})
}
