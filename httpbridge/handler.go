package httpbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/elnormous/contenttype"
	"github.com/google/uuid"

	rpcbridge "github.com/wagiedev/rpc-stdio-bridge"
	"github.com/wagiedev/rpc-stdio-bridge/internal/jsonrpc"
)

const (
	// DefaultStatus is reported by GET unless overridden.
	DefaultStatus = "Monday.com MCP Server"

	// DefaultVersion is reported by GET unless overridden.
	DefaultVersion = "1.0.0"

	// RequestIDHeader carries the id assigned to each HTTP request.
	RequestIDHeader = "X-Request-Id"

	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

var jsonMediaType = contenttype.NewMediaType("application/json")

// Executor runs one JSON-RPC request. *rpcbridge.Proxy implements it.
type Executor interface {
	Execute(ctx context.Context, request json.RawMessage, token string) (json.RawMessage, error)
}

// Handler is the HTTP front end of the bridge.
type Handler struct {
	exec         Executor
	log          *slog.Logger
	tokenSource  TokenSource
	version      string
	status       string
	maxBodyBytes int64
	now          func() time.Time
}

var _ http.Handler = (*Handler)(nil)

// New creates a Handler forwarding POST bodies to exec.
func New(exec Executor, opts ...Option) *Handler {
	cfg := &handlerConfig{
		status:       DefaultStatus,
		version:      DefaultVersion,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	log := cfg.logger
	if log == nil {
		log = rpcbridge.NopLogger()
	}

	tokenSource := cfg.tokenSource
	if tokenSource == nil {
		tokenSource = func() string { return "" }
	}

	maxBody := cfg.maxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	return &Handler{
		exec:         exec,
		log:          log.With("component", "httpbridge"),
		tokenSource:  tokenSource,
		version:      cfg.version,
		status:       cfg.status,
		maxBodyBytes: maxBody,
		now:          time.Now,
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w.Header())

	requestID := uuid.NewString()
	w.Header().Set(RequestIDHeader, requestID)

	log := h.log.With(slog.String("request_id", requestID), slog.String("method", r.Method))

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		h.handleGet(w, r, log)
	case http.MethodPost:
		h.handlePost(w, r, log)
	default:
		log.InfoContext(r.Context(), "http.method.not_allowed")
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	}
}

func setCORSHeaders(header http.Header) {
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

type statusResponse struct {
	Status          string `json:"status"`
	Timestamp       string `json:"timestamp"`
	TokenConfigured bool   `json:"token_configured"`
	Version         string `json:"version"`
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, log *slog.Logger) {
	log.DebugContext(r.Context(), "http.get")

	writeJSON(w, http.StatusOK, statusResponse{
		Status:          h.status,
		Timestamp:       h.now().UTC().Format(timestampLayout),
		TokenConfigured: h.tokenSource() != "",
		Version:         h.version,
	})
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request, log *slog.Logger) {
	start := time.Now()
	ctx := r.Context()
	log.InfoContext(ctx, "http.post.start")

	if r.Header.Get("Content-Type") != "" {
		ctype, err := contenttype.GetMediaType(r)
		if err != nil || !ctype.Matches(jsonMediaType) {
			log.WarnContext(ctx, "content_type.unsupported", slog.String("content_type", r.Header.Get("Content-Type")))
			writeJSON(w, http.StatusUnsupportedMediaType, jsonrpc.NewErrorResponse(nil,
				jsonrpc.ErrorCodeParseError, jsonrpc.MessageParseError, "content-type must be application/json"))

			return
		}
	}

	var request json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes)).Decode(&request); err != nil {
		log.WarnContext(ctx, "json.decode.fail", slog.String("err", err.Error()))
		writeJSON(w, http.StatusBadRequest, jsonrpc.NewErrorResponse(nil,
			jsonrpc.ErrorCodeParseError, jsonrpc.MessageParseError, decodeErrorMessage(err)))

		return
	}

	id := rpcbridge.RequestID(request)
	log = log.With(slog.String("rpc_id", string(id)))

	token := h.tokenSource()
	if token == "" {
		log.WarnContext(ctx, "token.missing")
		status, resp := rpcbridge.ErrorResponse(id, rpcbridge.ErrTokenNotConfigured)
		writeJSON(w, status, resp)

		return
	}

	resp, err := h.execute(ctx, request, token)
	if err != nil {
		status, envelope := rpcbridge.ErrorResponse(id, err)
		log.ErrorContext(ctx, "http.post.fail",
			slog.Int("status", status),
			slog.String("err", err.Error()),
			slog.Duration("duration", time.Since(start)))
		writeJSON(w, status, envelope)

		return
	}

	w.Header().Set("Content-Type", jsonMediaType.String())
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(resp); err != nil {
		log.WarnContext(ctx, "http.write.fail", slog.String("err", err.Error()))

		return
	}

	log.InfoContext(ctx, "http.post.ok",
		slog.Int("bytes", len(resp)),
		slog.Duration("duration", time.Since(start)))
}

// execute calls the executor and turns a panic into an error.
func (h *Handler) execute(ctx context.Context, request json.RawMessage, token string) (resp json.RawMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.ErrorContext(ctx, "executor.panic", slog.Any("panic", r))
			resp, err = nil, fmt.Errorf("executor panic: %v", r)
		}
	}()

	return h.exec.Execute(ctx, request, token)
}

func decodeErrorMessage(err error) string {
	if _, ok := errors.AsType[*http.MaxBytesError](err); ok {
		return "request body too large"
	}

	if errors.Is(err, io.EOF) {
		return "empty request body"
	}

	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", jsonMediaType.String())
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
