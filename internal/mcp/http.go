package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"OpenMCP-EVM/internal/chains"
	xerrors "OpenMCP-EVM/internal/errors"
	"OpenMCP-EVM/internal/observability/metrics"
	"OpenMCP-EVM/pkg/logger"
)

// HeaderRequestID carries the request id on requests and responses.
const HeaderRequestID = "X-Request-ID"

// JSON-RPC error codes used by the transport.
const (
	codeParseError       = -32700
	codeInvalidRequest   = -32600
	codeMethodNotFound   = -32601
	codeInvalidParams    = -32602
	codeInternalError    = -32603
	codeResourceNotFound = -32002
)

// HTTPServer exposes the resource host and the chain registry over HTTP.
type HTTPServer struct {
	addr     string
	host     *Server
	registry *chains.Registry
	metrics  *metrics.Collector
	log      *slog.Logger
}

// NewHTTPServer wires an HTTP transport. registry and collector may be nil.
func NewHTTPServer(addr string, host *Server, registry *chains.Registry, collector *metrics.Collector) *HTTPServer {
	return &HTTPServer{
		addr:     addr,
		host:     host,
		registry: registry,
		metrics:  collector,
		log:      logger.Named("http"),
	}
}

// Handler returns the full route table.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /mcp", s.instrument("mcp", http.HandlerFunc(s.handleRPC)))
	mux.Handle("GET /api/v1/chains", s.instrument("chains", http.HandlerFunc(s.handleListChains)))
	mux.Handle("GET /api/v1/chains/{id}", s.instrument("chain_detail", http.HandlerFunc(s.handleChainDetail)))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return withRequestID(mux)
}

// Start serves until ctx is cancelled or the listener fails.
func (s *HTTPServer) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           withContext(ctx, s.Handler()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.log.Info("http server listening", "address", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *HTTPServer) instrument(name string, next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return s.metrics.Instrument(name, next)
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type readParams struct {
	URI string `json:"uri"`
}

type listResult struct {
	Resources []Descriptor `json:"resources"`
}

// handleRPC answers resources/list and resources/read.
func (s *HTTPServer) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPC(w, rpcResponse{Error: &rpcError{Code: codeParseError, Message: "invalid JSON body"}})
		return
	}
	resp := rpcResponse{ID: req.ID}
	if req.JSONRPC != "2.0" {
		resp.Error = &rpcError{Code: codeInvalidRequest, Message: "jsonrpc must be \"2.0\""}
		writeRPC(w, resp)
		return
	}

	switch req.Method {
	case "resources/list":
		resp.Result = listResult{Resources: s.host.List()}
	case "resources/read":
		var params readParams
		if len(req.Params) == 0 || json.Unmarshal(req.Params, &params) != nil || strings.TrimSpace(params.URI) == "" {
			resp.Error = &rpcError{Code: codeInvalidParams, Message: "params.uri is required"}
			break
		}
		result, err := s.host.Read(r.Context(), params.URI)
		if err != nil {
			resp.Error = toRPCError(err, params.URI)
			break
		}
		resp.Result = result
	default:
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: "method not found: " + req.Method}
	}
	writeRPC(w, resp)
}

func toRPCError(err error, uri string) *rpcError {
	switch xerrors.CodeOf(err) {
	case xerrors.CodeNotFound:
		return &rpcError{Code: codeResourceNotFound, Message: "resource not found", Data: map[string]string{"uri": uri}}
	case xerrors.CodeInvalidArgument:
		msg := err.Error()
		if coded, ok := xerrors.From(err); ok {
			msg = coded.Message()
		}
		return &rpcError{Code: codeInvalidParams, Message: msg, Data: map[string]string{"uri": uri}}
	default:
		return &rpcError{Code: codeInternalError, Message: err.Error()}
	}
}

type chainList struct {
	Chains []string `json:"chains"`
}

type errorBody struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Supported []string `json:"supported,omitempty"`
}

func (s *HTTPServer) handleListChains(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, chainList{Chains: s.registry.List()})
}

func (s *HTTPServer) handleChainDetail(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.registry.Lookup(r.PathValue("id"))
	if err != nil {
		logFailure(r.Context(), s.log, "chain lookup failed", err, "chain", r.PathValue("id"))
		body := errorBody{Code: string(xerrors.CodeOf(err)), Message: err.Error()}
		var notSupported *chains.ChainNotSupportedError
		if errors.As(err, &notSupported) {
			body.Supported = notSupported.Supported
		}
		writeJSON(w, xerrors.StatusOf(err), body)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func writeRPC(w http.ResponseWriter, resp rpcResponse) {
	resp.JSONRPC = "2.0"
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type requestIDKey struct{}

// RequestIDFrom returns the request id stored in ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// withRequestID reuses the caller's X-Request-ID or assigns a new one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// withContext refuses new requests once the root context is cancelled.
func withContext(ctx context.Context, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-ctx.Done():
			http.Error(w, "server shutting down", http.StatusServiceUnavailable)
			return
		default:
		}
		handler.ServeHTTP(w, r)
	})
}
