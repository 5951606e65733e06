package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	xerrors "OpenMCP-EVM/internal/errors"
	"OpenMCP-EVM/internal/observability/metrics"
	"OpenMCP-EVM/internal/resources"
	"OpenMCP-EVM/pkg/logger"
)

// MimeTypeJSON is advertised for every registered document.
const MimeTypeJSON = resources.MimeTypeJSON

// Descriptor is the public description of a registered resource.
type Descriptor struct {
	Name     string `json:"name"`
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
}

type entry struct {
	descriptor Descriptor
	handler    resources.Handler
}

// Server keeps resource handlers keyed by name and URI. Registration is
// expected at start-up; reads may run concurrently.
type Server struct {
	mu      sync.RWMutex
	order   []*entry
	byName  map[string]*entry
	byURI   map[string]*entry
	metrics *metrics.Collector
	log     *slog.Logger
	audit   *slog.Logger
}

// Option customises a Server.
type Option func(*Server)

// WithMetrics records every read in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = c
	}
}

// WithLogger overrides the application logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithAuditLogger overrides the logger that records resource reads.
func WithAuditLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.audit = l
		}
	}
}

// NewServer creates an empty resource host.
func NewServer(opts ...Option) *Server {
	s := &Server{
		byName: make(map[string]*entry),
		byURI:  make(map[string]*entry),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.log == nil {
		s.log = logger.Named("mcp")
	}
	if s.audit == nil {
		s.audit = logger.Audit()
	}
	return s
}

// Resource implements resources.Registrar. Names and URIs must be unique.
func (s *Server) Resource(name, uriTemplate string, handler resources.Handler) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return xerrors.New(xerrors.CodeInvalidArgument, "resource name cannot be empty")
	}
	if handler == nil {
		return xerrors.New(xerrors.CodeInvalidArgument, fmt.Sprintf("resource %s has no handler", name))
	}
	key, err := resourceKey(uriTemplate)
	if err != nil {
		return xerrors.Wrap(xerrors.CodeInvalidArgument, err, fmt.Sprintf("resource %s has an invalid uri", name))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.byName[name]; dup {
		return xerrors.New(xerrors.CodeConflict, fmt.Sprintf("resource %s already registered", name),
			xerrors.WithMetadata("name", name))
	}
	if existing, dup := s.byURI[key]; dup {
		return xerrors.New(xerrors.CodeConflict,
			fmt.Sprintf("uri %s already registered by %s", uriTemplate, existing.descriptor.Name),
			xerrors.WithMetadata("uri", uriTemplate))
	}

	e := &entry{
		descriptor: Descriptor{Name: name, URI: uriTemplate, MimeType: MimeTypeJSON},
		handler:    handler,
	}
	s.order = append(s.order, e)
	s.byName[name] = e
	s.byURI[key] = e
	s.log.Debug("resource registered", "name", name, "uri", uriTemplate)
	return nil
}

// List returns the registered resources in registration order.
func (s *Server) List() []Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Descriptor, len(s.order))
	for i, e := range s.order {
		out[i] = e.descriptor
	}
	return out
}

// Read resolves rawURI to a registered resource and invokes its handler with
// the fully parsed request URI. Query strings and fragments do not take part
// in matching.
func (s *Server) Read(ctx context.Context, rawURI string) (*resources.ReadResult, error) {
	key, err := resourceKey(rawURI)
	if err != nil {
		err = xerrors.Wrap(xerrors.CodeInvalidArgument, err, "invalid resource uri", xerrors.WithMetadata("uri", rawURI))
		s.metrics.ObserveResourceRead("", err)
		logFailure(ctx, s.log, "resource read failed", err)
		return nil, err
	}
	uri, _ := url.Parse(strings.TrimSpace(rawURI))

	s.mu.RLock()
	e, ok := s.byURI[key]
	s.mu.RUnlock()
	if !ok {
		err := xerrors.New(xerrors.CodeNotFound, fmt.Sprintf("resource %s not found", rawURI),
			xerrors.WithMetadata("uri", rawURI))
		s.metrics.ObserveResourceRead("", err)
		s.audit.Info("resource.read", "uri", rawURI, "found", false, "request_id", RequestIDFrom(ctx))
		logFailure(ctx, s.log, "resource read failed", err)
		return nil, err
	}

	result, err := e.handler(ctx, uri)
	s.metrics.ObserveResourceRead(e.descriptor.Name, err)
	s.audit.Info("resource.read",
		"name", e.descriptor.Name,
		"uri", rawURI,
		"found", true,
		"ok", err == nil,
		"request_id", RequestIDFrom(ctx),
	)
	if err != nil {
		logFailure(ctx, s.log, "resource handler failed", err, "name", e.descriptor.Name)
		return nil, err
	}
	return result, nil
}

// logFailure records err at the level its severity maps to. Plain errors are
// treated as UNKNOWN and logged at error level.
func logFailure(ctx context.Context, l *slog.Logger, msg string, err error, attrs ...any) {
	attrs = append(attrs, xerrors.LogAttrs(err)...)
	if id := RequestIDFrom(ctx); id != "" {
		attrs = append(attrs, "request_id", id)
	}
	l.Log(ctx, xerrors.SeverityOf(err).Level(), msg, attrs...)
}

func resourceKey(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("uri cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("uri %q has no scheme", raw)
	}
	return strings.ToLower(u.Scheme) + "://" + u.Host + u.Path, nil
}

var _ resources.Registrar = (*Server)(nil)
