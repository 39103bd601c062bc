package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonwraymond/safelaw/auth"
	"github.com/jonwraymond/safelaw/dispatch"
	"github.com/jonwraymond/safelaw/fault"
	"github.com/jonwraymond/safelaw/health"
	"github.com/jonwraymond/safelaw/observe"
)

// maxBodyBytes bounds the invoke request body.
const maxBodyBytes = 1 << 20

// Config configures the HTTP surface.
type Config struct {
	// Dispatcher routes invoke requests. Required.
	Dispatcher *dispatch.Dispatcher

	// Auth guards the invoke endpoint. Default: anonymous.
	Auth *auth.Chain

	// Health serves the health endpoint. Default: empty registry.
	Health *health.Registry

	// Logger defaults to a no-op.
	Logger observe.Logger
}

// Server is the HTTP transport in front of the dispatcher.
type Server struct {
	dispatcher *dispatch.Dispatcher
	auth       *auth.Chain
	health     *health.Registry
	logger     observe.Logger
}

// ErrNilDispatcher indicates Config.Dispatcher was not provided.
var ErrNilDispatcher = errors.New("server: dispatcher is required")

// New creates the HTTP server surface.
func New(cfg Config) (*Server, error) {
	if cfg.Dispatcher == nil {
		return nil, ErrNilDispatcher
	}
	if cfg.Auth == nil {
		cfg.Auth = auth.NewChain()
	}
	if cfg.Health == nil {
		cfg.Health = health.NewRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	return &Server{
		dispatcher: cfg.Dispatcher,
		auth:       cfg.Auth,
		health:     cfg.Health,
		logger:     cfg.Logger,
	}, nil
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/invoke", s.handleInvoke)
	mux.HandleFunc("/healthz", health.Handler(s.health))
	mux.HandleFunc("/livez", health.LivenessHandler())
	return mux
}

// invokeRequest is the inbound function-call envelope.
type invokeRequest struct {
	FunctionName string         `json:"function_name"`
	Arguments    map[string]any `json:"arguments"`
}

// errorBody is the outbound error envelope. Message text comes from the
// fault taxonomy and never carries upstream internals.
type errorBody struct {
	Error struct {
		Kind    string `json:"kind"`
		Code    string `json:"code,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, fault.New(fault.KindBadRequest, "method not allowed"), http.StatusMethodNotAllowed)
		return
	}

	identity, err := s.auth.Authenticate(r.Context(), r)
	if err != nil {
		s.logger.Warn(r.Context(), "authentication failed")
		writeError(w, fault.New(fault.KindUnauthorized, "authentication required"), 0)
		return
	}

	var req invokeRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fault.New(fault.KindBadRequest, "request body must be JSON"), 0)
		return
	}

	s.logger.Debug(r.Context(), "invoke accepted",
		observe.F("principal", identity.Principal),
		observe.F("function", req.FunctionName),
	)

	result, err := s.dispatcher.Handle(r.Context(), req.FunctionName, req.Arguments)
	if err != nil {
		writeError(w, fault.AsError(err), 0)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)
}

// writeError writes the error envelope. status overrides the fault's own
// HTTP mapping when non-zero.
func writeError(w http.ResponseWriter, fe *fault.Error, status int) {
	if status == 0 {
		status = fe.HTTPStatus()
	}

	var body errorBody
	body.Error.Kind = fe.Kind.String()
	body.Error.Code = fe.Code
	body.Error.Message = fe.Message

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
