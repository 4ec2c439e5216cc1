// Package httpserve hosts the `shpurify serve` subcommand: a thin,
// clearly-bounded HTTP daemon wrapping the synchronous core for editor
// integrations, exposing POST /lint and POST /purify over plain JSON.
// Adapted from the teacher's chi + cors server wiring in
// backend/internal/server.go, with the connect/gRPC service layer dropped —
// this daemon is not an RPC service, just a JSON wrapper over the pipeline.
package httpserve

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/shpurify/shpurify/internal/diag"
	"github.com/shpurify/shpurify/internal/emitter"
	"github.com/shpurify/shpurify/internal/lint"
	"github.com/shpurify/shpurify/internal/lint/rules"
	"github.com/shpurify/shpurify/internal/parser"
	"github.com/shpurify/shpurify/internal/purifier"
)

type Server struct {
	server *http.Server
	host   string
	port   string
}

func NewServer(host, port string) *Server {
	return &Server{host: host, port: port}
}

type lintRequest struct {
	Source string `json:"source"`
}

type lintResponse struct {
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Error       string             `json:"error,omitempty"`
}

type purifyRequest struct {
	Source string `json:"source"`
}

type purifyResponse struct {
	Emitted string                        `json:"emitted,omitempty"`
	Report  *purifier.PurificationReport  `json:"report,omitempty"`
	Error   string                        `json:"error,omitempty"`
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Post("/lint", handleLint)
	r.Post("/purify", handlePurify)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}

func handleLint(w http.ResponseWriter, r *http.Request) {
	var req lintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, lintResponse{Error: err.Error()})
		return
	}
	tree, err := parser.Parse(req.Source)
	if err != nil {
		writeJSON(w, http.StatusOK, lintResponse{Error: err.Error()})
		return
	}
	diags := lint.Run(req.Source, tree, rules.All())
	writeJSON(w, http.StatusOK, lintResponse{Diagnostics: diags})
}

func handlePurify(w http.ResponseWriter, r *http.Request) {
	var req purifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, purifyResponse{Error: err.Error()})
		return
	}
	tree, err := parser.Parse(req.Source)
	if err != nil {
		writeJSON(w, http.StatusOK, purifyResponse{Error: err.Error()})
		return
	}
	purified, report, err := purifier.New(purifier.DefaultPurificationOptions()).Purify(tree)
	if err != nil {
		writeJSON(w, http.StatusOK, purifyResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, purifyResponse{Emitted: emitter.Emit(purified), Report: &report})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ListenAndServe starts the HTTP daemon, using ctx as the base context for
// incoming requests so cancellation propagates to in-flight handlers.
func (s *Server) ListenAndServe(ctx context.Context) error {
	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(s.router())

	s.server = &http.Server{
		Addr:        net.JoinHostPort(s.host, s.port),
		Handler:     handler,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
