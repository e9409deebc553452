// Package server exposes the document converter over HTTP. Clients post
// a path relative to the configured root directory and receive the PDF
// base64-encoded in a JSON envelope.
package server

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	docreader "github.com/stellarshenson/jupyterlab-doc-reader-extension"
	"github.com/stellarshenson/jupyterlab-doc-reader-extension/fonts"
)

// Server handles conversion requests.
type Server struct {
	cfg      Config
	logger   *slog.Logger
	fontSets []fonts.CandidateSet
}

// New creates a Server. A nil logger discards diagnostics.
func New(cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{cfg: cfg, logger: logger}
	if cfg.FontDir != "" {
		s.fontSets = fonts.CandidatesUnder(cfg.FontDir)
	}
	return s
}

// Routes builds the HTTP handler, mounted under the configured base URL.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	prefix := "/" + strings.Trim(s.cfg.BaseURL, "/")
	r.Route(prefix, func(r chi.Router) {
		r.Get("/healthz", s.handleHealth)
		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)
			r.Post("/convert", s.handleConvert)
		})
	})
	return r
}

type convertRequest struct {
	Path string `json:"path"`
}

type convertResponse struct {
	Success   bool   `json:"success"`
	PDFData   string `json:"pdf_data,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireToken enforces the optional shared-secret scheme: clients send
// "Authorization: token <value>". An empty configured token disables it.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AuthToken != "" {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "token ")
			if got != s.cfg.AuthToken {
				writeError(w, http.StatusForbidden, "invalid or missing token", "Forbidden")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "BadRequest")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required", "BadRequest")
		return
	}

	full, ok := s.resolve(req.Path)
	if !ok {
		writeError(w, http.StatusBadRequest, "path escapes the served directory", "BadRequest")
		return
	}
	if info, err := os.Stat(full); err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, "file not found: "+req.Path, "FileNotFound")
		return
	}

	res, err := docreader.ConvertFileWithOptions(full, docreader.Options{
		Logger:   s.logger,
		FontSets: s.fontSets,
	})
	if err != nil {
		kind := docreader.ErrorKind(err)
		status := http.StatusInternalServerError
		if kind == "UnsupportedFormat" {
			status = http.StatusBadRequest
		}
		s.logger.Warn("conversion failed", "path", req.Path, "kind", kind, "error", err)
		writeError(w, status, err.Error(), kind)
		return
	}

	s.logger.Info("conversion completed", "path", req.Path, "pdf_bytes", len(res.PDF))
	writeJSON(w, http.StatusOK, convertResponse{
		Success:  true,
		PDFData:  base64.StdEncoding.EncodeToString(res.PDF),
		Filename: res.Filename,
	})
}

// resolve maps a client-supplied relative path to a file under the root
// directory. Absolute paths and upward traversal are rejected.
func (s *Server) resolve(p string) (string, bool) {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) || !filepath.IsLocal(p) {
		return "", false
	}
	return filepath.Join(s.cfg.RootDir, p), true
}

func writeError(w http.ResponseWriter, status int, msg, kind string) {
	writeJSON(w, status, convertResponse{Error: msg, ErrorType: kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
